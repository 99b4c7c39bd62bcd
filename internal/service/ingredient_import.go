package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// IngredientImporter loads catalog ingredients from CSV
type IngredientImporter struct {
	db *gorm.DB
}

// NewIngredientImporter creates a new IngredientImporter instance
func NewIngredientImporter(db *gorm.DB) *IngredientImporter {
	return &IngredientImporter{db: db}
}

// Import reads two-column (name, unit) records and creates the pairs not yet
// in the catalog. It returns how many ingredients were created.
func (imp *IngredientImporter) Import(ctx context.Context, r io.Reader) (int, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	created := 0
	err := imp.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for line := 1; ; line++ {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to parse record %d: %w", line, err)
			}

			name, unit := strings.TrimSpace(record[0]), strings.TrimSpace(record[1])
			if name == "" || unit == "" {
				return fmt.Errorf("record %d: name and unit are required", line)
			}

			var existing int64
			if err := tx.Model(&models.Ingredient{}).
				Where("name = ? AND measurement_unit = ?", name, unit).
				Count(&existing).Error; err != nil {
				return fmt.Errorf("failed to look up %q: %w", name, err)
			}
			if existing > 0 {
				continue
			}

			if err := tx.Create(&models.Ingredient{Name: name, MeasurementUnit: unit}).Error; err != nil {
				return fmt.Errorf("failed to import %q: %w", name, err)
			}
			created++
		}
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
