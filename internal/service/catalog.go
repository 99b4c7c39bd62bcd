package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

var (
	hexColorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	likeEscaper     = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
)

// CatalogService serves the ingredient and tag reference tables
type CatalogService struct {
	db *gorm.DB
}

// Ensure CatalogService implements Catalog
var _ Catalog = (*CatalogService)(nil)

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// SearchIngredients lists ingredients ordered by name. A non-empty prefix
// keeps only names starting with it, ignoring case.
func (s *CatalogService) SearchIngredients(ctx context.Context, prefix string) ([]types.IngredientResponse, error) {
	var ingredients []models.Ingredient
	query := s.db.WithContext(ctx).Order("name, id")
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		query = query.Where(`name_lower LIKE ? ESCAPE '\'`, likeEscaper.Replace(strings.ToLower(prefix))+"%")
	}
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}

	result := make([]types.IngredientResponse, len(ingredients))
	for i, ing := range ingredients {
		result[i] = ingredientResponse(ing)
	}
	return result, nil
}

// GetIngredient retrieves an ingredient by ID
func (s *CatalogService) GetIngredient(ctx context.Context, id uint) (*types.IngredientResponse, error) {
	var ing models.Ingredient
	if err := s.db.WithContext(ctx).First(&ing, id).Error; err != nil {
		return nil, notFound(err)
	}
	resp := ingredientResponse(ing)
	return &resp, nil
}

// ListTags lists every tag
func (s *CatalogService) ListTags(ctx context.Context) ([]types.TagResponse, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	result := make([]types.TagResponse, len(tags))
	for i, tag := range tags {
		result[i] = tagResponse(tag)
	}
	return result, nil
}

// GetTag retrieves a tag by ID
func (s *CatalogService) GetTag(ctx context.Context, id uint) (*types.TagResponse, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, notFound(err)
	}
	resp := tagResponse(tag)
	return &resp, nil
}

// CreateTag validates and stores a new tag
func (s *CatalogService) CreateTag(ctx context.Context, name, color, slug string) (*types.TagResponse, error) {
	verr := &ValidationError{}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 150 {
		verr.Add("name", "Ensure this field has between 1 and 150 characters.")
	}
	if !hexColorPattern.MatchString(color) {
		verr.Add("color", "Invalid color format.")
	}
	if !slugPattern.MatchString(slug) || len(slug) > 50 {
		verr.Add("slug", "Enter a valid slug consisting of letters, numbers, underscores or hyphens.")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	tag := models.Tag{Name: name, Color: color, Slug: slug}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, NewValidationError("slug", "Tag with this slug already exists.")
		}
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	resp := tagResponse(tag)
	return &resp, nil
}

func ingredientResponse(ing models.Ingredient) types.IngredientResponse {
	return types.IngredientResponse{
		ID:              ing.ID,
		Name:            ing.Name,
		MeasurementUnit: ing.MeasurementUnit,
	}
}

func tagResponse(tag models.Tag) types.TagResponse {
	return types.TagResponse{
		ID:    tag.ID,
		Name:  tag.Name,
		Color: tag.Color,
		Slug:  tag.Slug,
	}
}
