// Package storage persists uploaded media and hands back the URL it is served from.
package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Store writes an object under key and returns its public URL. Delete of a
// missing key is not an error.
type Store interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

var ErrInvalidImage = errors.New("upload a valid image")

// Image is a decoded image upload
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// DecodeDataURI decodes "data:image/<fmt>;base64,<payload>". A bare base64
// payload is accepted too. The content type is sniffed from the bytes, never
// trusted from the header.
func DecodeDataURI(raw string) (*Image, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidImage
	}

	payload := raw
	if strings.HasPrefix(raw, "data:") {
		header, body, ok := strings.Cut(raw, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, ErrInvalidImage
		}
		payload = body
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, ErrInvalidImage
	}

	return &Image{Data: data, ContentType: contentType, Ext: ext}, nil
}

// RecipeImageKey returns a fresh object key for a recipe image
func RecipeImageKey(ext string) string {
	return path.Join("recipes", "images", uuid.New().String()+"."+ext)
}
