package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/config"
)

// 1x1 transparent PNG
const pixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func TestDecodeDataURI(t *testing.T) {
	img, err := DecodeDataURI("data:image/png;base64," + pixelPNG)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, "png", img.Ext)
	assert.NotEmpty(t, img.Data)

	bare, err := DecodeDataURI(pixelPNG)
	require.NoError(t, err)
	assert.Equal(t, img.Data, bare.Data)
}

func TestDecodeDataURIRejectsGarbage(t *testing.T) {
	cases := []string{
		"",
		"data:image/png;base64",
		"data:image/png," + pixelPNG,
		"data:image/png;base64,!!!",
		"data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("plain text, not an image")),
	}
	for _, raw := range cases {
		_, err := DecodeDataURI(raw)
		assert.ErrorIs(t, err, ErrInvalidImage, raw)
	}
}

func TestRecipeImageKey(t *testing.T) {
	a, b := RecipeImageKey("png"), RecipeImageKey("png")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "recipes/images/"))
	assert.True(t, strings.HasSuffix(a, ".png"))
}

func TestLocalStoreSave(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root, "/media")

	url, err := store.Save(context.Background(), "recipes/images/a.png", []byte("x"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/media/recipes/images/a.png", url)

	data, err := os.ReadFile(filepath.Join(root, "recipes", "images", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}

func TestLocalStoreDelete(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root, "/media")
	ctx := context.Background()

	_, err := store.Save(ctx, "recipes/images/a.png", []byte("x"), "image/png")
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "recipes/images/a.png"))

	_, err = os.Stat(filepath.Join(root, "recipes", "images", "a.png"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(ctx, "recipes/images/a.png"), "deleting a missing key succeeds")
}

type fakePutter struct {
	input   *s3.PutObjectInput
	deleted *s3.DeleteObjectInput
	err     error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	return &s3.PutObjectOutput{}, f.err
}

func (f *fakePutter) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = params
	return &s3.DeleteObjectOutput{}, f.err
}

func TestS3StoreSave(t *testing.T) {
	putter := &fakePutter{}
	store := &S3Store{client: putter, bucket: "bucket"}

	url, err := store.Save(context.Background(), "recipes/images/a.png", []byte("x"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.s3.amazonaws.com/recipes/images/a.png", url)
	assert.Equal(t, "bucket", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "image/png", aws.ToString(putter.input.ContentType))

	putter.err = errors.New("boom")
	_, err = store.Save(context.Background(), "k", nil, "image/png")
	assert.Error(t, err)
}

func TestS3StoreDelete(t *testing.T) {
	putter := &fakePutter{}
	store := &S3Store{client: putter, bucket: "bucket"}

	require.NoError(t, store.Delete(context.Background(), "recipes/images/a.png"))
	assert.Equal(t, "bucket", aws.ToString(putter.deleted.Bucket))
	assert.Equal(t, "recipes/images/a.png", aws.ToString(putter.deleted.Key))

	putter.err = errors.New("boom")
	assert.Error(t, store.Delete(context.Background(), "k"))
}

func TestNewSelectsBackend(t *testing.T) {
	store, err := New(context.Background(), &config.Config{MediaBackend: config.MediaLocal, MediaRoot: t.TempDir(), MediaURL: "/media"})
	require.NoError(t, err)
	local, ok := store.(*LocalStore)
	require.True(t, ok)
	assert.Equal(t, "/media/", local.BaseURL)

	_, err = New(context.Background(), &config.Config{MediaBackend: "ftp"})
	assert.Error(t, err)
}
