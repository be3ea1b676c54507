package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"strings"
	"testing"

	"gin-bytemarket/dto"
	"gin-bytemarket/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeaders builds real multipart headers for the given field -> filename pairs.
func fileHeaders(t *testing.T, files map[string]string) map[string]*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for field, name := range files {
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte("bytes of " + name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	out := make(map[string]*multipart.FileHeader)
	for field := range files {
		out[field] = form.File[field][0]
	}
	return out
}

func TestCreateProductStoresUploads(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	disk := newTestDisk(t)
	svc := NewProductService(repositories.NewProductRepository(db), disk)
	files := fileHeaders(t, map[string]string{"image": "cover.PNG", "file": "book.pdf"})

	product, err := svc.Create(ctx, dto.CreateProductInput{
		Name:        " Go Patterns ",
		Description: "Concurrency patterns",
		Price:       "14.50",
		Category:    "ebooks",
		Image:       files["image"],
		File:        files["file"],
	}, 7)
	require.NoError(t, err)

	assert.Equal(t, "Go Patterns", product.Name)
	assert.Equal(t, "14.50", product.Price.StringFixed(2))
	assert.EqualValues(t, 7, product.UserID)
	assert.True(t, strings.HasPrefix(product.ImageURL, "/storage/images/"))
	assert.True(t, strings.HasSuffix(product.ImageURL, ".png"))
	assert.True(t, strings.HasPrefix(product.FilePath, "files/"))

	data, err := disk.Get(ctx, product.FilePath)
	require.NoError(t, err)
	assert.Equal(t, "bytes of book.pdf", string(data))

	found, err := svc.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.FilePath, found.FilePath)
}

func TestCreateProductValidation(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewProductService(repositories.NewProductRepository(db), newTestDisk(t))

	gif := fileHeaders(t, map[string]string{"image": "anim.gif"})
	_, err := svc.Create(ctx, dto.CreateProductInput{Name: "x", Description: "x", Price: "1", Category: "c", Image: gif["image"]}, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	png := fileHeaders(t, map[string]string{"image": "a.png"})
	_, err = svc.Create(ctx, dto.CreateProductInput{Name: "x", Description: "x", Price: "-1", Category: "c", Image: png["image"]}, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.Create(ctx, dto.CreateProductInput{Name: "x", Description: "x", Price: "abc", Category: "c", Image: png["image"]}, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSearchAndFind(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	disk := newTestDisk(t)
	svc := NewProductService(repositories.NewProductRepository(db), disk)
	createProduct(t, db, disk, "Lo-fi Sample Kit", "4.99", "")

	_, err := svc.Search(ctx, "   ")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	results, err := svc.Search(ctx, "SAMPLE")
	require.NoError(t, err)
	assert.Len(t, results, 1)

	_, err = svc.FindByID(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}
