package services

import (
	"context"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"gin-bytemarket/dto"
	"gin-bytemarket/logger"
	"gin-bytemarket/models"
	"gin-bytemarket/repositories"
	"gin-bytemarket/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var allowedImageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

type IProductService interface {
	FindAll(ctx context.Context, category string) ([]models.Product, error)
	FindByID(ctx context.Context, productID uint) (*models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
	Create(ctx context.Context, input dto.CreateProductInput, userID uint) (*models.Product, error)
}

type ProductService struct {
	repository repositories.IProductRepository
	disk       storage.Disk
}

func NewProductService(repository repositories.IProductRepository, disk storage.Disk) IProductService {
	return &ProductService{repository: repository, disk: disk}
}

func (s *ProductService) FindAll(ctx context.Context, category string) ([]models.Product, error) {
	return s.repository.FindAll(ctx, strings.TrimSpace(category))
}

func (s *ProductService) FindByID(ctx context.Context, productID uint) (*models.Product, error) {
	product, err := s.repository.FindByID(ctx, productID)
	if err != nil {
		return nil, notFound(err)
	}
	return product, nil
}

func (s *ProductService) Search(ctx context.Context, query string) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalidArgument("search query must not be empty")
	}
	return s.repository.Search(ctx, query)
}

func (s *ProductService) Create(ctx context.Context, input dto.CreateProductInput, userID uint) (*models.Product, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(input.Price))
	if err != nil || price.IsNegative() {
		return nil, invalidArgument("price must be a non-negative number")
	}
	if input.Image == nil {
		return nil, invalidArgument("image is required")
	}
	imageExt := strings.ToLower(filepath.Ext(input.Image.Filename))
	if !allowedImageExts[imageExt] {
		return nil, invalidArgument("image must be a jpg, jpeg or png file")
	}

	imageKey, err := s.upload(ctx, "images", imageExt, input.Image)
	if err != nil {
		return nil, err
	}
	uploaded := []string{imageKey}

	var fileKey string
	if input.File != nil {
		fileKey, err = s.upload(ctx, "files", strings.ToLower(filepath.Ext(input.File.Filename)), input.File)
		if err != nil {
			s.cleanup(ctx, uploaded)
			return nil, err
		}
		uploaded = append(uploaded, fileKey)
	}

	product := models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       price.Round(2),
		ImageURL:    s.disk.URL(imageKey),
		Category:    strings.TrimSpace(input.Category),
		FilePath:    fileKey,
		UserID:      userID,
	}
	if err := s.repository.Create(ctx, &product); err != nil {
		s.cleanup(ctx, uploaded)
		return nil, err
	}

	logger.FromCtx(ctx).Info("product created", "product_id", product.ID, "user_id", userID)
	return &product, nil
}

func (s *ProductService) upload(ctx context.Context, dir, ext string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := path.Join(dir, uuid.NewString()+ext)
	if err := s.disk.Put(ctx, key, f); err != nil {
		return "", err
	}
	return key, nil
}

func (s *ProductService) cleanup(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.disk.Delete(ctx, key); err != nil {
			logger.FromCtx(ctx).Warn("failed to delete orphaned upload", "key", key, "error", err)
		}
	}
}
