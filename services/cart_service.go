package services

import (
	"context"
	"errors"

	"gin-bytemarket/logger"
	"gin-bytemarket/metrics"
	"gin-bytemarket/models"
	"gin-bytemarket/repositories"

	"gorm.io/gorm"
)

type ICartService interface {
	AddItem(ctx context.Context, userID uint, productID uint, quantity int) (*models.CartItem, error)
	ListItems(ctx context.Context, userID uint) ([]models.CartLine, error)
	UpdateQuantity(ctx context.Context, userID uint, itemID uint, quantity int) (*models.CartItem, error)
	RemoveItem(ctx context.Context, userID uint, itemID uint) error
	Clear(ctx context.Context, userID uint) ([]models.CartLine, error)
}

type CartService struct {
	repository        repositories.ICartRepository
	productRepository repositories.IProductRepository
}

func NewCartService(repository repositories.ICartRepository, productRepository repositories.IProductRepository) ICartService {
	return &CartService{repository: repository, productRepository: productRepository}
}

func (s *CartService) AddItem(ctx context.Context, userID uint, productID uint, quantity int) (item *models.CartItem, err error) {
	defer func() { metrics.CartOperations.WithLabelValues("add", metrics.Result(err)).Inc() }()

	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}
	if _, err := s.productRepository.FindByID(ctx, productID); err != nil {
		return nil, notFound(err)
	}

	item, err = s.repository.AddOrIncrement(ctx, userID, productID, quantity)
	if errors.Is(err, repositories.ErrQuantityLimit) {
		return nil, invalidArgument("quantity cannot exceed %d", models.MaxCartQuantity)
	}
	if err != nil {
		return nil, err
	}
	logger.FromCtx(ctx).Info("cart item added",
		"user_id", userID, "product_id", productID, "quantity", item.Quantity)
	return item, nil
}

func (s *CartService) ListItems(ctx context.Context, userID uint) ([]models.CartLine, error) {
	return s.repository.FindLines(ctx, userID)
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID uint, itemID uint, quantity int) (item *models.CartItem, err error) {
	defer func() { metrics.CartOperations.WithLabelValues("update", metrics.Result(err)).Inc() }()

	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}
	item, err = s.repository.UpdateQuantity(ctx, itemID, userID, quantity)
	if err != nil {
		return nil, notFound(err)
	}
	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID uint, itemID uint) (err error) {
	defer func() { metrics.CartOperations.WithLabelValues("remove", metrics.Result(err)).Inc() }()

	if err := s.repository.Delete(ctx, itemID, userID); err != nil {
		return notFound(err)
	}
	return nil
}

func (s *CartService) Clear(ctx context.Context, userID uint) (lines []models.CartLine, err error) {
	defer func() { metrics.CartOperations.WithLabelValues("clear", metrics.Result(err)).Inc() }()
	return s.repository.Clear(ctx, userID)
}

func validateQuantity(quantity int) error {
	if quantity < 1 {
		return invalidArgument("quantity must be at least 1")
	}
	if quantity > models.MaxCartQuantity {
		return invalidArgument("quantity cannot exceed %d", models.MaxCartQuantity)
	}
	return nil
}

// notFound maps gorm.ErrRecordNotFound to ErrNotFound and passes anything else through.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
