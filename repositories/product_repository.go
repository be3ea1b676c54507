package repositories

import (
	"context"
	"strings"

	"gin-bytemarket/models"

	"gorm.io/gorm"
)

type IProductRepository interface {
	FindAll(ctx context.Context, category string) ([]models.Product, error)
	FindByID(ctx context.Context, productID uint) (*models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) IProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// FindAll 商品を新しい順に取得（categoryが指定された場合は絞り込む）
func (r *ProductRepository) FindAll(ctx context.Context, category string) ([]models.Product, error) {
	var products []models.Product
	q := r.db.WithContext(ctx).Order("id DESC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, productID uint) (*models.Product, error) {
	var product models.Product
	result := r.db.WithContext(ctx).First(&product, productID)
	if result.Error != nil {
		return nil, result.Error
	}
	return &product, nil
}

// likeEscaper 検索文字列の%と_をリテラルとして扱う
// バックスラッシュの解釈はドライバーごとに異なるため、エスケープ文字には'!'を使用
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Search 商品名・説明・カテゴリを大文字小文字を区別せずに部分一致検索
func (r *ProductRepository) Search(ctx context.Context, query string) ([]models.Product, error) {
	var products []models.Product
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	result := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!' OR LOWER(category) LIKE ? ESCAPE '!'",
			pattern, pattern, pattern).
		Order("id DESC").
		Find(&products)
	if result.Error != nil {
		return nil, result.Error
	}
	return products, nil
}
