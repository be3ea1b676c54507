package repositories

import (
	"context"
	"errors"
	"time"

	"gin-bytemarket/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrQuantityLimit 追加後の数量がmodels.MaxCartQuantityを超える場合のエラー
var ErrQuantityLimit = errors.New("cart quantity limit exceeded")

type ICartRepository interface {
	AddOrIncrement(ctx context.Context, userID, productID uint, quantity int) (*models.CartItem, error)
	FindLines(ctx context.Context, userID uint) ([]models.CartLine, error)
	FindOwned(ctx context.Context, itemID, userID uint) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, itemID, userID uint, quantity int) (*models.CartItem, error)
	Delete(ctx context.Context, itemID, userID uint) error
	Clear(ctx context.Context, userID uint) ([]models.CartLine, error)
}

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) ICartRepository {
	return &CartRepository{db: db}
}

// AddOrIncrement (user, product)の行を追加、既存の場合は数量を加算する
// 1つのSQL文で実行するため、同時に追加されても更新が失われない
// 合計がmodels.MaxCartQuantityを超える場合は更新せずErrQuantityLimitを返す
func (r *CartRepository) AddOrIncrement(ctx context.Context, userID, productID uint, quantity int) (*models.CartItem, error) {
	if quantity > models.MaxCartQuantity {
		return nil, ErrQuantityLimit
	}
	db := r.db.WithContext(ctx)
	item := models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}

	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + ?", quantity),
			"updated_at": time.Now(),
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "cart_items.quantity <= ?", Vars: []interface{}{models.MaxCartQuantity - quantity}},
		}},
	}).Create(&item)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrQuantityLimit
	}

	var stored models.CartItem
	if err := db.First(&stored, "user_id = ? AND product_id = ?", userID, productID).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// FindLines カートの商品を商品情報と結合して取得（追加された順）
// 削除された商品はスキップする
func (r *CartRepository) FindLines(ctx context.Context, userID uint) ([]models.CartLine, error) {
	return findLines(r.db.WithContext(ctx), userID)
}

func findLines(db *gorm.DB, userID uint) ([]models.CartLine, error) {
	lines := []models.CartLine{}
	result := db.Table("cart_items").
		Select("cart_items.id, cart_items.product_id, products.name, products.price, cart_items.quantity, products.image_url, products.file_path").
		Joins("JOIN products ON products.id = cart_items.product_id AND products.deleted_at IS NULL").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.id ASC").
		Scan(&lines)
	if result.Error != nil {
		return nil, result.Error
	}
	return lines, nil
}

func (r *CartRepository) FindOwned(ctx context.Context, itemID, userID uint) (*models.CartItem, error) {
	var item models.CartItem
	result := r.db.WithContext(ctx).First(&item, "id = ? AND user_id = ?", itemID, userID)
	if result.Error != nil {
		return nil, result.Error
	}
	return &item, nil
}

// UpdateQuantity 他のユーザーのアイテムの場合はgorm.ErrRecordNotFoundを返す
func (r *CartRepository) UpdateQuantity(ctx context.Context, itemID, userID uint, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "id = ? AND user_id = ?", itemID, userID).Error; err != nil {
			return err
		}
		if err := tx.Model(&item).Where("user_id = ?", userID).Update("quantity", quantity).Error; err != nil {
			return err
		}
		item.Quantity = quantity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *CartRepository) Delete(ctx context.Context, itemID, userID uint) error {
	result := r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ? AND user_id = ?", itemID, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Clear カートを空にし、削除前の内容を返す
func (r *CartRepository) Clear(ctx context.Context, userID uint) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		lines, err = findLines(tx, userID)
		if err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}
