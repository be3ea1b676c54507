package migrations

import (
	"fmt"

	"gin-bytemarket/constants"
	"gin-bytemarket/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	SeedSellerEmail    = "seller@bytemarket.local"
	SeedSellerPassword = "changeme123"
)

var seedProducts = []struct {
	name, description, price, category, image string
}{
	{"Pixel Icon Pack", "200 hand-drawn 32x32 icons in PNG and SVG.", "9.99", "graphics", "images/icon-pack.png"},
	{"Lo-fi Sample Kit", "48 royalty free drum loops and one-shots.", "4.99", "audio", "images/lofi-kit.png"},
	{"Go Patterns eBook", "Concurrency patterns for backend engineers.", "14.50", "ebooks", "images/go-patterns.png"},
	{"Notion Budget Template", "Monthly budget planner with dashboards.", "3.00", "templates", "images/budget.png"},
}

// Seed デモ用の出品者と商品を作成する
// ユーザーが1人でも存在する場合は何もしない
func Seed(db *gorm.DB) (int, error) {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(SeedSellerPassword), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	created := 0
	err = db.Transaction(func(tx *gorm.DB) error {
		seller := models.User{
			Username: "demo-seller",
			Email:    SeedSellerEmail,
			Password: string(hashed),
			Role:     constants.RoleSeller,
		}
		if err := tx.Create(&seller).Error; err != nil {
			return fmt.Errorf("seed seller: %w", err)
		}

		for _, p := range seedProducts {
			product := models.Product{
				Name:        p.name,
				Description: p.description,
				Price:       decimal.RequireFromString(p.price),
				Category:    p.category,
				ImageURL:    p.image,
				UserID:      seller.ID,
			}
			if err := tx.Create(&product).Error; err != nil {
				return fmt.Errorf("seed product %q: %w", p.name, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
