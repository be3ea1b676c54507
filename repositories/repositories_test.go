package repositories

import (
	"context"
	"sync"
	"testing"

	"gin-bytemarket/infra"
	"gin-bytemarket/migrations"
	"gin-bytemarket/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := infra.NewMemoryDB()
	require.NoError(t, err)
	require.NoError(t, migrations.Migrate(db))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string) models.Product {
	t.Helper()
	p := models.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Category:    "ebooks",
		FilePath:    "files/" + name + ".pdf",
		UserID:      99,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestAddOrIncrementMergesSameProduct(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCartRepository(db)
	p := seedProduct(t, db, "guide", "9.99")

	first, err := repo.AddOrIncrement(ctx, 1, p.ID, 1)
	require.NoError(t, err)
	second, err := repo.AddOrIncrement(ctx, 1, p.ID, 2)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.Quantity)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAddOrIncrementStopsAtLimit(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCartRepository(db)
	p := seedProduct(t, db, "guide", "9.99")

	_, err := repo.AddOrIncrement(ctx, 1, p.ID, models.MaxCartQuantity-1)
	require.NoError(t, err)
	item, err := repo.AddOrIncrement(ctx, 1, p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.MaxCartQuantity, item.Quantity)

	_, err = repo.AddOrIncrement(ctx, 1, p.ID, 1)
	assert.ErrorIs(t, err, ErrQuantityLimit)

	lines, err := repo.FindLines(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, models.MaxCartQuantity, lines[0].Quantity)
}

func TestAddOrIncrementConcurrent(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCartRepository(db)
	p := seedProduct(t, db, "guide", "9.99")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AddOrIncrement(ctx, 1, p.ID, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	item, err := repo.AddOrIncrement(ctx, 1, p.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, item.Quantity)
}

func TestFindLinesJoinsProducts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCartRepository(db)
	a := seedProduct(t, db, "a", "9.99")
	b := seedProduct(t, db, "b", "4.99")

	_, err := repo.AddOrIncrement(ctx, 1, a.ID, 2)
	require.NoError(t, err)
	_, err = repo.AddOrIncrement(ctx, 1, b.ID, 1)
	require.NoError(t, err)
	_, err = repo.AddOrIncrement(ctx, 2, b.ID, 5)
	require.NoError(t, err)

	lines, err := repo.FindLines(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "a", lines[0].Name)
	assert.Equal(t, "files/a.pdf", lines[0].FilePath)
	assert.True(t, decimal.RequireFromString("24.97").Equal(models.CartTotal(lines)))

	empty, err := repo.FindLines(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCartOwnershipIsEnforced(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCartRepository(db)
	p := seedProduct(t, db, "guide", "9.99")

	item, err := repo.AddOrIncrement(ctx, 1, p.ID, 1)
	require.NoError(t, err)

	_, err = repo.UpdateQuantity(ctx, item.ID, 2, 5)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, item.ID, 2), gorm.ErrRecordNotFound)

	updated, err := repo.UpdateQuantity(ctx, item.ID, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	// setting the same quantity again still succeeds
	_, err = repo.UpdateQuantity(ctx, item.ID, 1, 4)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, item.ID, 1))
	_, err = repo.FindOwned(ctx, item.ID, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestClearReturnsRemovedLines(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCartRepository(db)
	p := seedProduct(t, db, "guide", "9.99")

	_, err := repo.AddOrIncrement(ctx, 1, p.ID, 2)
	require.NoError(t, err)
	_, err = repo.AddOrIncrement(ctx, 2, p.ID, 1)
	require.NoError(t, err)

	lines, err := repo.Clear(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)

	remaining, err := repo.FindLines(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	other, err := repo.FindLines(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestProductSearchAndCategory(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewProductRepository(db)
	seedProduct(t, db, "Go Patterns", "14.50")
	seedProduct(t, db, "Rust Notes", "3.00")

	found, err := repo.Search(ctx, "go pat")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Go Patterns", found[0].Name)

	byCategory, err := repo.FindAll(ctx, "ebooks")
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	none, err := repo.FindAll(ctx, "audio")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = repo.FindByID(ctx, 12345)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductSearchIsLiteral(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewProductRepository(db)
	seedProduct(t, db, "100% Go", "14.50")
	seedProduct(t, db, "Rust_Notes", "3.00")
	seedProduct(t, db, "Wow! Zig", "5.00")
	seedProduct(t, db, "Plain", "1.00")

	for query, want := range map[string]string{"%": "100% Go", "_": "Rust_Notes", "!": "Wow! Zig"} {
		found, err := repo.Search(ctx, query)
		require.NoError(t, err)
		require.Len(t, found, 1, query)
		assert.Equal(t, want, found[0].Name)
	}
}

func TestAuthRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAuthRepository(newTestDB(t))

	user := &models.User{Username: "alice", Email: "alice@example.com", Password: "hash", Role: "buyer"}
	require.NoError(t, repo.CreateUser(ctx, user))
	assert.NotZero(t, user.ID)

	dup := &models.User{Username: "alice2", Email: "alice@example.com", Password: "hash", Role: "buyer"}
	assert.ErrorIs(t, repo.CreateUser(ctx, dup), gorm.ErrDuplicatedKey)

	found, err := repo.FindUser(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindUser(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	count, err := repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestTokenRepository(t *testing.T) {
	ctx := context.Background()
	db, err := infra.NewMemoryDB()
	require.NoError(t, err)
	require.NoError(t, migrations.MigrateTokens(db))
	repo := NewTokenRepository(db)

	require.NoError(t, repo.AddBlacklistedToken(ctx, "live", 4102444800))
	require.NoError(t, repo.AddBlacklistedToken(ctx, "live", 4102444800))
	require.NoError(t, repo.AddBlacklistedToken(ctx, "stale", 1))

	ok, err := repo.IsTokenBlacklisted(ctx, "live")
	require.NoError(t, err)
	assert.True(t, ok)

	removed, err := repo.CleanExpiredTokens(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	ok, err = repo.IsTokenBlacklisted(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, ok)
}
