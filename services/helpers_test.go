package services

import (
	"context"
	"strings"
	"testing"

	"gin-bytemarket/events"
	"gin-bytemarket/infra"
	"gin-bytemarket/mailer"
	"gin-bytemarket/migrations"
	"gin-bytemarket/models"
	"gin-bytemarket/payment"
	"gin-bytemarket/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type providerMock struct{ mock.Mock }

func (m *providerMock) CreateSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error) {
	args := m.Called(ctx, req)
	session, _ := args.Get(0).(*payment.Session)
	return session, args.Error(1)
}

func (m *providerMock) SessionPaid(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

func (m *providerMock) PublicKey() string { return "pk_test_123" }

type senderMock struct{ mock.Mock }

func (m *senderMock) Send(ctx context.Context, msg mailer.Message) error {
	return m.Called(ctx, msg).Error(0)
}

type publisherMock struct{ mock.Mock }

func (m *publisherMock) Publish(ctx context.Context, key string, event any) error {
	return m.Called(ctx, key, event).Error(0)
}

func (m *publisherMock) Close() error { return nil }

var (
	_ payment.Provider = (*providerMock)(nil)
	_ mailer.Sender    = (*senderMock)(nil)
	_ events.Publisher = (*publisherMock)(nil)
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := infra.NewMemoryDB()
	require.NoError(t, err)
	require.NoError(t, migrations.Migrate(db))
	return db
}

func newTestDisk(t *testing.T) *storage.LocalDisk {
	t.Helper()
	return storage.NewLocalDisk(t.TempDir(), "/storage")
}

// createProduct stores a product and, when filePath is set, its digital file.
func createProduct(t *testing.T, db *gorm.DB, disk storage.Disk, name, price, filePath string) models.Product {
	t.Helper()
	if filePath != "" {
		require.NoError(t, disk.Put(context.Background(), filePath, strings.NewReader("content of "+name)))
	}
	p := models.Product{
		Name:        name,
		Description: name,
		Price:       decimal.RequireFromString(price),
		Category:    "ebooks",
		FilePath:    filePath,
		UserID:      1,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func createUser(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: email, Password: "x", Role: "buyer"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func countCartRows(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}
