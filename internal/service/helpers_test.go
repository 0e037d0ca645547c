package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"quickmoney-backend/internal/client"
	"quickmoney-backend/internal/model"
	"quickmoney-backend/internal/registry"
)

var testDBSeq atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A plain ":memory:" DSN gives every pooled connection its own empty
	// database; shared cache keeps one database visible across connections.
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Card{},
		&model.Purchase{},
		&model.Withdrawal{},
		&model.Earning{},
	))

	return db
}

func testRegistry() *registry.Registry {
	return registry.New([]*model.Card{
		{Title: "Starter Card", Price: 100},
		{Title: "Silver Card", Price: 200},
		{Title: "Gold Card", Price: 300},
		{Title: "Premium Card", Price: 400},
		{Title: "Platinum Card", Price: 500},
	})
}

// stubVision replaces the real classifier in service tests so no network
// dependency exists in the decision-procedure suite.
type stubVision struct {
	result *client.ExtractionResult
	err    error
	calls  int
}

func (s *stubVision) ExtractPayment(ctx context.Context, screenshotURL string) (*client.ExtractionResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func createUser(t *testing.T, db *gorm.DB, user *model.User) *model.User {
	t.Helper()
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func loadUser(t *testing.T, db *gorm.DB, id string) *model.User {
	t.Helper()
	var user model.User
	require.NoError(t, db.Where("id = ?", id).First(&user).Error)
	return &user
}

func loadPurchase(t *testing.T, db *gorm.DB, id string) *model.Purchase {
	t.Helper()
	var purchase model.Purchase
	require.NoError(t, db.Where("id = ?", id).First(&purchase).Error)
	return &purchase
}
