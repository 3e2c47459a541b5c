package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dkotenko/storefront/internal/events"
	"github.com/dkotenko/storefront/internal/hash"
	"github.com/dkotenko/storefront/internal/models"
	"github.com/dkotenko/storefront/internal/repo"
	"github.com/dkotenko/storefront/internal/transport"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// one connection, otherwise every pooled conn gets its own :memory: db
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.CartItem{}, &models.RefreshToken{}))

	return &repo.GormRepo{DB: db}
}

func newAuthService(r *repo.GormRepo) *AuthService {
	return &AuthService{
		Repo:          r,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
}

func newCatalogService(r *repo.GormRepo) *CatalogService {
	return &CatalogService{Repo: r, Producer: events.Nop{}}
}

func newCartService(r *repo.GormRepo) *CartService {
	return &CartService{Repo: r, Producer: events.Nop{}}
}

func createTestUser(t *testing.T, r *repo.GormRepo, username string) *models.User {
	t.Helper()

	pwHash, err := hash.HashPassword("secret")
	require.NoError(t, err)

	user := models.User{Username: username, PasswordHash: pwHash, Role: "user"}
	require.NoError(t, r.DB.Create(&user).Error)
	return &user
}

func createTestProduct(t *testing.T, svc *CatalogService, name string, price float64) *models.Product {
	t.Helper()

	prod, err := svc.CreateProduct(context.Background(), transport.CreateProductRequest{
		Name:  name,
		Price: &price,
	})
	require.NoError(t, err)
	return prod
}

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }
