package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dkotenko/storefront/internal/events"
	"github.com/dkotenko/storefront/internal/models"
	"github.com/dkotenko/storefront/internal/repo"
	"github.com/dkotenko/storefront/internal/service"
)

type testEnv struct {
	E  *echo.Echo
	DB *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// one connection, otherwise every pooled conn gets its own :memory: db
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.CartItem{}, &models.RefreshToken{}))

	gormRepo := &repo.GormRepo{DB: db}
	jwtSecret := []byte("test-jwt-secret")

	deps := &Deps{
		Auth: &AuthHTTP{Svc: &service.AuthService{
			Repo:          gormRepo,
			JWTSecret:     jwtSecret,
			RefreshSecret: []byte("test-refresh-secret"),
		}},
		Catalog: &CatalogHTTP{Svc: &service.CatalogService{
			Repo:     gormRepo,
			Producer: events.Nop{},
		}},
		Cart: &CartHTTP{Svc: &service.CartService{
			Repo:     gormRepo,
			Producer: events.Nop{},
		}},
		JWTSecret: jwtSecret,
	}

	e := echo.New()
	Register(e, deps)

	return &testEnv{E: e, DB: db}
}

func (env *testEnv) doJSON(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

// login registers the user if needed and returns the session cookies.
func (env *testEnv) login(t *testing.T, username, password string) []*http.Cookie {
	t.Helper()

	creds := map[string]string{"username": username, "password": password}

	rec := env.doJSON(t, http.MethodPost, "/register", creds)
	require.Contains(t, []int{http.StatusOK, http.StatusConflict}, rec.Code)

	rec = env.doJSON(t, http.MethodPost, "/login", creds)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func (env *testEnv) createProduct(t *testing.T, cookies []*http.Cookie, name string, price float64) models.Product {
	t.Helper()

	rec := env.doJSON(t, http.MethodPost, "/api/products/add", map[string]any{
		"name":  name,
		"price": price,
	}, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)

	var prod models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prod))
	return prod
}

func sessionCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, ck := range cookies {
		if ck.Name == name && ck.Value != "" {
			return ck
		}
	}
	return nil
}
