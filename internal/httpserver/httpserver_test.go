package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bookstore-backend/internal/config"
	"bookstore-backend/internal/models"
	"bookstore-backend/internal/repo"
	"bookstore-backend/internal/service/cart"
	"bookstore-backend/internal/service/catalog"
	"bookstore-backend/internal/service/order"
	"bookstore-backend/internal/service/rating"
)

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB

	Cart  *CartHTTP
	Book  *BookHTTP
	Order *OrderHTTP
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	r := repo.New(db)

	return &testEnv{
		T:     t,
		E:     echo.New(),
		DB:    db,
		Cart:  &CartHTTP{Svc: &cart.Service{Repo: r}},
		Book:  &BookHTTP{Catalog: &catalog.Service{Repo: r}, Rating: &rating.Service{Repo: r}},
		Order: &OrderHTTP{Svc: &order.Service{Repo: r}},
	}
}

// doJSONRequest builds an echo context for a handler call with the identity
// already resolved, the way the auth middleware leaves it.
func (env *testEnv) doJSONRequest(method, path string, body any, userID uint, role string) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	c.Set("userID", userID)
	c.Set("role", role)
	return rec, c
}

func (env *testEnv) seedUser(email string) uint {
	user := models.User{Email: email, Name: "Reader", Role: "user"}
	require.NoError(env.T, env.DB.Create(&user).Error)
	return user.ID
}

func (env *testEnv) seedAddress(userID uint) uint {
	addr := models.Address{UserID: userID, Street: "1 Main St", City: "Springfield"}
	require.NoError(env.T, env.DB.Create(&addr).Error)
	return addr.ID
}

func (env *testEnv) seedBook(title, price string, stock int) uint {
	book := models.Book{
		Title:         title,
		Author:        "Author",
		ISBN:          title + "-isbn",
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		Approved:      true,
	}
	require.NoError(env.T, env.DB.Create(&book).Error)
	return book.ID
}

func httpErrorCode(t *testing.T, err error) int {
	t.Helper()
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	return httpErr.Code
}
