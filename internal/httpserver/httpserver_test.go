package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shopfront/internal/db"
	"github.com/Skotchmaster/shopfront/internal/logging"
	"github.com/Skotchmaster/shopfront/internal/metrics"
	"github.com/Skotchmaster/shopfront/internal/repo"
	"github.com/Skotchmaster/shopfront/internal/service"
	"github.com/Skotchmaster/shopfront/internal/tokens"
	"github.com/Skotchmaster/shopfront/internal/transport"
)

var testSecret = []byte("test-jwt-secret")

type testEnv struct {
	E      *echo.Echo
	Issuer *tokens.Issuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx := context.Background()
	gdb, err := db.Open(ctx, "sqlite://:memory:")
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(ctx, gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := repo.NewGormRepo(gdb)
	issuer := tokens.NewIssuer(testSecret, time.Minute)
	m := metrics.NewHTTPMetrics("shopfront_test")

	e := NewEcho(logging.NewWithWriter(io.Discard, "error"), m)
	Register(e, &Deps{
		CatalogHandler: &CatalogHTTP{Svc: &service.CatalogService{Repo: r}},
		AuthHandler:    &AuthHTTP{Svc: &service.AuthService{Repo: r, Issuer: issuer}},
		HealthHandler:  &HealthHTTP{DB: gdb},
		Guard:          tokens.NewGuard(testSecret),
		Metrics:        m,
	})

	return &testEnv{E: e, Issuer: issuer}
}

func (env *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rdr = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			rdr = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (env *testEnv) signupAndLogin(t *testing.T, username string) string {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/signup", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "Secret123",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/login", map[string]string{
		"username": username,
		"password": "Secret123",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	return decode[transport.LoginResponse](t, rec).AccessToken
}

func price(v float64) *float64 { return &v }

func TestSignupLoginProtected(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/signup", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "Secret123",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	signup := decode[transport.SignupResponse](t, rec)
	assert.Equal(t, "Signup successful", signup.Message)
	assert.NotZero(t, signup.User.ID)
	assert.Equal(t, "alice", signup.User.Username)
	assert.Equal(t, "alice@example.com", signup.User.Email)
	assert.NotContains(t, rec.Body.String(), "Secret123")
	assert.NotContains(t, rec.Body.String(), "password")

	rec = env.do(t, http.MethodPost, "/login", map[string]string{"username": "alice", "password": "Secret123"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[transport.LoginResponse](t, rec)
	assert.Equal(t, "Login successful", login.Message)
	require.NotEmpty(t, login.AccessToken)

	rec = env.do(t, http.MethodGet, "/protected", nil, login.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", decode[transport.ProtectedResponse](t, rec).LoggedInAs)
}

func TestProtected_RejectsMissingOrBadToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/protected", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, decode[transport.ErrorResponse](t, rec).Error)

	rec = env.do(t, http.MethodGet, "/protected", nil, "not-a-jwt")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	other, _, err := tokens.NewIssuer([]byte("another-secret"), time.Minute).IssueToken(1)
	require.NoError(t, err)
	rec = env.do(t, http.MethodGet, "/protected", nil, other)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtected_UnknownUser(t *testing.T) {
	env := newTestEnv(t)

	token, _, err := env.Issuer.IssueToken(999)
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/protected", nil, token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "user not found", decode[transport.ErrorResponse](t, rec).Error)
}

func TestSignup_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.signupAndLogin(t, "bob")

	tests := []struct {
		name string
		body any
		msg  string
	}{
		{"duplicate username", map[string]string{"username": "bob", "email": "other@example.com", "password": "x"}, "username already exists"},
		{"duplicate email", map[string]string{"username": "bobby", "email": "bob@example.com", "password": "x"}, "email already exists"},
		{"missing password", map[string]string{"username": "carol", "email": "carol@example.com"}, "password is required"},
		{"long email", map[string]string{"username": "carol", "email": strings.Repeat("e", 121), "password": "x"}, "email must be at most 120 characters"},
		{"password over 72 bytes", map[string]string{"username": "carol", "email": "carol@example.com", "password": strings.Repeat("ж", 40)}, "password must be at most 72 bytes"},
		{"malformed json", `{"username":`, "invalid body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/signup", tt.body, "")
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.msg, decode[transport.ErrorResponse](t, rec).Error)
		})
	}
}

func TestSignup_AcceptsFreeFormEmail(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/signup", map[string]string{
		"username": "heidi",
		"email":    "heidi at home",
		"password": "Secret123",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "heidi at home", decode[transport.SignupResponse](t, rec).User.Email)
}

func TestLogin_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.signupAndLogin(t, "dave")

	rec := env.do(t, http.MethodPost, "/login", map[string]string{"username": "dave", "password": "wrong"}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	wrongPassword := decode[transport.ErrorResponse](t, rec).Error

	rec = env.do(t, http.MethodPost, "/login", map[string]string{"username": "nobody", "password": "wrong"}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, wrongPassword, decode[transport.ErrorResponse](t, rec).Error)

	rec = env.do(t, http.MethodPost, "/login", map[string]string{"username": "dave"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "password is required", decode[transport.ErrorResponse](t, rec).Error)
}

func TestProducts_CreateRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	body := transport.CreateProductRequest{Name: "Laptop", Description: "14 inch", Price: price(1200)}

	rec := env.do(t, http.MethodPost, "/products", body, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	token := env.signupAndLogin(t, "erin")
	rec = env.do(t, http.MethodPost, "/products", body, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[transport.CreateProductResponse](t, rec)
	assert.Equal(t, "Product added successfully", created.Message)
	require.NotZero(t, created.Product.ID)

	rec = env.do(t, http.MethodGet, "/products/"+jsonNumber(created.Product.ID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string]any](t, rec)
	assert.Equal(t, "Laptop", got["name"])
	assert.Equal(t, "14 inch", got["description"])
	assert.EqualValues(t, 1200, got["price"])
}

func TestCreateProduct_Validation(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndLogin(t, "frank")

	tests := []struct {
		name string
		body any
		msg  string
	}{
		{"missing name", map[string]any{"price": 10}, "name is required"},
		{"missing price", map[string]any{"name": "Mouse"}, "price is required"},
		{"negative price", map[string]any{"name": "Mouse", "price": -1}, "price must be greater than or equal to 0"},
		{"price not a number", `{"name":"Mouse","price":"ten"}`, "invalid body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/products", tt.body, token)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.msg, decode[transport.ErrorResponse](t, rec).Error)
		})
	}

	rec := env.do(t, http.MethodPost, "/products", map[string]any{"name": "Freebie", "price": 0}, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "", decode[transport.CreateProductResponse](t, rec).Product.Description)
}

func TestGetProduct_Errors(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/products/abc", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/products/18446744073709551615", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/products/9223372036854775807", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/products/42", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", decode[transport.ErrorResponse](t, rec).Error)
}

func TestListAndSearch_Pagination(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndLogin(t, "grace")

	for _, name := range []string{"Laptop", "Phone", "laptop bag", "Desk"} {
		rec := env.do(t, http.MethodPost, "/products", map[string]any{"name": name, "price": 1}, token)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/products?page=2&per_page=3", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[transport.ProductPageResponse](t, rec)
	assert.EqualValues(t, 4, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.PerPage)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Desk", page.Results[0].Name)

	rec = env.do(t, http.MethodGet, "/search?q=LAPTOP", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode[transport.ProductPageResponse](t, rec)
	assert.EqualValues(t, 2, page.Total)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "Laptop", page.Results[0].Name)
	assert.Equal(t, "laptop bag", page.Results[1].Name)

	rec = env.do(t, http.MethodGet, "/search?q=laptop&page=5&per_page=abc", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode[transport.ProductPageResponse](t, rec)
	assert.EqualValues(t, 2, page.Total)
	assert.Equal(t, 10, page.PerPage)
	assert.Equal(t, 1, page.TotalPages)
	assert.NotNil(t, page.Results)
	assert.Empty(t, page.Results)
	assert.Contains(t, rec.Body.String(), `"results":[]`)

	rec = env.do(t, http.MethodGet, "/products?page=4611686018427387904&per_page=4", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode[transport.ProductPageResponse](t, rec)
	assert.EqualValues(t, 4, page.Total)
	assert.Empty(t, page.Results)

	rec = env.do(t, http.MethodGet, "/search?q=tablet", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode[transport.ProductPageResponse](t, rec)
	assert.EqualValues(t, 0, page.Total)
	assert.Equal(t, 0, page.TotalPages)
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health/live", nil, "").Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health/ready", nil, "").Code)

	env.do(t, http.MethodGet, "/products", nil, "")
	rec := env.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `shopfront_test_http_requests_total{method="GET",route="/products",status="200"} 1`)
}

func TestUnknownRoute_RendersErrorBody(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/nope", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, decode[transport.ErrorResponse](t, rec).Error)
}

func jsonNumber(id uint) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
