package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startupwebapp/storefront-backend/internal/catalog"
	"github.com/startupwebapp/storefront-backend/internal/events"
	"github.com/startupwebapp/storefront-backend/pkg/config"
)

type stubCatalog struct {
	products []catalog.ProductSummary
}

func (s *stubCatalog) ListProducts(context.Context) ([]catalog.ProductSummary, error) {
	return s.products, nil
}

func (s *stubCatalog) ProductByIdentifier(context.Context, string) (*catalog.ProductDetail, error) {
	return nil, nil
}

type stubEvents struct {
	recorded []events.RecordInput
}

func (s *stubEvents) Record(_ context.Context, input events.RecordInput) {
	s.recorded = append(s.recorded, input)
}

func testRouter(t *testing.T, deps Deps) http.Handler {
	t.Helper()
	if deps.Config == nil {
		deps.Config = &config.Config{
			JWT: config.JWTConfig{Secret: "test-secret", Issuer: "storefront-test", ExpirationMinutes: 60},
			Cookie: config.CookieConfig{
				AnonymousCartName:   "an_ct",
				AnonymousCartSecret: "cookie-secret",
			},
		}
	}
	return NewRouter(deps)
}

func TestRouterServesHealthLive(t *testing.T) {
	router := testRouter(t, Deps{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "live", body["status"])
	assert.Equal(t, "0.0.1", body["order-api-version"])
}

func TestRouterServesProductList(t *testing.T) {
	router := testRouter(t, Deps{
		Catalog: &stubCatalog{products: []catalog.ProductSummary{{Identifier: "heavyweight-tee", Title: "Heavyweight Tee"}}},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/order/products", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "heavyweight-tee")
}

func TestRouterRecordsClientEvents(t *testing.T) {
	recorder := &stubEvents{}
	router := testRouter(t, Deps{Events: recorder})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/event/page-view", strings.NewReader(`{"url":"/order/products"}`))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"page_view":"success"`)
	require.Len(t, recorder.recorded, 1)
	assert.Equal(t, "/order/products", recorder.recorded[0].URL)
}

func TestRouterRequiresMemberForLogout(t *testing.T) {
	router := testRouter(t, Deps{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/user/logout", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
