package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startupwebapp/storefront-backend/pkg/db/models"
	apperrors "github.com/startupwebapp/storefront-backend/pkg/errors"
)

type stubRepo struct {
	products []models.Product
	detail   *models.Product
	err      error
}

func (s *stubRepo) ListActiveProducts(ctx context.Context) ([]models.Product, error) {
	return s.products, s.err
}

func (s *stubRepo) FindProductByIdentifier(ctx context.Context, identifier string) (*models.Product, error) {
	return s.detail, s.err
}

func TestListProducts(t *testing.T) {
	repo := &stubRepo{products: []models.Product{
		{
			Identifier: "widget",
			Title:      "The Widget",
			TitleURL:   "the-widget",
			Headline:   "A fine widget",
			Images:     []models.ProductImage{{URL: "https://cdn.example.com/widget.jpg"}},
		},
	}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	summaries, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "widget", summaries[0].Identifier)
	assert.Equal(t, "https://cdn.example.com/widget.jpg", summaries[0].ImageURL)
}

func TestProductByIdentifierNotFound(t *testing.T) {
	svc, err := NewService(&stubRepo{})
	require.NoError(t, err)

	_, err = svc.ProductByIdentifier(context.Background(), "missing")
	require.Error(t, err)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code())
	assert.Equal(t, "product-not-found", appErr.Message())
}

func TestProductByIdentifierUsesCurrentPrice(t *testing.T) {
	skuID := uuid.New()
	older := models.SKUPrice{SKUID: skuID, Price: decimal.RequireFromString("19.99"), CreatedAt: time.Now().Add(-48 * time.Hour)}
	newer := models.SKUPrice{SKUID: skuID, Price: decimal.RequireFromString("24.99"), CreatedAt: time.Now().Add(-time.Hour)}

	repo := &stubRepo{detail: &models.Product{
		Identifier: "widget",
		Title:      "The Widget",
		SKUs: []models.ProductSKU{
			{
				SKUID: skuID,
				SKU: &models.SKU{
					ID:     skuID,
					Prices: []models.SKUPrice{older, newer},
				},
			},
		},
	}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	detail, err := svc.ProductByIdentifier(context.Background(), "widget")
	require.NoError(t, err)
	require.Len(t, detail.SKUs, 1)
	assert.True(t, detail.SKUs[0].Price.Equal(decimal.RequireFromString("24.99")))
}
