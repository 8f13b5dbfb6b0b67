package catalog

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/startupwebapp/storefront-backend/pkg/db/models"
	apperrors "github.com/startupwebapp/storefront-backend/pkg/errors"
)

// ProductSummary is the listing-page view of a product.
type ProductSummary struct {
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
	TitleURL   string `json:"title_url"`
	Headline   string `json:"headline,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
}

// SKUView is one purchasable variant on a product detail page.
type SKUView struct {
	ID              string          `json:"id"`
	Type            string          `json:"type,omitempty"`
	Color           string          `json:"color,omitempty"`
	Size            string          `json:"size,omitempty"`
	Description     string          `json:"description,omitempty"`
	InventoryStatus string          `json:"inventory_status"`
	Price           decimal.Decimal `json:"price"`
	ImageURLs       []string        `json:"image_urls,omitempty"`
}

// ProductDetail is the full product page view.
type ProductDetail struct {
	Identifier       string    `json:"identifier"`
	Title            string    `json:"title"`
	TitleURL         string    `json:"title_url"`
	Headline         string    `json:"headline,omitempty"`
	DescriptionPart1 string    `json:"description_part_1,omitempty"`
	DescriptionPart2 string    `json:"description_part_2,omitempty"`
	ImageURLs        []string  `json:"image_urls,omitempty"`
	VideoURLs        []string  `json:"video_urls,omitempty"`
	SKUs             []SKUView `json:"skus"`
}

// Service exposes read-only catalog views.
type Service interface {
	ListProducts(ctx context.Context) ([]ProductSummary, error)
	ProductByIdentifier(ctx context.Context, identifier string) (*ProductDetail, error)
}

type repository interface {
	ListActiveProducts(ctx context.Context) ([]models.Product, error)
	FindProductByIdentifier(ctx context.Context, identifier string) (*models.Product, error)
}

type service struct {
	repo repository
}

// NewService wires the catalog read service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("catalog: repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context) ([]ProductSummary, error) {
	products, err := s.repo.ListActiveProducts(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to list products")
	}
	summaries := make([]ProductSummary, 0, len(products))
	for i := range products {
		summaries = append(summaries, summarize(&products[i]))
	}
	return summaries, nil
}

func (s *service) ProductByIdentifier(ctx context.Context, identifier string) (*ProductDetail, error) {
	if identifier == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "product-identifier-required")
	}
	product, err := s.repo.FindProductByIdentifier(ctx, identifier)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to load product")
	}
	if product == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "product-not-found")
	}
	return buildDetail(product), nil
}

func summarize(product *models.Product) ProductSummary {
	summary := ProductSummary{
		Identifier: product.Identifier,
		Title:      product.Title,
		TitleURL:   product.TitleURL,
		Headline:   product.Headline,
	}
	if len(product.Images) > 0 {
		summary.ImageURL = product.Images[0].URL
	}
	return summary
}

func buildDetail(product *models.Product) *ProductDetail {
	detail := &ProductDetail{
		Identifier:       product.Identifier,
		Title:            product.Title,
		TitleURL:         product.TitleURL,
		Headline:         product.Headline,
		DescriptionPart1: product.DescriptionPart1,
		DescriptionPart2: product.DescriptionPart2,
		SKUs:             make([]SKUView, 0, len(product.SKUs)),
	}
	for _, image := range product.Images {
		detail.ImageURLs = append(detail.ImageURLs, image.URL)
	}
	for _, video := range product.Videos {
		detail.VideoURLs = append(detail.VideoURLs, video.URL)
	}
	for _, link := range product.SKUs {
		if link.SKU == nil {
			continue
		}
		detail.SKUs = append(detail.SKUs, buildSKUView(link.SKU))
	}
	return detail
}

func buildSKUView(sku *models.SKU) SKUView {
	view := SKUView{
		ID:              sku.ID.String(),
		Type:            sku.Type,
		Color:           sku.Color,
		Size:            sku.Size,
		Description:     sku.Description,
		InventoryStatus: sku.InventoryStatus.String(),
		Price:           decimal.Zero,
	}
	if price := sku.CurrentPrice(); price != nil {
		view.Price = price.Price
	}
	for _, image := range sku.Images {
		view.ImageURLs = append(view.ImageURLs, image.URL)
	}
	return view
}
