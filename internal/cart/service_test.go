package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/startupwebapp/storefront-backend/internal/catalog"
	"github.com/startupwebapp/storefront-backend/internal/identity"
	"github.com/startupwebapp/storefront-backend/internal/orderconfig"
	"github.com/startupwebapp/storefront-backend/pkg/db/models"
	"github.com/startupwebapp/storefront-backend/pkg/enums"
	apperrors "github.com/startupwebapp/storefront-backend/pkg/errors"
)

var cartTestSchema = []string{
	`CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  member_id TEXT,
  anonymous_cart_id TEXT,
  version INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS cart_skus (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  sku_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS cart_discounts (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  discount_code_id TEXT NOT NULL,
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS cart_shipping_methods (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  shipping_method_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS cart_payments (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  stripe_customer_token TEXT,
  card_brand TEXT,
  card_last4 TEXT,
  card_exp_month INTEGER,
  card_exp_year INTEGER,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS cart_shipping_addresses (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  name TEXT,
  line1 TEXT,
  line2 TEXT,
  city TEXT,
  state TEXT,
  postal_code TEXT,
  country TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS skus (
  id TEXT PRIMARY KEY,
  type TEXT,
  inventory_status TEXT NOT NULL DEFAULT 'available',
  color TEXT,
  size TEXT,
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS sku_prices (
  id TEXT PRIMARY KEY,
  sku_id TEXT NOT NULL,
  price TEXT NOT NULL,
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS sku_images (
  id TEXT PRIMARY KEY,
  sku_id TEXT NOT NULL,
  url TEXT NOT NULL,
  alt_text TEXT,
  display_order INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  title_url TEXT NOT NULL,
  identifier TEXT NOT NULL,
  headline TEXT,
  description_part_1 TEXT,
  description_part_2 TEXT,
  active INTEGER NOT NULL DEFAULT 1,
  display_order INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS product_skus (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  sku_id TEXT NOT NULL,
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS discount_codes (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL,
  description TEXT,
  applies_to TEXT NOT NULL,
  action TEXT NOT NULL,
  amount TEXT NOT NULL,
  order_minimum TEXT NOT NULL DEFAULT '0',
  combinable INTEGER NOT NULL DEFAULT 0,
  starts_at DATETIME NOT NULL,
  ends_at DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS shipping_methods (
  id TEXT PRIMARY KEY,
  identifier TEXT NOT NULL,
  carrier TEXT,
  display_name TEXT NOT NULL,
  cost TEXT NOT NULL,
  tracking_url_base TEXT,
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
}

var cartTestTables = []string{
	"carts", "cart_skus", "cart_discounts", "cart_shipping_methods",
	"cart_payments", "cart_shipping_addresses", "skus", "sku_prices",
	"sku_images", "products", "product_skus", "discount_codes",
	"shipping_methods",
}

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	for _, stmt := range cartTestSchema {
		require.NoError(t, gdb.Exec(stmt).Error)
	}
	for _, table := range cartTestTables {
		require.NoError(t, gdb.Exec("DELETE FROM "+table).Error)
	}
	return gdb
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type stubConfigs struct {
	snap orderconfig.Snapshot
}

func (s *stubConfigs) Snapshot(ctx context.Context) (*orderconfig.Snapshot, error) {
	snap := s.snap
	return &snap, nil
}

func newCartService(t *testing.T, gdb *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:      NewRepository(gdb),
		SKUs:      catalog.NewRepository(gdb),
		Discounts: NewDiscountCodeRepository(gdb),
		Shipping:  NewShippingMethodRepository(gdb),
		Configs:   &stubConfigs{},
		Tx:        gormTxRunner{db: gdb},
	})
	require.NoError(t, err)
	return svc
}

func seedSKU(t *testing.T, gdb *gorm.DB, price string) uuid.UUID {
	t.Helper()
	sku := models.SKU{ID: uuid.New(), InventoryStatus: enums.SKUInventoryAvailable}
	require.NoError(t, gdb.Create(&sku).Error)
	require.NoError(t, gdb.Create(&models.SKUPrice{
		ID:        uuid.New(),
		SKUID:     sku.ID,
		Price:     decimal.RequireFromString(price),
		CreatedAt: time.Now().Add(-time.Hour),
	}).Error)
	product := models.Product{
		ID:         uuid.New(),
		Title:      "Test Product",
		TitleURL:   "test-product",
		Identifier: uuid.NewString(),
		Active:     true,
	}
	require.NoError(t, gdb.Create(&product).Error)
	require.NoError(t, gdb.Create(&models.ProductSKU{
		ID:        uuid.New(),
		ProductID: product.ID,
		SKUID:     sku.ID,
	}).Error)
	return sku.ID
}

func seedShippingMethod(t *testing.T, gdb *gorm.DB, identifier, cost string) {
	t.Helper()
	require.NoError(t, gdb.Create(&models.ShippingMethod{
		ID:          uuid.New(),
		Identifier:  identifier,
		DisplayName: identifier,
		Cost:        decimal.RequireFromString(cost),
		Active:      true,
	}).Error)
}

func seedDiscountCode(t *testing.T, gdb *gorm.DB, code string, active bool) {
	t.Helper()
	starts := time.Now().Add(-time.Hour)
	ends := time.Now().Add(time.Hour)
	if !active {
		ends = time.Now().Add(-time.Minute)
	}
	require.NoError(t, gdb.Create(&models.DiscountCode{
		ID:           uuid.New(),
		Code:         code,
		AppliesTo:    enums.DiscountAppliesToItemTotal,
		Action:       enums.DiscountActionDollarAmtOff,
		Amount:       decimal.RequireFromString("5.00"),
		OrderMinimum: decimal.Zero,
		StartsAt:     starts,
		EndsAt:       ends,
	}).Error)
}

func appCode(t *testing.T, err error) *apperrors.Error {
	t.Helper()
	appErr := apperrors.As(err)
	require.NotNil(t, appErr, "expected app error, got %v", err)
	return appErr
}

func TestAddSKUCreatesAnonymousCart(t *testing.T) {
	gdb := setupCartTestDB(t)
	svc := newCartService(t, gdb)
	skuID := seedSKU(t, gdb, "29.99")

	result, err := svc.AddSKU(context.Background(), identity.Identity{}, skuID.String(), 2)
	require.NoError(t, err)
	require.NotEmpty(t, result.NewAnonymousCartID)
	assert.True(t, result.Totals.ItemSubtotal.Equal(decimal.RequireFromString("59.98")))

	cart, err := NewRepository(gdb).FindByAnonymousID(context.Background(), result.NewAnonymousCartID)
	require.NoError(t, err)
	require.NotNil(t, cart)
	require.Len(t, cart.SKUs, 1)
	assert.Equal(t, 2, cart.SKUs[0].Quantity)
}

func TestAddSKUMergesDuplicateLines(t *testing.T) {
	gdb := setupCartTestDB(t)
	svc := newCartService(t, gdb)
	skuID := seedSKU(t, gdb, "10.00")

	first, err := svc.AddSKU(context.Background(), identity.Identity{}, skuID.String(), 1)
	require.NoError(t, err)

	caller := identity.Anonymous(first.NewAnonymousCartID)
	second, err := svc.AddSKU(context.Background(), caller, skuID.String(), 3)
	require.NoError(t, err)
	assert.Empty(t, second.NewAnonymousCartID)

	cart, err := NewRepository(gdb).FindByAnonymousID(context.Background(), first.NewAnonymousCartID)
	require.NoError(t, err)
	require.Len(t, cart.SKUs, 1)
	assert.Equal(t, 4, cart.SKUs[0].Quantity)
}

func TestAddSKUUnknownSKU(t *testing.T) {
	gdb := setupCartTestDB(t)
	svc := newCartService(t, gdb)

	_, err := svc.AddSKU(context.Background(), identity.Identity{}, uuid.NewString(), 1)
	assert.Equal(t, "sku-not-found", appCode(t, err).Message())

	_, err = svc.AddSKU(context.Background(), identity.Identity{}, "", 1)
	assert.Equal(t, "sku-id-required", appCode(t, err).Message())
}

func TestUpdateQuantityMissingLine(t *testing.T) {
	gdb := setupCartTestDB(t)
	svc := newCartService(t, gdb)
	skuID := seedSKU(t, gdb, "10.00")
	otherSKU := seedSKU(t, gdb, "15.00")

	result, err := svc.AddSKU(context.Background(), identity.Identity{}, skuID.String(), 1)
	require.NoError(t, err)
	caller := identity.Anonymous(result.NewAnonymousCartID)

	_, err = svc.UpdateQuantity(context.Background(), caller, otherSKU.String(), 2)
	assert.Equal(t, "cart-sku-not-found", appCode(t, err).Message())
}

func TestRemoveSKUClearsShippingSelection(t *testing.T) {
	gdb := setupCartTestDB(t)
	svc := newCartService(t, gdb)
	skuID := seedSKU(t, gdb, "10.00")
	seedShippingMethod(t, gdb, "USPSRetailGround", "5.99")

	result, err := svc.AddSKU(context.Background(), identity.Identity{}, skuID.String(), 1)
	require.NoError(t, err)
	caller := identity.Anonymous(result.NewAnonymousCartID)

	_, err = svc.SetShippingMethod(context.Background(), caller, "USPSRetailGround")
	require.NoError(t, err)

	_, err = svc.RemoveSKU(context.Background(), caller, skuID.String())
	require.NoError(t, err)

	cart, err := NewRepository(gdb).FindByAnonymousID(context.Background(), result.NewAnonymousCartID)
	require.NoError(t, err)
	assert.Empty(t, cart.SKUs)
	assert.Nil(t, cart.ShippingMethod)
}

func TestSetShippingMethodUnknownIdentifier(t *testing.T) {
	gdb := setupCartTestDB(t)
	svc := newCartService(t, gdb)
	skuID := seedSKU(t, gdb, "10.00")

	result, err := svc.AddSKU(context.Background(), identity.Identity{}, skuID.String(), 1)
	require.NoError(t, err)
	caller := identity.Anonymous(result.NewAnonymousCartID)

	_, err = svc.SetShippingMethod(context.Background(), caller, "NoSuchMethod")
	assert.Equal(t, "error-setting-cart-shipping-method", appCode(t, err).Message())

	_, err = svc.SetShippingMethod(context.Background(), caller, "")
	assert.Equal(t, "shipping-method-identifier-required", appCode(t, err).Message())
}

func TestApplyDiscountLifecycle(t *testing.T) {
	gdb := setupCartTestDB(t)
	svc := newCartService(t, gdb)
	skuID := seedSKU(t, gdb, "50.00")
	seedDiscountCode(t, gdb, "SAVE5", true)
	seedDiscountCode(t, gdb, "EXPIRED", false)

	result, err := svc.AddSKU(context.Background(), identity.Identity{}, skuID.String(), 1)
	require.NoError(t, err)
	caller := identity.Anonymous(result.NewAnonymousCartID)

	applied, err := svc.ApplyDiscount(context.Background(), caller, "SAVE5")
	require.NoError(t, err)
	assert.True(t, applied.Totals.CartTotal.Equal(decimal.RequireFromString("45.00")))
	require.Len(t, applied.Discounts, 1)
	assert.True(t, applied.Discounts[0].Applied)

	_, err = svc.ApplyDiscount(context.Background(), caller, "SAVE5")
	assert.Equal(t, "cart-discount-code-already-applied", appCode(t, err).Message())

	_, err = svc.ApplyDiscount(context.Background(), caller, "EXPIRED")
	assert.Equal(t, "cart-discount-code-not-active", appCode(t, err).Message())

	_, err = svc.ApplyDiscount(context.Background(), caller, "NOPE")
	assert.Equal(t, "cart-discount-code-not-found", appCode(t, err).Message())

	removed, err := svc.RemoveDiscount(context.Background(), caller, "SAVE5")
	require.NoError(t, err)
	assert.True(t, removed.Totals.CartTotal.Equal(decimal.RequireFromString("50.00")))
}

func TestMutationsRequireCart(t *testing.T) {
	gdb := setupCartTestDB(t)
	svc := newCartService(t, gdb)
	skuID := seedSKU(t, gdb, "10.00")
	seedDiscountCode(t, gdb, "SAVE5", true)

	caller := identity.Anonymous("no-such-cart")

	_, err := svc.RemoveSKU(context.Background(), caller, skuID.String())
	assert.Equal(t, "cart-not-found", appCode(t, err).Message())

	_, err = svc.ApplyDiscount(context.Background(), caller, "SAVE5")
	assert.Equal(t, "cart-not-found", appCode(t, err).Message())

	err = svc.DeleteCart(context.Background(), caller)
	assert.Equal(t, "cart-not-found", appCode(t, err).Message())
}

func TestReadsWithoutCartReturnEmpty(t *testing.T) {
	gdb := setupCartTestDB(t)
	svc := newCartService(t, gdb)

	items, err := svc.Items(context.Background(), identity.Identity{})
	require.NoError(t, err)
	assert.Empty(t, items)

	totals, err := svc.Totals(context.Background(), identity.Identity{})
	require.NoError(t, err)
	assert.True(t, totals.CartTotal.IsZero())
}

func TestTotalsWorkedExample(t *testing.T) {
	gdb := setupCartTestDB(t)
	svc := newCartService(t, gdb)
	skuID := seedSKU(t, gdb, "29.99")
	seedShippingMethod(t, gdb, "USPSRetailGround", "5.99")

	result, err := svc.AddSKU(context.Background(), identity.Identity{}, skuID.String(), 2)
	require.NoError(t, err)
	caller := identity.Anonymous(result.NewAnonymousCartID)

	_, err = svc.SetShippingMethod(context.Background(), caller, "USPSRetailGround")
	require.NoError(t, err)

	totals, err := svc.Totals(context.Background(), caller)
	require.NoError(t, err)
	assert.True(t, totals.ItemSubtotal.Equal(decimal.RequireFromString("59.98")))
	assert.True(t, totals.ShippingSubtotal.Equal(decimal.RequireFromString("5.99")))
	assert.True(t, totals.CartTotal.Equal(decimal.RequireFromString("65.97")))
}

func TestMergeOnLoginSumsQuantities(t *testing.T) {
	gdb := setupCartTestDB(t)
	svc := newCartService(t, gdb)
	skuID := seedSKU(t, gdb, "10.00")

	memberID := uuid.New()
	member := identity.Member(memberID, "alice")

	_, err := svc.AddSKU(context.Background(), member, skuID.String(), 1)
	require.NoError(t, err)

	anonResult, err := svc.AddSKU(context.Background(), identity.Identity{}, skuID.String(), 2)
	require.NoError(t, err)

	require.NoError(t, svc.MergeOnLogin(context.Background(), memberID, anonResult.NewAnonymousCartID))

	repo := NewRepository(gdb)
	memberCart, err := repo.FindByMember(context.Background(), memberID)
	require.NoError(t, err)
	require.Len(t, memberCart.SKUs, 1)
	assert.Equal(t, 3, memberCart.SKUs[0].Quantity)

	anonCart, err := repo.FindByAnonymousID(context.Background(), anonResult.NewAnonymousCartID)
	require.NoError(t, err)
	assert.Nil(t, anonCart)
}

func TestMergeOnLoginClaimsCartWhenMemberHasNone(t *testing.T) {
	gdb := setupCartTestDB(t)
	svc := newCartService(t, gdb)
	skuID := seedSKU(t, gdb, "10.00")

	anonResult, err := svc.AddSKU(context.Background(), identity.Identity{}, skuID.String(), 2)
	require.NoError(t, err)

	memberID := uuid.New()
	require.NoError(t, svc.MergeOnLogin(context.Background(), memberID, anonResult.NewAnonymousCartID))

	repo := NewRepository(gdb)
	memberCart, err := repo.FindByMember(context.Background(), memberID)
	require.NoError(t, err)
	require.NotNil(t, memberCart)
	require.Len(t, memberCart.SKUs, 1)
	assert.Equal(t, 2, memberCart.SKUs[0].Quantity)
}
