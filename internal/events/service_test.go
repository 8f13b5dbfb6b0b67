package events

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/startupwebapp/storefront-backend/internal/identity"
	"github.com/startupwebapp/storefront-backend/internal/orderconfig"
	"github.com/startupwebapp/storefront-backend/pkg/db/models"
	"github.com/startupwebapp/storefront-backend/pkg/enums"
)

var eventsTestSchema = []string{
	`CREATE TABLE IF NOT EXISTS client_events (
  id TEXT PRIMARY KEY, kind TEXT NOT NULL, member_id TEXT, anonymous_id TEXT,
  url TEXT, detail TEXT, user_agent TEXT, remote_addr TEXT, created_at DATETIME);`,
}

type stubEventConfigs struct {
	snapshot *orderconfig.Snapshot
	err      error
}

func (s *stubEventConfigs) Snapshot(context.Context) (*orderconfig.Snapshot, error) {
	return s.snapshot, s.err
}

func newEventsService(t *testing.T, configs *stubEventConfigs) (Service, *gorm.DB) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	for _, stmt := range eventsTestSchema {
		require.NoError(t, gdb.Exec(stmt).Error)
	}
	require.NoError(t, gdb.Exec("DELETE FROM client_events").Error)

	svc, err := NewService(ServiceParams{Repo: NewRepository(gdb), Configs: configs})
	require.NoError(t, err)
	return svc, gdb
}

func countClientEvents(t *testing.T, gdb *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, gdb.Model(&models.ClientEvent{}).Count(&count).Error)
	return count
}

func TestRecordWritesEventWhenEnabled(t *testing.T) {
	configs := &stubEventConfigs{snapshot: &orderconfig.Snapshot{LogClientEvents: true}}
	svc, gdb := newEventsService(t, configs)

	memberID := uuid.New()
	svc.Record(context.Background(), RecordInput{
		Kind:       enums.ClientEventPageView,
		Caller:     identity.Member(memberID, "alice"),
		URL:        "/order/products",
		UserAgent:  "test-agent",
		RemoteAddr: "203.0.113.9",
	})

	var event models.ClientEvent
	require.NoError(t, gdb.First(&event).Error)
	assert.Equal(t, enums.ClientEventPageView, event.Kind)
	require.NotNil(t, event.MemberID)
	assert.Equal(t, memberID, *event.MemberID)
	assert.Nil(t, event.AnonymousID)
	assert.Equal(t, "/order/products", event.URL)
}

func TestRecordAttributesAnonymousCart(t *testing.T) {
	configs := &stubEventConfigs{snapshot: &orderconfig.Snapshot{LogClientEvents: true}}
	svc, gdb := newEventsService(t, configs)

	svc.Record(context.Background(), RecordInput{
		Kind:   enums.ClientEventButtonClick,
		Caller: identity.Anonymous("anon-cart-1"),
		Detail: "add-to-cart",
	})

	var event models.ClientEvent
	require.NoError(t, gdb.First(&event).Error)
	assert.Nil(t, event.MemberID)
	require.NotNil(t, event.AnonymousID)
	assert.Equal(t, "anon-cart-1", *event.AnonymousID)
}

func TestRecordSkipsWhenLoggingDisabled(t *testing.T) {
	configs := &stubEventConfigs{snapshot: &orderconfig.Snapshot{LogClientEvents: false}}
	svc, gdb := newEventsService(t, configs)

	svc.Record(context.Background(), RecordInput{
		Kind:   enums.ClientEventLinkClick,
		Caller: identity.Anonymous("anon-cart-1"),
	})

	assert.Equal(t, int64(0), countClientEvents(t, gdb))
}

func TestRecordDropsUnknownKind(t *testing.T) {
	configs := &stubEventConfigs{snapshot: &orderconfig.Snapshot{LogClientEvents: true}}
	svc, gdb := newEventsService(t, configs)

	svc.Record(context.Background(), RecordInput{
		Kind:   enums.ClientEventKind("mystery"),
		Caller: identity.Anonymous("anon-cart-1"),
	})

	assert.Equal(t, int64(0), countClientEvents(t, gdb))
}

func TestRecordSwallowsConfigFailure(t *testing.T) {
	configs := &stubEventConfigs{err: assert.AnError}
	svc, gdb := newEventsService(t, configs)

	svc.Record(context.Background(), RecordInput{
		Kind:   enums.ClientEventAJAXError,
		Caller: identity.Anonymous("anon-cart-1"),
		Detail: "POST /order/cart-items 500",
	})

	assert.Equal(t, int64(0), countClientEvents(t, gdb))
}
