package stripewebhook

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"

	"github.com/startupwebapp/storefront-backend/internal/checkout"
)

type memoryIdempotencyStore struct {
	keys map[string]string
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{keys: map[string]string{}}
}

func (m *memoryIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	return m.keys[key], nil
}

func (m *memoryIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, exists := m.keys[key]; exists {
		return false, nil
	}
	m.keys[key] = "1"
	return true, nil
}

func (m *memoryIdempotencyStore) IdempotencyKey(scope, id string) string {
	return scope + ":" + id
}

func (m *memoryIdempotencyStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.keys, key)
	}
	return nil
}

type stubOrderPlacer struct {
	sessions []*stripe.CheckoutSession
	result   *checkout.PlaceOrderResult
	err      error
}

func (s *stubOrderPlacer) PlaceOrderFromSession(_ context.Context, session *stripe.CheckoutSession) (*checkout.PlaceOrderResult, error) {
	s.sessions = append(s.sessions, session)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newWebhookService(t *testing.T, placer *stubOrderPlacer) *Service {
	t.Helper()
	guard, err := NewIdempotencyGuard(newMemoryIdempotencyStore(), time.Hour, "stripe-webhook")
	require.NoError(t, err)
	svc, err := NewService(ServiceParams{Checkout: placer, Guard: guard})
	require.NoError(t, err)
	return svc
}

func completedEvent(t *testing.T, eventID, sessionID string) *stripe.Event {
	t.Helper()
	raw, err := json.Marshal(&stripe.CheckoutSession{ID: sessionID})
	require.NoError(t, err)
	return &stripe.Event{
		ID:   eventID,
		Type: stripe.EventTypeCheckoutSessionCompleted,
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestHandleEventPlacesOrderOnSessionCompleted(t *testing.T) {
	placer := &stubOrderPlacer{result: &checkout.PlaceOrderResult{OrderIdentifier: "A1B2C3"}}
	svc := newWebhookService(t, placer)

	err := svc.HandleEvent(context.Background(), completedEvent(t, "evt_1", "cs_test_1"))
	require.NoError(t, err)
	require.Len(t, placer.sessions, 1)
	assert.Equal(t, "cs_test_1", placer.sessions[0].ID)
}

func TestHandleEventSkipsDuplicateDelivery(t *testing.T) {
	placer := &stubOrderPlacer{result: &checkout.PlaceOrderResult{OrderIdentifier: "A1B2C3"}}
	svc := newWebhookService(t, placer)

	require.NoError(t, svc.HandleEvent(context.Background(), completedEvent(t, "evt_1", "cs_test_1")))
	require.NoError(t, svc.HandleEvent(context.Background(), completedEvent(t, "evt_1", "cs_test_1")))
	assert.Len(t, placer.sessions, 1, "second delivery of the same event must not re-run checkout")
}

func TestHandleEventReleasesIDOnFailure(t *testing.T) {
	placer := &stubOrderPlacer{err: assert.AnError}
	svc := newWebhookService(t, placer)

	err := svc.HandleEvent(context.Background(), completedEvent(t, "evt_1", "cs_test_1"))
	require.Error(t, err)

	// Stripe retries the same event id; the retry must reach checkout again.
	placer.err = nil
	placer.result = &checkout.PlaceOrderResult{OrderIdentifier: "A1B2C3"}
	require.NoError(t, svc.HandleEvent(context.Background(), completedEvent(t, "evt_1", "cs_test_1")))
	assert.Len(t, placer.sessions, 2)
}

func TestHandleEventIgnoresExpiredAndUnknownTypes(t *testing.T) {
	placer := &stubOrderPlacer{}
	svc := newWebhookService(t, placer)

	expired := &stripe.Event{
		ID:   "evt_2",
		Type: stripe.EventTypeCheckoutSessionExpired,
		Data: &stripe.EventData{Raw: []byte(`{}`)},
	}
	require.NoError(t, svc.HandleEvent(context.Background(), expired))

	other := &stripe.Event{
		ID:   "evt_3",
		Type: stripe.EventTypeInvoicePaid,
		Data: &stripe.EventData{Raw: []byte(`{}`)},
	}
	require.NoError(t, svc.HandleEvent(context.Background(), other))
	assert.Empty(t, placer.sessions)
}

func TestHandleEventRejectsMissingData(t *testing.T) {
	placer := &stubOrderPlacer{}
	svc := newWebhookService(t, placer)

	require.Error(t, svc.HandleEvent(context.Background(), nil))
	require.Error(t, svc.HandleEvent(context.Background(), &stripe.Event{ID: "evt_4"}))
}
