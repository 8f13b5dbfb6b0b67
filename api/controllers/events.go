package controllers

import (
	"net/http"

	"github.com/startupwebapp/storefront-backend/api/middleware"
	"github.com/startupwebapp/storefront-backend/api/responses"
	"github.com/startupwebapp/storefront-backend/api/validators"
	"github.com/startupwebapp/storefront-backend/internal/events"
	"github.com/startupwebapp/storefront-backend/pkg/enums"
	"github.com/startupwebapp/storefront-backend/pkg/logger"
)

type clientEventRequest struct {
	URL    string `json:"url"`
	Detail string `json:"detail"`
}

// clientEvent records one browser-side event. Recording is fire and forget:
// the endpoint reports success even when the event is dropped.
func clientEvent(svc events.Service, logg *logger.Logger, action string, kind enums.ClientEventKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload clientEventRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteActionError(r.Context(), logg, w, action, err)
			return
		}
		svc.Record(r.Context(), events.RecordInput{
			Kind:       kind,
			Caller:     middleware.IdentityFromContext(r.Context()),
			URL:        payload.URL,
			Detail:     payload.Detail,
			UserAgent:  r.UserAgent(),
			RemoteAddr: r.RemoteAddr,
		})
		responses.WriteAction(w, action, nil)
	}
}

// PageView records a page view event.
func PageView(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return clientEvent(svc, logg, "page_view", enums.ClientEventPageView)
}

// ButtonClick records a button click event.
func ButtonClick(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return clientEvent(svc, logg, "button_click", enums.ClientEventButtonClick)
}

// LinkEvent records a link click event.
func LinkEvent(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return clientEvent(svc, logg, "link_event", enums.ClientEventLinkClick)
}

// AJAXError records a browser-side request failure.
func AJAXError(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return clientEvent(svc, logg, "ajax_error", enums.ClientEventAJAXError)
}
