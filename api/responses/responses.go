package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	apperrors "github.com/startupwebapp/storefront-backend/pkg/errors"
	"github.com/startupwebapp/storefront-backend/pkg/logger"
	"github.com/startupwebapp/storefront-backend/pkg/types"
)

// versionKey is stamped onto every payload the order API writes.
const versionKey = "order-api-version"

// Write emits a plain payload with the API version stamp.
func Write(w http.ResponseWriter, payload types.Payload) {
	WriteStatus(w, http.StatusOK, payload)
}

// WriteStatus emits a payload with an explicit HTTP status.
func WriteStatus(w http.ResponseWriter, status int, payload types.Payload) {
	if payload == nil {
		payload = types.Payload{}
	}
	payload[versionKey] = types.APIVersion
	writeJSON(w, status, payload)
}

// WriteAction reports a successful action: the action key carries "success"
// alongside any extra payload fields.
func WriteAction(w http.ResponseWriter, action string, extra types.Payload) {
	payload := types.Payload{}
	for key, value := range extra {
		payload[key] = value
	}
	payload[action] = types.ActionSuccess
	WriteStatus(w, http.StatusOK, payload)
}

// WriteActionError reports a failed action: the action key carries "error"
// and the errors object names the failure.
func WriteActionError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, action string, err error) {
	status, body := resolve(ctx, logg, err)
	WriteStatus(w, status, types.Payload{
		action:   types.ActionError,
		"errors": body,
	})
}

// WriteError reports a failure on a read endpoint that has no action key.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	status, body := resolve(ctx, logg, err)
	WriteStatus(w, status, types.Payload{"errors": body})
}

// resolve maps an error to its HTTP status and client-facing body. Client
// fault codes surface their message verbatim so the storefront can branch on
// it; server faults only surface their message when marked public
// (error-saving-order, error-creating-stripe-customer), otherwise the
// generic class code.
func resolve(ctx context.Context, logg *logger.Logger, err error) (int, types.ErrorBody) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := apperrors.As(err)
	if typed == nil {
		typed = apperrors.Wrap(apperrors.CodeInternal, err, "unexpected error")
	}

	meta := apperrors.MetadataFor(typed.Code())

	code := meta.PublicMessage
	surfaceMessage := typed.IsPublic()
	switch typed.Code() {
	case apperrors.CodeValidation,
		apperrors.CodeForbidden,
		apperrors.CodeUnauthorized,
		apperrors.CodeNotFound,
		apperrors.CodeConflict,
		apperrors.CodeStateConflict,
		apperrors.CodeIdempotency,
		apperrors.CodeRateLimit:
		surfaceMessage = true
	}
	if surfaceMessage {
		if m := typed.Message(); m != "" {
			code = m
		}
	}

	body := types.ErrorBody{
		Error:       code,
		Description: meta.PublicMessage,
	}
	if body.Description == body.Error {
		body.Description = ""
	}

	if logg != nil {
		dump := apperrors.Dump(err)
		fields := map[string]any{
			"error":         dump.TopMessage,
			"error_code":    dump.Code,
			"error_chain":   dump.Chain,
			"pg_code":       dump.PGCode,
			"pg_detail":     dump.PGDetail,
			"pg_message":    dump.PGMessage,
			"pg_table":      dump.PGTable,
			"pg_column":     dump.PGColumn,
			"pg_constraint": dump.PGConstraint,
		}
		ctx = logg.WithFields(ctx, fields)
		logg.Error(ctx, "request.error", err)
	}

	return meta.HTTPStatus, body
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
