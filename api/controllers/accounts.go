package controllers

import (
	"net/http"

	"github.com/startupwebapp/storefront-backend/api/middleware"
	"github.com/startupwebapp/storefront-backend/api/responses"
	"github.com/startupwebapp/storefront-backend/api/validators"
	"github.com/startupwebapp/storefront-backend/internal/accounts"
	"github.com/startupwebapp/storefront-backend/pkg/logger"
	"github.com/startupwebapp/storefront-backend/pkg/types"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email_address" validate:"required,email"`
	Password string `json:"password" validate:"required,min=10"`
}

// Register creates a member account and signs it in.
func Register(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	const action = "register"
	return func(w http.ResponseWriter, r *http.Request) {
		var payload registerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteActionError(r.Context(), logg, w, action, err)
			return
		}
		result, err := svc.Register(r.Context(), accounts.RegisterInput{
			Username:        payload.Username,
			Email:           payload.Email,
			Password:        payload.Password,
			AnonymousCartID: middleware.IdentityFromContext(r.Context()).AnonymousCartID,
		})
		if err != nil {
			responses.WriteActionError(r.Context(), logg, w, action, err)
			return
		}
		responses.WriteAction(w, action, types.Payload{
			"token":     result.Token,
			"username":  result.Username,
			"member_id": result.MemberID.String(),
		})
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and mints an access token.
func Login(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	const action = "login"
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteActionError(r.Context(), logg, w, action, err)
			return
		}
		result, err := svc.Login(r.Context(), accounts.LoginInput{
			Username:        payload.Username,
			Password:        payload.Password,
			AnonymousCartID: middleware.IdentityFromContext(r.Context()).AnonymousCartID,
		})
		if err != nil {
			responses.WriteActionError(r.Context(), logg, w, action, err)
			return
		}
		responses.WriteAction(w, action, types.Payload{
			"token":     result.Token,
			"username":  result.Username,
			"member_id": result.MemberID.String(),
		})
	}
}

// Logout revokes the caller's session.
func Logout(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	const action = "logout"
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context(), middleware.AccessIDFromContext(r.Context())); err != nil {
			responses.WriteActionError(r.Context(), logg, w, action, err)
			return
		}
		responses.WriteAction(w, action, nil)
	}
}

type verifyEmailRequest struct {
	Code string `json:"email_verification_code" validate:"required"`
}

// VerifyEmail completes the signed email verification loop.
func VerifyEmail(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	const action = "verify_email"
	return func(w http.ResponseWriter, r *http.Request) {
		var payload verifyEmailRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteActionError(r.Context(), logg, w, action, err)
			return
		}
		caller := middleware.IdentityFromContext(r.Context())
		if err := svc.VerifyEmail(r.Context(), *caller.MemberID, payload.Code); err != nil {
			responses.WriteActionError(r.Context(), logg, w, action, err)
			return
		}
		responses.WriteAction(w, action, nil)
	}
}

type forgotPasswordRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email_address" validate:"required,email"`
}

// ForgotPassword issues a password reset code. The response is identical
// whether or not the account exists.
func ForgotPassword(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	const action = "forgot_password"
	return func(w http.ResponseWriter, r *http.Request) {
		var payload forgotPasswordRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteActionError(r.Context(), logg, w, action, err)
			return
		}
		if err := svc.ForgotPassword(r.Context(), payload.Username, payload.Email); err != nil {
			responses.WriteActionError(r.Context(), logg, w, action, err)
			return
		}
		responses.WriteAction(w, action, nil)
	}
}

type resetPasswordRequest struct {
	Username    string `json:"username" validate:"required"`
	Code        string `json:"password_reset_code" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=10"`
}

// ResetPassword sets a new password from a signed reset code.
func ResetPassword(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	const action = "reset_password"
	return func(w http.ResponseWriter, r *http.Request) {
		var payload resetPasswordRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteActionError(r.Context(), logg, w, action, err)
			return
		}
		if err := svc.ResetPassword(r.Context(), accounts.ResetPasswordInput{
			Username:    payload.Username,
			Code:        payload.Code,
			NewPassword: payload.NewPassword,
		}); err != nil {
			responses.WriteActionError(r.Context(), logg, w, action, err)
			return
		}
		responses.WriteAction(w, action, nil)
	}
}
