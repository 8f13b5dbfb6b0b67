package accounts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/startupwebapp/storefront-backend/internal/emails"
	"github.com/startupwebapp/storefront-backend/pkg/auth"
	"github.com/startupwebapp/storefront-backend/pkg/auth/session"
	"github.com/startupwebapp/storefront-backend/pkg/config"
	"github.com/startupwebapp/storefront-backend/pkg/db/models"
	apperrors "github.com/startupwebapp/storefront-backend/pkg/errors"
	"github.com/startupwebapp/storefront-backend/pkg/logger"
	"github.com/startupwebapp/storefront-backend/pkg/random"
	"github.com/startupwebapp/storefront-backend/pkg/security"
)

// Template codes for the account lifecycle emails.
const (
	EmCdWelcome         = "member-welcome"
	EmCdPasswordReset   = "password-reset"
	EmCdPasswordChanged = "password-changed"
)

const codeLength = 20

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartMerger interface {
	MergeOnLogin(ctx context.Context, memberID uuid.UUID, anonymousCartID string) error
}

type mailer interface {
	Send(ctx context.Context, input emails.SendInput) error
}

type sessionStore interface {
	Create(ctx context.Context, accessID string) error
	Revoke(ctx context.Context, accessID string) error
}

// RegisterInput is the create-account payload.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	AnonymousCartID string
}

// LoginInput is the login payload.
type LoginInput struct {
	Username        string
	Password        string
	AnonymousCartID string
}

// ResetPasswordInput completes a forgot-password flow.
type ResetPasswordInput struct {
	Username    string
	Code        string
	NewPassword string
}

// AuthResult carries the minted credentials after register or login.
type AuthResult struct {
	MemberID uuid.UUID
	Username string
	Token    string
}

// Service owns the member account lifecycle.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	Logout(ctx context.Context, accessID string) error
	VerifyEmail(ctx context.Context, memberID uuid.UUID, signedCode string) error
	ForgotPassword(ctx context.Context, username, email string) error
	ResetPassword(ctx context.Context, input ResetPasswordInput) error
	AnonymousEmailLookup(ctx context.Context, email string) error
}

type service struct {
	repo     *Repository
	carts    cartMerger
	mail     mailer
	sessions sessionStore
	tx       txRunner
	logg     *logger.Logger
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	secret   string
	domain   string
}

// ServiceParams collects the account service dependencies.
type ServiceParams struct {
	Repo       *Repository
	Carts      cartMerger
	Mail       mailer
	Sessions   sessionStore
	Tx         txRunner
	Logger     *logger.Logger
	JWT        config.JWTConfig
	Password   config.PasswordConfig
	CodeSecret string
	PublicURL  string
}

// NewService builds the account service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("accounts repository required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart merger required")
	}
	if params.Mail == nil {
		return nil, fmt.Errorf("mailer required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.CodeSecret == "" {
		return nil, fmt.Errorf("code signing secret required")
	}
	return &service{
		repo:     params.Repo,
		carts:    params.Carts,
		mail:     params.Mail,
		sessions: params.Sessions,
		tx:       params.Tx,
		logg:     params.Logger,
		jwtCfg:   params.JWT,
		pwCfg:    params.Password,
		secret:   params.CodeSecret,
		domain:   params.PublicURL,
	}, nil
}

// Register creates a member account, converts a matching prospect, merges
// any anonymous cart, and signs the new member in.
func (s *service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if existing, err := s.repo.FindMemberByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperrors.New(apperrors.CodeConflict, "username-already-exists")
	}
	if existing, err := s.repo.FindMemberByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperrors.New(apperrors.CodeConflict, "email-address-already-exists")
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, err
	}
	mbCd, err := random.String(codeLength)
	if err != nil {
		return nil, err
	}
	verification, err := random.String(codeLength)
	if err != nil {
		return nil, err
	}
	unsubscribe, err := random.String(codeLength)
	if err != nil {
		return nil, err
	}

	member := &models.Member{
		Username:           username,
		Email:              email,
		PasswordHash:       hash,
		MbCd:               mbCd,
		VerificationString: verification,
		UnsubscribeString:  unsubscribe,
	}

	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.CreateMember(ctx, member); err != nil {
			return err
		}
		return convertProspect(ctx, txRepo, member)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.mergeCart(ctx, member.ID, input.AnonymousCartID)

	result, err := s.startSession(ctx, member)
	if err != nil {
		return nil, err
	}

	signedCode := security.SignValue(verification, s.secret)
	if err := s.mail.Send(ctx, emails.SendInput{
		EmCd:      EmCdWelcome,
		Recipient: member.Email,
		MemberID:  &member.ID,
		Values: map[string]string{
			"username":               member.Username,
			"email_verification_url": s.domain + "/account/?email_verification_code=" + signedCode,
		},
	}); err != nil && s.logg != nil {
		s.logg.Error(ctx, "failed to send welcome email", err)
	}

	return result, nil
}

// convertProspect promotes a prospect with the same email address: the
// prospect's orders move to the new account and the prospect leaves the
// marketing list.
func convertProspect(ctx context.Context, repo *Repository, member *models.Member) error {
	prospect, err := repo.FindProspectByEmail(ctx, member.Email)
	if err != nil {
		return err
	}
	if prospect == nil {
		return nil
	}
	if prospect.ConvertedAt == nil {
		now := time.Now().UTC()
		prospect.ConvertedAt = &now
	}
	note := "Prospect converted by member " + member.ID.String() + "."
	if prospect.Comment != "" {
		note = prospect.Comment + " " + note
	}
	prospect.Comment = note
	prospect.Unsubscribed = true
	if err := repo.SaveProspect(ctx, prospect); err != nil {
		return err
	}
	return repo.ClaimProspectOrders(ctx, member.ID, prospect.ID)
}

// Login verifies credentials and signs the member in, merging any anonymous
// cart carried by the browser.
func (s *service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	member, err := s.repo.FindMemberByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "invalid-login")
	}
	ok, err := security.VerifyPassword(input.Password, member.PasswordHash)
	if err != nil || !ok {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "invalid-login")
	}

	now := time.Now().UTC()
	member.LastLoginAt = &now
	if err := s.repo.SaveMember(ctx, member); err != nil && s.logg != nil {
		s.logg.Error(ctx, "failed to record last login", err)
	}

	s.mergeCart(ctx, member.ID, input.AnonymousCartID)

	return s.startSession(ctx, member)
}

// Logout revokes the live session for the access id.
func (s *service) Logout(ctx context.Context, accessID string) error {
	return s.sessions.Revoke(ctx, accessID)
}

// VerifyEmail completes the email verification loop.
func (s *service) VerifyEmail(ctx context.Context, memberID uuid.UUID, signedCode string) error {
	member, err := s.repo.FindMember(ctx, memberID)
	if err != nil {
		return err
	}
	if member == nil {
		return apperrors.New(apperrors.CodeUnauthorized, "invalid-session")
	}
	code, err := security.VerifySignedValue(signedCode, s.secret)
	if err != nil {
		return apperrors.New(apperrors.CodeValidation, "signature-invalid")
	}
	if member.VerificationString == "" || member.VerificationString != code {
		return apperrors.New(apperrors.CodeValidation, "code-doesnt-match")
	}
	member.EmailVerified = true
	member.VerificationString = ""
	return s.repo.SaveMember(ctx, member)
}

// ForgotPassword issues a reset code when username and email match. The
// response never reveals whether the account exists.
func (s *service) ForgotPassword(ctx context.Context, username, email string) error {
	member, err := s.repo.FindMemberByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return err
	}
	if member == nil || !strings.EqualFold(member.Email, strings.TrimSpace(email)) {
		return nil
	}

	code, err := random.String(codeLength)
	if err != nil {
		return err
	}
	member.PasswordResetString = code
	if err := s.repo.SaveMember(ctx, member); err != nil {
		return err
	}

	signedCode := security.SignValue(code, s.secret)
	if err := s.mail.Send(ctx, emails.SendInput{
		EmCd:      EmCdPasswordReset,
		Recipient: member.Email,
		MemberID:  &member.ID,
		Values: map[string]string{
			"username":           member.Username,
			"password_reset_url": s.domain + "/set-new-password?password_reset_code=" + signedCode,
		},
	}); err != nil && s.logg != nil {
		s.logg.Error(ctx, "failed to send password reset email", err)
	}
	return nil
}

// ResetPassword sets a new password when the signed reset code checks out.
func (s *service) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	member, err := s.repo.FindMemberByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		return err
	}
	if member == nil {
		return apperrors.New(apperrors.CodeNotFound, "username-not-found")
	}
	code, err := security.VerifySignedValue(input.Code, s.secret)
	if err != nil {
		return apperrors.New(apperrors.CodeValidation, "signature-invalid")
	}
	if member.PasswordResetString == "" || member.PasswordResetString != code {
		return apperrors.New(apperrors.CodeValidation, "code-doesnt-match")
	}

	hash, err := security.HashPassword(input.NewPassword, s.pwCfg)
	if err != nil {
		return err
	}
	member.PasswordHash = hash
	member.PasswordResetString = ""
	if err := s.repo.SaveMember(ctx, member); err != nil {
		return err
	}

	if err := s.mail.Send(ctx, emails.SendInput{
		EmCd:      EmCdPasswordChanged,
		Recipient: member.Email,
		MemberID:  &member.ID,
		Values:    map[string]string{"username": member.Username},
	}); err != nil && s.logg != nil {
		s.logg.Error(ctx, "failed to send password changed email", err)
	}
	return nil
}

// AnonymousEmailLookup captures a prospect from an anonymous checkout. An
// address already owned by a member is rejected so the buyer logs in instead.
func (s *service) AnonymousEmailLookup(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return apperrors.New(apperrors.CodeValidation, "anonymous-email-address-required")
	}
	member, err := s.repo.FindMemberByEmail(ctx, email)
	if err != nil {
		return err
	}
	if member != nil {
		return apperrors.New(apperrors.CodeConflict, "email-address-is-associated-with-member")
	}
	prospect, err := s.repo.FindProspectByEmail(ctx, email)
	if err != nil {
		return err
	}
	if prospect != nil {
		return nil
	}

	prCd, err := random.String(24)
	if err != nil {
		return err
	}
	unsubscribe, err := random.String(codeLength)
	if err != nil {
		return err
	}
	return s.repo.CreateProspect(ctx, &models.Prospect{
		Email:             email,
		PrCd:              prCd,
		UnsubscribeString: unsubscribe,
		Unsubscribed:      true,
		Comment:           "Captured from incomplete anonymous order",
	})
}

// mergeCart is best effort: a failed merge never blocks sign-in.
func (s *service) mergeCart(ctx context.Context, memberID uuid.UUID, anonymousCartID string) {
	if anonymousCartID == "" {
		return
	}
	if err := s.carts.MergeOnLogin(ctx, memberID, anonymousCartID); err != nil && s.logg != nil {
		s.logg.Error(ctx, "failed to merge anonymous cart on login", err)
	}
}

func (s *service) startSession(ctx context.Context, member *models.Member) (*AuthResult, error) {
	accessID := session.NewAccessID()
	token, err := auth.MintAccessToken(s.jwtCfg, time.Now(), auth.AccessTokenPayload{
		MemberID: member.ID,
		Username: member.Username,
		JTI:      accessID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Create(ctx, accessID); err != nil {
		return nil, err
	}
	return &AuthResult{MemberID: member.ID, Username: member.Username, Token: token}, nil
}
