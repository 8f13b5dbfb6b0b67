package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	MemberID uuid.UUID
	Username string
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to members.
type AccessTokenClaims struct {
	MemberID uuid.UUID `json:"member_id"`
	Username string    `json:"username"`
	jwt.RegisteredClaims
}
