package identity

import "github.com/google/uuid"

// Identity is the caller of a storefront operation: a logged-in member, an
// anonymous browser carrying a cart cookie, or a first-time visitor with
// neither.
type Identity struct {
	MemberID        *uuid.UUID
	Username        string
	AnonymousCartID string
}

// IsMember reports whether the caller is authenticated.
func (i Identity) IsMember() bool {
	return i.MemberID != nil
}

// HasAnonymousCart reports whether the caller presented a cart cookie.
func (i Identity) HasAnonymousCart() bool {
	return i.AnonymousCartID != ""
}

// Member builds an authenticated identity.
func Member(memberID uuid.UUID, username string) Identity {
	return Identity{MemberID: &memberID, Username: username}
}

// Anonymous builds a cookie-backed identity.
func Anonymous(anonymousCartID string) Identity {
	return Identity{AnonymousCartID: anonymousCartID}
}
