package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/startupwebapp/storefront-backend/pkg/enums"
)

// ClientEvent records one browser-side event (page view, click, AJAX
// error). Attribution is best effort: member when logged in, otherwise the
// anonymous cart id if the cookie is present.
type ClientEvent struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Kind        enums.ClientEventKind `gorm:"column:kind;not null;index"`
	MemberID    *uuid.UUID            `gorm:"column:member_id;type:uuid;index"`
	AnonymousID *string               `gorm:"column:anonymous_id"`
	URL         string                `gorm:"column:url"`
	Detail      string                `gorm:"column:detail"`
	UserAgent   string                `gorm:"column:user_agent"`
	RemoteAddr  string                `gorm:"column:remote_addr"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
}
