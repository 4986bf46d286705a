package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/saquib05/valentine-site/internal/shareslug"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// Proposal is the durable record describing one romantic-proposal instance.
// ShareSlug is nil exactly while the proposal is unpaid; the paid transition
// assigns it and it is never cleared afterwards.
type Proposal struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	PartnerName   string        `gorm:"not null" json:"partner_name"`
	CreatorEmail  string        `gorm:"not null" json:"creator_email"`
	Phone         string        `gorm:"not null" json:"phone"`
	CustomMessage string        `json:"custom_message,omitempty"`
	PhotoURL      string        `json:"photo_url,omitempty"`
	PaymentStatus PaymentStatus `gorm:"not null;default:unpaid" json:"payment_status"`
	ShareSlug     *string       `gorm:"uniqueIndex" json:"share_slug,omitempty"`
	CreatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Proposal) TableName() string { return "proposals" }

func (p *Proposal) Paid() bool {
	return p != nil && p.PaymentStatus == PaymentPaid
}

// Slug returns the share token, zero while unpaid.
func (p *Proposal) Slug() shareslug.Slug {
	if p == nil || p.ShareSlug == nil {
		return shareslug.Slug{}
	}
	return shareslug.FromStored(*p.ShareSlug)
}
