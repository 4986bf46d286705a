package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository is the single-record persistence contract for proposals. Every
// call is one read or one write; no multi-record transactions are assumed.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, proposal *Proposal) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Proposal, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Proposal, error)
	// MarkPaid sets payment_status=paid and share_slug only where the row is
	// still unpaid, and reports the number of rows updated. Zero means a
	// concurrent confirm already won; the caller re-reads for the
	// authoritative slug.
	MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID, slug string) (int64, error)
}
