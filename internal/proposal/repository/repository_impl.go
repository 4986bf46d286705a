package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/saquib05/valentine-site/internal/proposal/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, proposal *domain.Proposal) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO proposals (id, partner_name, creator_email, phone, custom_message, photo_url, payment_status, share_slug, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		proposal.ID,
		proposal.PartnerName,
		proposal.CreatorEmail,
		proposal.Phone,
		proposal.CustomMessage,
		proposal.PhotoURL,
		proposal.PaymentStatus,
		proposal.ShareSlug,
		proposal.CreatedAt,
		proposal.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Proposal, error) {
	var proposal domain.Proposal
	err := db.WithContext(ctx).Raw(
		`SELECT id, partner_name, creator_email, phone, custom_message, photo_url, payment_status, share_slug, created_at, updated_at
		 FROM proposals WHERE id = ?`,
		id,
	).Scan(&proposal).Error
	if err != nil {
		return nil, err
	}
	if proposal.ID == 0 {
		return nil, nil
	}
	return &proposal, nil
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Proposal, error) {
	if slug == "" {
		return nil, nil
	}
	var proposal domain.Proposal
	err := db.WithContext(ctx).Raw(
		`SELECT id, partner_name, creator_email, phone, custom_message, photo_url, payment_status, share_slug, created_at, updated_at
		 FROM proposals WHERE share_slug = ?`,
		slug,
	).Scan(&proposal).Error
	if err != nil {
		return nil, err
	}
	if proposal.ID == 0 {
		return nil, nil
	}
	return &proposal, nil
}

func (r *repo) MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID, slug string) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE proposals SET payment_status = ?, share_slug = ?, updated_at = ?
		 WHERE id = ? AND payment_status = ?`,
		domain.PaymentPaid,
		slug,
		time.Now().UTC(),
		id,
		domain.PaymentUnpaid,
	)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
