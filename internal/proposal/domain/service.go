package domain

import (
	"context"
	"errors"

	"github.com/saquib05/valentine-site/internal/shareslug"
)

type CreateProposalRequest struct {
	PartnerName   string
	CreatorEmail  string
	Phone         string
	CustomMessage string
	PhotoURL      string
}

type ConfirmPaymentResponse struct {
	ShareSlug shareslug.Slug
	// Minted is false when the proposal was already paid and the existing
	// slug was returned without a remint.
	Minted bool
}

type Service interface {
	Create(ctx context.Context, req CreateProposalRequest) (Proposal, error)
	GetByID(ctx context.Context, id string) (Proposal, error)
	// ConfirmPayment transitions the proposal to paid and returns the
	// persisted share slug. Idempotent: confirming an already-paid proposal
	// returns its existing slug.
	ConfirmPayment(ctx context.Context, id string) (ConfirmPaymentResponse, error)
	// ResolveShare maps a raw share token to its paid proposal. Unknown
	// tokens, malformed tokens and unpaid matches all fail with the same
	// ErrNotFound.
	ResolveShare(ctx context.Context, rawSlug string) (Proposal, error)
}

var (
	ErrInvalidPartnerName = errors.New("invalid_partner_name")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidPhone       = errors.New("invalid_phone")
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
	// ErrPaymentUnavailable is returned when the simulated confirm-payment
	// operation is invoked outside simulation mode.
	ErrPaymentUnavailable = errors.New("payment_confirmation_unavailable")
)
