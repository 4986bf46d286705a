package domain

import (
	"context"
	"errors"
)

// NotifyAcceptanceRequest carries the recipient's follow-up form. All fields
// except ProposalID are optional; fallbacks from the message template fill
// the gaps.
type NotifyAcceptanceRequest struct {
	ProposalID          string
	Vibe                string
	WhenFree            string
	PartnerNameOverride string
}

type NotifyAcceptanceResponse struct {
	// MessageID is the delivery identifier reported by the mail provider.
	MessageID string
}

type Service interface {
	// NotifyAcceptance mails the proposal's creator that the partner said
	// yes. It fails before composing anything when the creator contact or
	// the mail setup is missing.
	NotifyAcceptance(ctx context.Context, req NotifyAcceptanceRequest) (NotifyAcceptanceResponse, error)
}

var (
	ErrNoCreatorEmail = errors.New("missing_creator_email")
	ErrNotConfigured  = errors.New("notifier_not_configured")
	ErrUpstream       = errors.New("notifier_failed")
)
