package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/saquib05/valentine-site/internal/clock"
	"github.com/saquib05/valentine-site/internal/config"
	"github.com/saquib05/valentine-site/internal/observability/metrics"
	"github.com/saquib05/valentine-site/internal/proposal/domain"
	"github.com/saquib05/valentine-site/internal/shareslug"
	"github.com/saquib05/valentine-site/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// mintRetries bounds how many fresh slugs we try when the unique index
// reports a collision. At 72 bits of entropy one retry is already rare.
const mintRetries = 3

type Params struct {
	fx.In

	Cfg     config.Config
	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Metrics *metrics.Metrics
	Repo    domain.Repository
}

type Service struct {
	cfg     config.Config
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	metrics *metrics.Metrics
	repo    domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		cfg:     p.Cfg,
		db:      p.DB,
		log:     p.Log.Named("proposal.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		metrics: p.Metrics,
		repo:    p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateProposalRequest) (domain.Proposal, error) {
	partnerName := strings.TrimSpace(req.PartnerName)
	if partnerName == "" {
		return domain.Proposal{}, domain.ErrInvalidPartnerName
	}

	email := strings.TrimSpace(req.CreatorEmail)
	if email == "" {
		return domain.Proposal{}, domain.ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.Proposal{}, domain.ErrInvalidEmail
	}

	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return domain.Proposal{}, domain.ErrInvalidPhone
	}

	now := s.clock.Now()
	proposal := domain.Proposal{
		ID:            s.genID.Generate(),
		PartnerName:   partnerName,
		CreatorEmail:  email,
		Phone:         phone,
		CustomMessage: strings.TrimSpace(req.CustomMessage),
		PhotoURL:      strings.TrimSpace(req.PhotoURL),
		PaymentStatus: domain.PaymentUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Insert(ctx, s.db, &proposal); err != nil {
		return domain.Proposal{}, err
	}

	s.metrics.RecordProposalCreated(ctx)
	s.log.Info("proposal created", zap.String("proposal_id", proposal.ID.String()))

	return proposal, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Proposal, error) {
	proposalID, err := parseID(id)
	if err != nil {
		return domain.Proposal{}, err
	}

	proposal, err := s.repo.FindByID(ctx, s.db, proposalID)
	if err != nil {
		return domain.Proposal{}, err
	}
	if proposal == nil {
		return domain.Proposal{}, domain.ErrNotFound
	}

	return *proposal, nil
}

// ConfirmPayment flips the proposal to paid and mints its share slug. The
// paid transition is a conditional update on payment_status, so two
// concurrent confirms race safely: the loser re-reads and returns the slug
// the winner persisted.
func (s *Service) ConfirmPayment(ctx context.Context, id string) (domain.ConfirmPaymentResponse, error) {
	if !s.cfg.PaymentSimulationEnabled() {
		return domain.ConfirmPaymentResponse{}, domain.ErrPaymentUnavailable
	}

	proposalID, err := parseID(id)
	if err != nil {
		return domain.ConfirmPaymentResponse{}, err
	}

	proposal, err := s.repo.FindByID(ctx, s.db, proposalID)
	if err != nil {
		return domain.ConfirmPaymentResponse{}, err
	}
	if proposal == nil {
		return domain.ConfirmPaymentResponse{}, domain.ErrNotFound
	}
	if proposal.Paid() {
		s.metrics.RecordPaymentConfirmed(ctx, false)
		return domain.ConfirmPaymentResponse{ShareSlug: proposal.Slug(), Minted: false}, nil
	}

	for attempt := 0; attempt < mintRetries; attempt++ {
		slug, err := shareslug.Mint()
		if err != nil {
			return domain.ConfirmPaymentResponse{}, err
		}

		rows, err := s.repo.MarkPaid(ctx, s.db, proposalID, slug.Value())
		if err != nil {
			if db.IsDuplicateKeyErr(err) {
				s.log.Warn("share slug collision, reminting",
					zap.String("proposal_id", proposalID.String()),
				)
				continue
			}
			return domain.ConfirmPaymentResponse{}, err
		}

		if rows == 0 {
			// A concurrent confirm won the conditional update. The stored
			// slug is authoritative.
			return s.confirmedSlug(ctx, proposalID)
		}

		s.metrics.RecordPaymentConfirmed(ctx, true)
		s.log.Info("payment confirmed",
			zap.String("proposal_id", proposalID.String()),
			zap.Stringer("share_slug", slug),
		)
		return domain.ConfirmPaymentResponse{ShareSlug: slug, Minted: true}, nil
	}

	// Exhausting retries on a 72-bit token space means the random source or
	// the store is misbehaving, not bad luck.
	return domain.ConfirmPaymentResponse{}, shareslug.ErrInvalid
}

func (s *Service) confirmedSlug(ctx context.Context, id snowflake.ID) (domain.ConfirmPaymentResponse, error) {
	proposal, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.ConfirmPaymentResponse{}, err
	}
	if proposal == nil || !proposal.Paid() {
		return domain.ConfirmPaymentResponse{}, domain.ErrNotFound
	}
	s.metrics.RecordPaymentConfirmed(ctx, false)
	return domain.ConfirmPaymentResponse{ShareSlug: proposal.Slug(), Minted: false}, nil
}

// ResolveShare is the only read path keyed by slug. Malformed tokens,
// unknown tokens and unpaid matches are indistinguishable to the caller.
func (s *Service) ResolveShare(ctx context.Context, rawSlug string) (domain.Proposal, error) {
	slug, err := shareslug.Parse(rawSlug)
	if err != nil {
		s.metrics.RecordShareResolved(ctx, "miss")
		return domain.Proposal{}, domain.ErrNotFound
	}

	proposal, err := s.repo.FindBySlug(ctx, s.db, slug.Value())
	if err != nil {
		return domain.Proposal{}, err
	}
	if proposal == nil || !proposal.Paid() {
		s.metrics.RecordShareResolved(ctx, "miss")
		return domain.Proposal{}, domain.ErrNotFound
	}

	s.metrics.RecordShareResolved(ctx, "ok")
	return *proposal, nil
}

func parseID(raw string) (snowflake.ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.ErrInvalidID
	}
	id, err := snowflake.ParseString(raw)
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
