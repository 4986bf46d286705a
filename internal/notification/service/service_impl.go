package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/saquib05/valentine-site/internal/config"
	"github.com/saquib05/valentine-site/internal/notification/domain"
	"github.com/saquib05/valentine-site/internal/observability/metrics"
	proposaldomain "github.com/saquib05/valentine-site/internal/proposal/domain"
	"github.com/saquib05/valentine-site/internal/providers/email"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// sendTimeout bounds one provider call so a stalled SMTP dial cannot hold
// the request open.
const sendTimeout = 10 * time.Second

type Params struct {
	fx.In

	Log       *zap.Logger
	Metrics   *metrics.Metrics
	Proposals proposaldomain.Service
	Mail      email.Provider
	Template  *config.NotificationTemplateHolder
}

type Service struct {
	log       *zap.Logger
	metrics   *metrics.Metrics
	proposals proposaldomain.Service
	mail      email.Provider
	template  *config.NotificationTemplateHolder
}

func New(p Params) domain.Service {
	return &Service{
		log:       p.Log.Named("notification.service"),
		metrics:   p.Metrics,
		proposals: p.Proposals,
		mail:      p.Mail,
		template:  p.Template,
	}
}

func (s *Service) NotifyAcceptance(ctx context.Context, req domain.NotifyAcceptanceRequest) (domain.NotifyAcceptanceResponse, error) {
	proposal, err := s.proposals.GetByID(ctx, req.ProposalID)
	if err != nil {
		return domain.NotifyAcceptanceResponse{}, err
	}

	to := strings.TrimSpace(proposal.CreatorEmail)
	if to == "" {
		return domain.NotifyAcceptanceResponse{}, domain.ErrNoCreatorEmail
	}
	if _, err := mail.ParseAddress(to); err != nil {
		return domain.NotifyAcceptanceResponse{}, domain.ErrNoCreatorEmail
	}

	if !s.mail.Configured() {
		return domain.NotifyAcceptanceResponse{}, domain.ErrNotConfigured
	}

	tpl := s.template.Get()
	subject, body := compose(tpl, proposal, req)

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	messageID, err := s.mail.Send(sendCtx, []string{to}, subject, body)
	if err != nil {
		s.metrics.RecordNotificationSent(ctx, "failed")
		s.log.Error("acceptance notification failed",
			zap.String("proposal_id", req.ProposalID),
			zap.Error(err),
		)
		return domain.NotifyAcceptanceResponse{}, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	s.metrics.RecordNotificationSent(ctx, "sent")
	s.log.Info("acceptance notification sent",
		zap.String("proposal_id", req.ProposalID),
		zap.String("message_id", messageID),
	)

	return domain.NotifyAcceptanceResponse{MessageID: messageID}, nil
}

func compose(tpl config.NotificationTemplate, proposal proposaldomain.Proposal, req domain.NotifyAcceptanceRequest) (string, string) {
	partner := strings.TrimSpace(req.PartnerNameOverride)
	if partner == "" {
		partner = strings.TrimSpace(proposal.PartnerName)
	}
	if partner == "" {
		partner = tpl.PartnerFallback
	}

	date := strings.TrimSpace(req.WhenFree)
	if date == "" {
		date = tpl.DateFallback
	}

	vibe := strings.TrimSpace(req.Vibe)
	if vibe == "" {
		vibe = tpl.VibeFallback
	}

	replacer := strings.NewReplacer(
		"{partner}", partner,
		"{date}", date,
		"{vibe}", vibe,
	)
	return replacer.Replace(tpl.Subject), replacer.Replace(tpl.Body)
}
