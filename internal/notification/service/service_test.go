package service

import (
	"context"
	"errors"
	"testing"

	"github.com/saquib05/valentine-site/internal/config"
	"github.com/saquib05/valentine-site/internal/notification/domain"
	proposaldomain "github.com/saquib05/valentine-site/internal/proposal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// -- Mocks --

type proposalMock struct {
	mock.Mock
}

func (m *proposalMock) GetByID(ctx context.Context, id string) (proposaldomain.Proposal, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(proposaldomain.Proposal), args.Error(1)
}

func (m *proposalMock) Create(context.Context, proposaldomain.CreateProposalRequest) (proposaldomain.Proposal, error) {
	return proposaldomain.Proposal{}, nil
}
func (m *proposalMock) ConfirmPayment(context.Context, string) (proposaldomain.ConfirmPaymentResponse, error) {
	return proposaldomain.ConfirmPaymentResponse{}, nil
}
func (m *proposalMock) ResolveShare(context.Context, string) (proposaldomain.Proposal, error) {
	return proposaldomain.Proposal{}, nil
}

type mailMock struct {
	configured bool
	sendErr    error

	calls    int
	lastTo   []string
	lastSubj string
	lastBody string
}

func (m *mailMock) Configured() bool { return m.configured }

func (m *mailMock) Send(ctx context.Context, to []string, subject string, htmlBody string) (string, error) {
	m.calls++
	m.lastTo = to
	m.lastSubj = subject
	m.lastBody = htmlBody
	if m.sendErr != nil {
		return "", m.sendErr
	}
	return "msg-123", nil
}

// -- Tests --

func newTestService(t *testing.T, proposals *proposalMock, mail *mailMock) domain.Service {
	t.Helper()
	holder, err := config.NewNotificationTemplateHolder()
	require.NoError(t, err)

	return New(Params{
		Log:       zap.NewNop(),
		Proposals: proposals,
		Mail:      mail,
		Template:  holder,
	})
}

func TestNotifyAcceptance_SubstitutesFormValues(t *testing.T) {
	proposals := &proposalMock{}
	proposals.On("GetByID", mock.Anything, "42").Return(proposaldomain.Proposal{
		ID:           42,
		PartnerName:  "Aisha",
		CreatorEmail: "saquib@example.com",
	}, nil)
	mail := &mailMock{configured: true}
	svc := newTestService(t, proposals, mail)

	res, err := svc.NotifyAcceptance(context.Background(), domain.NotifyAcceptanceRequest{
		ProposalID: "42",
		Vibe:       "dinner",
		WhenFree:   "2025-02-14T19:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "msg-123", res.MessageID)
	assert.Equal(t, 1, mail.calls)
	assert.Equal(t, []string{"saquib@example.com"}, mail.lastTo)
	assert.Equal(t, "She said YES! 💘", mail.lastSubj)
	assert.Equal(t, "Congrats! Aisha accepted your proposal. Date: 2025-02-14T19:00, Vibe: dinner.", mail.lastBody)
}

func TestNotifyAcceptance_AppliesFallbacks(t *testing.T) {
	proposals := &proposalMock{}
	proposals.On("GetByID", mock.Anything, "42").Return(proposaldomain.Proposal{
		ID:           42,
		CreatorEmail: "saquib@example.com",
	}, nil)
	mail := &mailMock{configured: true}
	svc := newTestService(t, proposals, mail)

	_, err := svc.NotifyAcceptance(context.Background(), domain.NotifyAcceptanceRequest{ProposalID: "42"})
	require.NoError(t, err)
	assert.Equal(t, "Congrats! Your partner accepted your proposal. Date: TBD, Vibe: Surprise!.", mail.lastBody)
}

func TestNotifyAcceptance_PartnerNameOverrideWins(t *testing.T) {
	proposals := &proposalMock{}
	proposals.On("GetByID", mock.Anything, "42").Return(proposaldomain.Proposal{
		ID:           42,
		PartnerName:  "Aisha",
		CreatorEmail: "saquib@example.com",
	}, nil)
	mail := &mailMock{configured: true}
	svc := newTestService(t, proposals, mail)

	_, err := svc.NotifyAcceptance(context.Background(), domain.NotifyAcceptanceRequest{
		ProposalID:          "42",
		PartnerNameOverride: "A.",
	})
	require.NoError(t, err)
	assert.Contains(t, mail.lastBody, "A. accepted")
}

func TestNotifyAcceptance_MissingCreatorEmail(t *testing.T) {
	proposals := &proposalMock{}
	proposals.On("GetByID", mock.Anything, "42").Return(proposaldomain.Proposal{ID: 42}, nil)
	mail := &mailMock{configured: true}
	svc := newTestService(t, proposals, mail)

	_, err := svc.NotifyAcceptance(context.Background(), domain.NotifyAcceptanceRequest{ProposalID: "42"})
	assert.ErrorIs(t, err, domain.ErrNoCreatorEmail)
	assert.Zero(t, mail.calls)
}

func TestNotifyAcceptance_NotConfigured(t *testing.T) {
	proposals := &proposalMock{}
	proposals.On("GetByID", mock.Anything, "42").Return(proposaldomain.Proposal{
		ID:           42,
		CreatorEmail: "saquib@example.com",
	}, nil)
	mail := &mailMock{configured: false}
	svc := newTestService(t, proposals, mail)

	_, err := svc.NotifyAcceptance(context.Background(), domain.NotifyAcceptanceRequest{ProposalID: "42"})
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
	assert.Zero(t, mail.calls)
}

func TestNotifyAcceptance_UpstreamFailure(t *testing.T) {
	proposals := &proposalMock{}
	proposals.On("GetByID", mock.Anything, "42").Return(proposaldomain.Proposal{
		ID:           42,
		CreatorEmail: "saquib@example.com",
	}, nil)
	mail := &mailMock{configured: true, sendErr: errors.New("connection refused")}
	svc := newTestService(t, proposals, mail)

	_, err := svc.NotifyAcceptance(context.Background(), domain.NotifyAcceptanceRequest{ProposalID: "42"})
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestNotifyAcceptance_UnknownProposal(t *testing.T) {
	proposals := &proposalMock{}
	proposals.On("GetByID", mock.Anything, "404").Return(proposaldomain.Proposal{}, proposaldomain.ErrNotFound)
	mail := &mailMock{configured: true}
	svc := newTestService(t, proposals, mail)

	_, err := svc.NotifyAcceptance(context.Background(), domain.NotifyAcceptanceRequest{ProposalID: "404"})
	assert.ErrorIs(t, err, proposaldomain.ErrNotFound)
	assert.Zero(t, mail.calls)
}
