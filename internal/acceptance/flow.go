// Package acceptance holds the session-local state machine for one
// recipient view: asking until the accept action fires, accepted afterwards.
// Nothing here is persisted; the flow lives and dies with the view.
package acceptance

import (
	"context"
	"errors"
	"strings"

	"github.com/saquib05/valentine-site/internal/evasion"
	notificationdomain "github.com/saquib05/valentine-site/internal/notification/domain"
)

type State string

const (
	StateAsking   State = "asking"
	StateAccepted State = "accepted"
)

// ErrNotAccepted rejects a follow-up form submission while the flow is
// still asking.
var ErrNotAccepted = errors.New("not_accepted")

// Flow drives one recipient's path from asking to accepted. It owns the
// evading control and freezes it on acceptance, and it relays the follow-up
// form to the notification service. Single-actor state, no locking.
type Flow struct {
	proposalID string
	state      State
	control    *evasion.Controller
	celebrate  func()
	notifier   notificationdomain.Service

	vibe     string
	whenFree string
}

func NewFlow(proposalID string, control *evasion.Controller, celebrate func(), notifier notificationdomain.Service) *Flow {
	return &Flow{
		proposalID: proposalID,
		state:      StateAsking,
		control:    control,
		celebrate:  celebrate,
		notifier:   notifier,
	}
}

func (f *Flow) State() State {
	return f.state
}

// Accept transitions the flow to accepted and reports whether the
// transition happened. The celebration hook fires on the transition and
// never again; repeat calls are no-ops.
func (f *Flow) Accept() bool {
	if f.state == StateAccepted {
		return false
	}
	f.state = StateAccepted
	if f.control != nil {
		f.control.Freeze()
	}
	if f.celebrate != nil {
		f.celebrate()
	}
	return true
}

// PointerMove forwards a pointer event to the evading control while the
// flow is still asking.
func (f *Flow) PointerMove(px, py float64) bool {
	if f.state != StateAsking || f.control == nil {
		return false
	}
	return f.control.PointerMove(px, py)
}

// UpdateForm stores the follow-up form fields ahead of submission.
func (f *Flow) UpdateForm(vibe, whenFree string) {
	f.vibe = strings.TrimSpace(vibe)
	f.whenFree = strings.TrimSpace(whenFree)
}

func (f *Flow) Vibe() string     { return f.vibe }
func (f *Flow) WhenFree() string { return f.whenFree }

// Submit sends the follow-up form to the notification service. Each call
// is an independent delivery attempt; the form clears only on success so a
// failed attempt can be resubmitted as-is.
func (f *Flow) Submit(ctx context.Context) (string, error) {
	if f.state != StateAccepted {
		return "", ErrNotAccepted
	}

	res, err := f.notifier.NotifyAcceptance(ctx, notificationdomain.NotifyAcceptanceRequest{
		ProposalID: f.proposalID,
		Vibe:       f.vibe,
		WhenFree:   f.whenFree,
	})
	if err != nil {
		return "", err
	}

	f.vibe = ""
	f.whenFree = ""
	return res.MessageID, nil
}
