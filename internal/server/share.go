package server

import (
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/saquib05/valentine-site/internal/evasion"
	"github.com/saquib05/valentine-site/internal/observability/logger"
	"go.uber.org/zap"
)

// ShareView is the recipient-facing projection of a proposal. Creator
// contact details never appear here.
type ShareView struct {
	PartnerName   string            `json:"partner_name"`
	CustomMessage string            `json:"custom_message,omitempty"`
	PhotoURL      string            `json:"photo_url,omitempty"`
	Control       *evasion.Position `json:"control,omitempty"`
}

func (s *Server) ShareRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if s.shareLimiter.Enabled() {
			allowed, err := s.shareLimiter.AllowShareResolve(ctx, c.ClientIP())
			if err != nil {
				logger.FromContext(ctx).Warn("share resolve rate limit check failed", zap.Error(err))
				AbortWithError(c, ErrServiceUnavailable)
				return
			}
			if !allowed {
				s.obsMetrics.RecordRateLimitDenied(ctx, "share_resolve")
				AbortWithError(c, ErrRateLimited)
				return
			}
		} else if !s.shareMemLimiter.Allow(c.ClientIP()) {
			s.obsMetrics.RecordRateLimitDenied(ctx, "share_resolve")
			AbortWithError(c, ErrRateLimited)
			return
		}

		c.Next()
	}
}

func (s *Server) ResolveShare(c *gin.Context) {
	proposal, err := s.proposalSvc.ResolveShare(c.Request.Context(), c.Param("slug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	view := ShareView{
		PartnerName:   proposal.PartnerName,
		CustomMessage: proposal.CustomMessage,
		PhotoURL:      proposal.PhotoURL,
	}

	// Seed the evading control's first position when the client reports its
	// viewport. Later moves are driven by pointer events on the client.
	if bounds, ok := viewportBounds(c); ok {
		control, err := evasion.NewController(bounds, rand.New(rand.NewSource(time.Now().UnixNano())))
		if err == nil {
			pos := control.Position()
			view.Control = &pos
		}
	}

	c.JSON(http.StatusOK, view)
}

func viewportBounds(c *gin.Context) (evasion.Bounds, bool) {
	w, errW := strconv.ParseFloat(c.Query("w"), 64)
	h, errH := strconv.ParseFloat(c.Query("h"), 64)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return evasion.Bounds{}, false
	}
	return evasion.Bounds{Width: w, Height: h}, true
}
