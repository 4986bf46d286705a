package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saquib05/valentine-site/internal/observability/logger"
	"go.uber.org/zap"
)

// RegisterDevPaymentRoutes adds the simulated payment confirmation
// endpoint. Outside production the route exists; the service still refuses
// it unless simulation mode is on.
func (s *Server) RegisterDevPaymentRoutes() {
	if s.cfg.Environment == "production" {
		return
	}

	dev := s.engine.Group("/api")
	dev.Use(RequestID())

	dev.POST("/dev-verify-payment", s.ConfirmPaymentRateLimit(), s.DevVerifyPayment)
}

type DevVerifyPaymentRequest struct {
	ProposalID string `json:"proposalId"`
}

func (s *Server) DevVerifyPayment(c *gin.Context) {
	var req DevVerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	res, err := s.proposalSvc.ConfirmPayment(c.Request.Context(), req.ProposalID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"share_slug": res.ShareSlug.Value()})
}

func (s *Server) ConfirmPaymentRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if s.shareLimiter.Enabled() {
			allowed, err := s.shareLimiter.AllowConfirmPayment(ctx, c.ClientIP())
			if err != nil {
				logger.FromContext(ctx).Warn("confirm payment rate limit check failed", zap.Error(err))
				AbortWithError(c, ErrServiceUnavailable)
				return
			}
			if !allowed {
				s.obsMetrics.RecordRateLimitDenied(ctx, "confirm_payment")
				AbortWithError(c, ErrRateLimited)
				return
			}
		} else if !s.confirmLimiter.Allow(c.ClientIP()) {
			s.obsMetrics.RecordRateLimitDenied(ctx, "confirm_payment")
			AbortWithError(c, ErrRateLimited)
			return
		}

		c.Next()
	}
}
