package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	notificationdomain "github.com/saquib05/valentine-site/internal/notification/domain"
)

type SendInvitationRequest struct {
	ProposalID  string `json:"proposalId"`
	Date        string `json:"date"`
	Vibe        string `json:"vibe"`
	PartnerName string `json:"partnerName"`
}

func (s *Server) SendInvitation(c *gin.Context) {
	var req SendInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	res, err := s.notificationSvc.NotifyAcceptance(c.Request.Context(), notificationdomain.NotifyAcceptanceRequest{
		ProposalID:          req.ProposalID,
		Vibe:                req.Vibe,
		WhenFree:            req.Date,
		PartnerNameOverride: req.PartnerName,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": res.MessageID})
}
