package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	proposaldomain "github.com/saquib05/valentine-site/internal/proposal/domain"
)

type CreateProposalRequest struct {
	PartnerName   string `json:"partner_name"`
	CreatorEmail  string `json:"creator_email"`
	Phone         string `json:"phone"`
	CustomMessage string `json:"custom_message"`
	PhotoURL      string `json:"photo_url"`
}

type ProposalResponse struct {
	ID            string `json:"id"`
	PartnerName   string `json:"partner_name"`
	CreatorEmail  string `json:"creator_email"`
	Phone         string `json:"phone"`
	CustomMessage string `json:"custom_message,omitempty"`
	PhotoURL      string `json:"photo_url,omitempty"`
	PaymentStatus string `json:"payment_status"`
	ShareSlug     string `json:"share_slug,omitempty"`
}

func toProposalResponse(p proposaldomain.Proposal) ProposalResponse {
	return ProposalResponse{
		ID:            p.ID.String(),
		PartnerName:   p.PartnerName,
		CreatorEmail:  p.CreatorEmail,
		Phone:         p.Phone,
		CustomMessage: p.CustomMessage,
		PhotoURL:      p.PhotoURL,
		PaymentStatus: string(p.PaymentStatus),
		ShareSlug:     p.Slug().Value(),
	}
}

func (s *Server) CreateProposal(c *gin.Context) {
	var req CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	proposal, err := s.proposalSvc.Create(c.Request.Context(), proposaldomain.CreateProposalRequest{
		PartnerName:   req.PartnerName,
		CreatorEmail:  req.CreatorEmail,
		Phone:         req.Phone,
		CustomMessage: req.CustomMessage,
		PhotoURL:      req.PhotoURL,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"proposalId": proposal.ID.String()})
}

func (s *Server) GetProposal(c *gin.Context) {
	proposal, err := s.proposalSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProposalResponse(proposal))
}
