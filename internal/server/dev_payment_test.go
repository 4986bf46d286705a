package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/saquib05/valentine-site/internal/config"
	proposaldomain "github.com/saquib05/valentine-site/internal/proposal/domain"
	"github.com/saquib05/valentine-site/internal/shareslug"
)

func newDevPaymentServer(environment string, proposalSvc *fakeProposalService) (*Server, *gin.Engine) {
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())

	srv := &Server{
		engine:         router,
		cfg:            config.Config{Environment: environment},
		proposalSvc:    proposalSvc,
		confirmLimiter: newRateLimiter(30, time.Minute),
	}
	srv.RegisterDevPaymentRoutes()
	return srv, router
}

func confirmRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/dev-verify-payment", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestDevVerifyPaymentReturnsSlug(t *testing.T) {
	gin.SetMode(gin.TestMode)

	slug, err := shareslug.Parse("AAAAbbbb1234")
	if err != nil {
		t.Fatal(err)
	}
	proposalSvc := &fakeProposalService{
		confirmResult: proposaldomain.ConfirmPaymentResponse{ShareSlug: slug, Minted: true},
	}
	_, router := newDevPaymentServer("development", proposalSvc)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, confirmRequest(`{"proposalId":"42"}`))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var payload map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["share_slug"] != "AAAAbbbb1234" {
		t.Fatalf("expected share slug, got %q", payload["share_slug"])
	}
	if proposalSvc.confirmCalls != 1 {
		t.Fatalf("expected one confirm call, got %d", proposalSvc.confirmCalls)
	}
}

func TestDevVerifyPaymentRouteAbsentInProduction(t *testing.T) {
	gin.SetMode(gin.TestMode)

	proposalSvc := &fakeProposalService{}
	_, router := newDevPaymentServer("production", proposalSvc)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, confirmRequest(`{"proposalId":"42"}`))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
	if proposalSvc.confirmCalls != 0 {
		t.Fatal("expected no confirm calls in production")
	}
}

func TestDevVerifyPaymentUnavailableOutsideSimulation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	proposalSvc := &fakeProposalService{confirmErr: proposaldomain.ErrPaymentUnavailable}
	_, router := newDevPaymentServer("development", proposalSvc)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, confirmRequest(`{"proposalId":"42"}`))

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
	payload := decodeError(t, resp)
	if payload.Error.Type != "payment_unavailable" {
		t.Fatalf("expected payment_unavailable, got %q", payload.Error.Type)
	}
}

func TestDevVerifyPaymentUnknownProposal(t *testing.T) {
	gin.SetMode(gin.TestMode)

	proposalSvc := &fakeProposalService{confirmErr: proposaldomain.ErrNotFound}
	_, router := newDevPaymentServer("development", proposalSvc)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, confirmRequest(`{"proposalId":"999"}`))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestDevVerifyPaymentRateLimited(t *testing.T) {
	gin.SetMode(gin.TestMode)

	slug, _ := shareslug.Parse("AAAAbbbb1234")
	proposalSvc := &fakeProposalService{
		confirmResult: proposaldomain.ConfirmPaymentResponse{ShareSlug: slug},
	}
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	srv := &Server{
		engine:         router,
		cfg:            config.Config{Environment: "development"},
		proposalSvc:    proposalSvc,
		confirmLimiter: newRateLimiter(1, time.Minute),
	}
	srv.RegisterDevPaymentRoutes()

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, confirmRequest(`{"proposalId":"42"}`))
	if resp.Code != http.StatusOK {
		t.Fatalf("first call: expected status 200, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, confirmRequest(`{"proposalId":"42"}`))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("second call: expected status 429, got %d", resp.Code)
	}
}
