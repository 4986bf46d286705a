package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/saquib05/valentine-site/internal/config"
	notificationdomain "github.com/saquib05/valentine-site/internal/notification/domain"
	"github.com/saquib05/valentine-site/internal/observability"
	obsmiddleware "github.com/saquib05/valentine-site/internal/observability/logger"
	obsmetrics "github.com/saquib05/valentine-site/internal/observability/metrics"
	obstracing "github.com/saquib05/valentine-site/internal/observability/tracing"
	proposaldomain "github.com/saquib05/valentine-site/internal/proposal/domain"
	"github.com/saquib05/valentine-site/internal/ratelimit"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine) {
	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	genID           *snowflake.Node
	proposalSvc     proposaldomain.Service
	notificationSvc notificationdomain.Service
	obsMetrics      *obsmetrics.Metrics
	shareLimiter    *ratelimit.ShareLimiter
	shareMemLimiter *rateLimiter
	confirmLimiter  *rateLimiter
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	GenID           *snowflake.Node
	ProposalSvc     proposaldomain.Service
	NotificationSvc notificationdomain.Service
	ObsMetrics      *obsmetrics.Metrics     `optional:"true"`
	ShareLimiter    *ratelimit.ShareLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		proposalSvc:     p.ProposalSvc,
		notificationSvc: p.NotificationSvc,
		obsMetrics:      p.ObsMetrics,
		shareLimiter:    p.ShareLimiter,
		shareMemLimiter: newRateLimiter(120, time.Minute),
		confirmLimiter:  newRateLimiter(30, time.Minute),
	}

	svc.registerAPIRoutes()
	svc.registerShareRoutes()
	svc.RegisterDevPaymentRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(RequestID())

	api.POST("/proposals", s.CreateProposal)
	api.GET("/proposals/:id", s.GetProposal)
	api.POST("/send-invitation", s.SendInvitation)
}

func (s *Server) registerShareRoutes() {
	share := s.engine.Group("/v")
	share.Use(RequestID())

	share.GET("/:slug", s.ShareRateLimit(), s.ResolveShare)
}
