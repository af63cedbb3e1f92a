package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"voting-service/internal/api/handlers"
	"voting-service/internal/api/middleware"
	"voting-service/internal/services"
)

type Router struct {
	engine          *gin.Engine
	sessionHandler  *handlers.SessionHandler
	voteHandler     *handlers.VoteHandler
	resultsHandler  *handlers.ResultsHandler
	verifyHandler   *handlers.VerifyHandler
	auditHandler    *handlers.AuditHandler
	rateLimitMW     *middleware.RateLimitMiddleware
	authMW          *middleware.AuthMiddleware
	verifyRateLimit int
}

func NewRouter(
	sessionService *services.SessionService,
	castingService *services.CastingService,
	tabulationService *services.TabulationService,
	verificationService *services.VerificationService,
	auditService *services.AuditService,
	redisService *services.RedisService,
	jwtSecret string,
	verifyRateLimit int,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS())
	engine.Use(middleware.LogApi())

	return &Router{
		engine:          engine,
		sessionHandler:  handlers.NewSessionHandler(sessionService),
		voteHandler:     handlers.NewVoteHandler(castingService),
		resultsHandler:  handlers.NewResultsHandler(tabulationService),
		verifyHandler:   handlers.NewVerifyHandler(verificationService),
		auditHandler:    handlers.NewAuditHandler(auditService),
		rateLimitMW:     middleware.NewRateLimitMiddleware(redisService),
		authMW:          middleware.NewAuthMiddleware(jwtSecret),
		verifyRateLimit: verifyRateLimit,
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.engine.Group("/api/v1")

	// Public routes. Verification is deliberately unauthenticated and
	// rate-limited per caller address against code brute-forcing.
	api.POST("/voting/verify",
		r.rateLimitMW.RateLimitIP(r.verifyRateLimit, time.Minute),
		r.verifyHandler.VerifyVote,
	)
	api.GET("/sessions/:id/options", r.sessionHandler.ListOptions)
	api.GET("/sessions/:id/results", r.resultsHandler.GetResults)

	// Vote casting resolves identity when a token is present; anonymous
	// ballots are a per-session decision made by the casting engine.
	api.POST("/sessions/:id/votes", r.authMW.OptionalAuth(), r.voteHandler.CastVote)

	// Organizer routes.
	auth := api.Group("/")
	auth.Use(r.authMW.RequireAuth())
	{
		sessions := auth.Group("/sessions")
		{
			sessions.POST("", r.sessionHandler.CreateSession)
			sessions.GET("", r.sessionHandler.ListSessions)
			sessions.GET("/:id", r.sessionHandler.GetSession)
			sessions.PUT("/:id", r.sessionHandler.UpdateSession)
			sessions.DELETE("/:id", r.sessionHandler.DeleteSession)
			sessions.POST("/:id/options", r.sessionHandler.AddOption)
			sessions.PUT("/:id/options/:optionID", r.sessionHandler.UpdateOption)
			sessions.DELETE("/:id/options/:optionID", r.sessionHandler.DeleteOption)
			sessions.POST("/:id/eligibility", r.sessionHandler.AddEligibility)
			sessions.GET("/:id/eligibility", r.sessionHandler.ListEligibility)
			sessions.POST("/:id/activate", r.sessionHandler.ActivateSession)
			sessions.POST("/:id/close", r.sessionHandler.CloseSession)
			sessions.POST("/:id/void", r.sessionHandler.VoidSession)
			sessions.GET("/:id/audit", r.auditHandler.VerifyChain)
			sessions.GET("/:id/votes/me", r.voteHandler.HasVoted)
		}
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
