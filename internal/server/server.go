package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"gymdesk/internal/announcement"
	"gymdesk/internal/auth"
	"gymdesk/internal/broadcast"
	"gymdesk/internal/checkin"
	"gymdesk/internal/config"
	"gymdesk/internal/email"
	"gymdesk/internal/gym"
	"gymdesk/internal/member"
	"gymdesk/internal/owner"
	"gymdesk/internal/plan"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RequestLoggingMiddleware())

	gymService := gym.NewService(gym.NewRepository(db), cfg.DefaultSessionHours, cfg.DefaultMaxCapacity)
	planRepo := plan.NewRepository(db)
	memberRepo := member.NewRepository(db)
	memberService := member.NewService(memberRepo, planRepo)
	checkinService := checkin.NewService(checkin.NewRepository(db), memberRepo, gymService, emailService)
	broadcastService := broadcast.NewService(memberRepo, gymService, emailService, cfg.BroadcastWorkers)
	announcementService := announcement.NewService(announcement.NewRepository(db), broadcastService)
	ownerService := owner.NewService(owner.NewRepository(db), cfg.JWTSecret)

	ownerHandler := owner.NewHandler(ownerService)
	gymHandler := gym.NewHandler(gymService)
	planHandler := plan.NewHandler(planRepo)
	memberHandler := member.NewHandler(memberService)
	checkinHandler := checkin.NewHandler(checkinService)
	broadcastHandler := broadcast.NewHandler(broadcastService)
	announcementHandler := announcement.NewHandler(announcementService)

	public := router.Group("/auth")
	public.Use(RateLimitMiddleware(5, 10))
	{
		public.POST("/register", ownerHandler.Register)
		public.POST("/login", ownerHandler.Login)
		public.POST("/refresh", ownerHandler.RefreshToken)
	}

	// Kiosk endpoints run unauthenticated on the gym floor; rate
	// limiting is the only gate.
	kiosk := router.Group("/kiosk")
	kiosk.Use(RateLimitMiddleware(10, 20))
	{
		kiosk.POST("/gyms/:gymID/checkin", checkinHandler.CheckIn)
		kiosk.GET("/gyms/:gymID/occupancy", checkinHandler.Occupancy)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", ownerHandler.GetMe)
	}

	ownerOnly := auth.RequireRole("owner")
	admin := router.Group("/admin")
	admin.Use(authMiddleware, ownerOnly)
	{
		admin.POST("/gyms", gymHandler.CreateGym)
		admin.GET("/gyms", gymHandler.ListGyms)
		admin.GET("/gyms/:gymID", gymHandler.GetGym)
		admin.PATCH("/gyms/:gymID/settings", gymHandler.UpdateSettings)

		admin.POST("/gyms/:gymID/plans", planHandler.CreatePlan)
		admin.GET("/gyms/:gymID/plans", planHandler.ListPlans)

		admin.POST("/gyms/:gymID/members", memberHandler.Register)
		admin.GET("/gyms/:gymID/members", memberHandler.ListMembers)
		admin.GET("/gyms/:gymID/members/:memberID", memberHandler.GetMember)
		admin.PATCH("/gyms/:gymID/members/:memberID/plan", memberHandler.ChangePlan)
		admin.PATCH("/gyms/:gymID/members/:memberID/status", memberHandler.SetStatus)
		admin.POST("/gyms/:gymID/members/:memberID/renew", memberHandler.Renew)
		admin.DELETE("/gyms/:gymID/members/:memberID", memberHandler.DeleteMember)

		admin.GET("/gyms/:gymID/checkins", checkinHandler.RecentSessions)

		admin.POST("/gyms/:gymID/members/bulk-status", broadcastHandler.BulkSetStatus)
		admin.POST("/gyms/:gymID/members/bulk-email", broadcastHandler.BulkSendEmail)

		admin.POST("/gyms/:gymID/announcements", announcementHandler.Publish)
		admin.GET("/gyms/:gymID/announcements", announcementHandler.List)
	}

	router.GET("/health", Health)
	router.GET("/test-email", TestEmail(emailService))
	router.GET("/metrics", Metrics())

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
