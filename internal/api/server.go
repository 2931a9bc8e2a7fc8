package api

import (
	"context"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/Toms422/trial-master-pro/docs"
	v1 "github.com/Toms422/trial-master-pro/internal/api/handler/v1"
	"github.com/Toms422/trial-master-pro/internal/api/middleware"
	"github.com/Toms422/trial-master-pro/internal/config"
	"github.com/Toms422/trial-master-pro/internal/domain"
	"github.com/Toms422/trial-master-pro/internal/repository"
	"github.com/Toms422/trial-master-pro/internal/repository/dao"
	"github.com/Toms422/trial-master-pro/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	auditSvc := s.initAuditService(db)
	authHandler := s.initAuthHandler(db)
	userHandler := s.initUserHandler(db, auditSvc)
	stationHandler := s.initStationHandler(db, auditSvc)
	trialDayHandler := s.initTrialDayHandler(db, auditSvc)
	participantHandler, checkInHandler := s.initParticipantHandlers(db, auditSvc)
	auditHandler := v1.NewAuditHandler(auditSvc)
	dashboardHandler := v1.NewDashboardHandler(auditSvc)
	go dashboardHandler.Run(context.Background())

	s.MountHandlers(authHandler, userHandler, stationHandler, trialDayHandler,
		participantHandler, checkInHandler, auditHandler, dashboardHandler)

	return s
}

func (s *Server) initAuditService(db *gorm.DB) *service.AuditService {
	auditDAO := dao.NewAuditLogDAO(db)
	repo := repository.NewAuditLogRepository(auditDAO)
	svc := service.NewAuditService(repo)

	return svc
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB, auditSvc *service.AuditService) *v1.UserHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewUserService(repo, auditSvc)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) initStationHandler(db *gorm.DB, auditSvc *service.AuditService) *v1.StationHandler {
	stationDAO := dao.NewStationDAO(db)
	repo := repository.NewStationRepository(stationDAO)
	svc := service.NewStationService(repo, auditSvc)
	handler := v1.NewStationHandler(svc)

	return handler
}

func (s *Server) initTrialDayHandler(db *gorm.DB, auditSvc *service.AuditService) *v1.TrialDayHandler {
	trialDayDAO := dao.NewTrialDayDAO(db)
	repo := repository.NewTrialDayRepository(trialDayDAO)
	svc := service.NewTrialDayService(repo, auditSvc)
	handler := v1.NewTrialDayHandler(svc)

	return handler
}

func (s *Server) initParticipantHandlers(db *gorm.DB, auditSvc *service.AuditService) (*v1.ParticipantHandler, *v1.CheckInHandler) {
	participantDAO := dao.NewParticipantDAO(db)
	repo := repository.NewParticipantRepository(participantDAO)
	trialDayRepo := repository.NewTrialDayRepository(dao.NewTrialDayDAO(db))
	trialDaySvc := service.NewTrialDayService(trialDayRepo, auditSvc)
	notifier := service.NewWhatsAppNotifier(s.Config.API.PublicBaseURL)
	svc := service.NewParticipantService(repo, trialDayRepo, auditSvc, notifier)

	return v1.NewParticipantHandler(s.Config.API, svc, trialDaySvc), v1.NewCheckInHandler(svc)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	stationHandler *v1.StationHandler,
	trialDayHandler *v1.TrialDayHandler,
	participantHandler *v1.ParticipantHandler,
	checkInHandler *v1.CheckInHandler,
	auditHandler *v1.AuditHandler,
	dashboardHandler *v1.DashboardHandler,
) {
	const basePath = "/api/v1"

	verifyJWT := middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT()

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", authHandler.HandleSignup)
		public.POST("/auth/login", authHandler.HandleLogin)
		// The QR token in the path is the only credential on these two.
		public.GET("/check-in/:qrCode", checkInHandler.HandleGetCheckIn)
		public.POST("/check-in/:qrCode", checkInHandler.HandleSubmitCheckIn)
	}

	admin := s.Router.Group(basePath, verifyJWT, middleware.RequireRoles(domain.RoleAdmin))
	{
		admin.GET("/stations", stationHandler.HandleListStations)
		admin.POST("/stations", stationHandler.HandleCreateStation)
		admin.PUT("/stations/:stationID", stationHandler.HandleUpdateStation)
		admin.DELETE("/stations/:stationID", stationHandler.HandleDeleteStation)

		admin.GET("/users", userHandler.HandleListUsers)
		admin.GET("/users/:userID", userHandler.HandleGetUser)
		admin.POST("/users", userHandler.HandleCreateUser)
		admin.PUT("/users/:userID", userHandler.HandleUpdateUser)
		admin.DELETE("/users/:userID", userHandler.HandleDeleteUser)
	}

	operators := s.Router.Group(basePath, verifyJWT, middleware.RequireRoles(domain.RoleAdmin, domain.RoleOperator))
	{
		operators.GET("/trial-days", trialDayHandler.HandleListTrialDays)
		operators.GET("/trial-days/:trialDayID", trialDayHandler.HandleGetTrialDay)
		operators.POST("/trial-days", trialDayHandler.HandleCreateTrialDay)
		operators.PUT("/trial-days/:trialDayID", trialDayHandler.HandleUpdateTrialDay)
		operators.DELETE("/trial-days/:trialDayID", trialDayHandler.HandleDeleteTrialDay)

		operators.GET("/participants", participantHandler.HandleListParticipants)
		operators.GET("/participants/:participantID", participantHandler.HandleGetParticipant)
		operators.POST("/participants", participantHandler.HandleRegisterParticipant)
		operators.PUT("/participants/:participantID", participantHandler.HandleUpdateParticipant)
		operators.DELETE("/participants/:participantID", participantHandler.HandleDeleteParticipant)
		operators.POST("/participants/bulk-delete", participantHandler.HandleBulkDeleteParticipants)
		operators.POST("/participants/:participantID/arrive", participantHandler.HandleMarkArrived)
		operators.POST("/participants/:participantID/complete-trial", participantHandler.HandleMarkTrialCompleted)
		operators.GET("/participants/:participantID/whatsapp-link", participantHandler.HandleWhatsAppLink)
		operators.GET("/participants/:participantID/export", participantHandler.HandleExportParticipantINI)
		operators.GET("/participants/export/ini", participantHandler.HandleExportTrialDayINI)

		operators.GET("/dashboard/stats", participantHandler.HandleTrialDayStats)
		operators.GET("/dashboard/feed", dashboardHandler.HandleActivityFeed)
	}

	auditors := s.Router.Group(basePath, verifyJWT, middleware.RequireRoles(domain.RoleAdmin, domain.RoleQAViewer))
	{
		auditors.GET("/audit", auditHandler.HandleListAuditLog)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Trial Master Pro API"
	docs.SwaggerInfo.Description = "Clinical trial participant administration API."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
