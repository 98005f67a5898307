package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/aulanet/aulanet-api/internal/handler"
	"github.com/aulanet/aulanet-api/internal/middleware"
	"github.com/aulanet/aulanet-api/internal/models"
	"github.com/aulanet/aulanet-api/internal/repository"
	"github.com/aulanet/aulanet-api/internal/service"
	"github.com/aulanet/aulanet-api/pkg/cache"
	"github.com/aulanet/aulanet-api/pkg/config"
	"github.com/aulanet/aulanet-api/pkg/database"
	"github.com/aulanet/aulanet-api/pkg/logger"
	reqidmiddleware "github.com/aulanet/aulanet-api/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, report caching disabled", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	validate := validator.New()
	if err := service.RegisterValidators(validate); err != nil {
		logr.Sugar().Fatalw("validator registration failed", "error", err)
	}

	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)
	reportRepo := repository.NewReportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret:      cfg.JWT.Secret,
		TokenExpiry:      cfg.JWT.Expiration,
		MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
	})
	classSvc := service.NewClassService(classRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, studentRepo, classRepo, teamRepo, cacheRepo, validate, logr)
	teamSvc := service.NewTeamService(teamRepo, studentRepo, validate, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, validate, logr)
	gradeSvc := service.NewGradeService(gradeRepo, assignmentRepo, cacheRepo, validate, logr)
	calendarSvc := service.NewCalendarService(calendarRepo, validate, logr)
	reportSvc := service.NewReportService(reportRepo, cacheRepo, metricsSvc, logr, cfg.Reports.CacheTTL)

	authHandler := handler.NewAuthHandler(authSvc)
	classHandler := handler.NewClassHandler(classSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	teamHandler := handler.NewTeamHandler(teamSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	gradeHandler := handler.NewGradeHandler(gradeSvc)
	calendarHandler := handler.NewCalendarHandler(calendarSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	api.Use(reqidmiddleware.Middleware())
	api.Use(logger.GinMiddleware(logr))
	api.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))
	api.Use(middleware.Metrics(metricsSvc))

	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	{
		staff := middleware.RequireRoles(models.RoleProfesor, models.RoleAdmin)
		adminOnly := middleware.RequireRoles(models.RoleAdmin)

		authed.POST("/auth/register", adminOnly, authHandler.Register)
		authed.GET("/auth/me", authHandler.Me)

		authed.GET("/clases", classHandler.List)
		authed.GET("/clases/:id", classHandler.Get)
		authed.POST("/clases", staff, classHandler.Create)
		authed.PUT("/clases/:id", staff, classHandler.Update)
		authed.DELETE("/clases/:id", staff, classHandler.Delete)
		authed.GET("/clases/:id/sesiones", classHandler.Sessions)
		authed.GET("/clases/:id/alumnos", studentHandler.ListByClass)
		authed.GET("/clases/:id/resumen-asistencia", attendanceHandler.ClassSummary)
		authed.GET("/clases/:id/equipos", teamHandler.ListByClass)
		authed.PUT("/clases/:id/equipos", staff, teamHandler.Replace)
		authed.GET("/clases/:id/equipos/disponibles", teamHandler.AvailableStudents)

		authed.POST("/alumnos", staff, studentHandler.Create)
		authed.PUT("/alumnos/:id", staff, studentHandler.Update)
		authed.DELETE("/alumnos/:id", adminOnly, studentHandler.Delete)

		authed.GET("/asistencias/clase/:id", attendanceHandler.ListByClass)
		authed.POST("/asistencias", staff, attendanceHandler.BulkSave)

		authed.POST("/equipos", staff, teamHandler.Create)
		authed.DELETE("/equipos/:id", staff, teamHandler.Delete)

		authed.GET("/tareas", assignmentHandler.List)
		authed.POST("/tareas", staff, assignmentHandler.Create)
		authed.PUT("/tareas/:id", staff, assignmentHandler.Update)
		authed.DELETE("/tareas/:id", staff, assignmentHandler.Delete)

		authed.GET("/calificaciones/alumno/:id", gradeHandler.ListByStudent)
		authed.GET("/calificaciones/tarea/:id", gradeHandler.ListByAssignment)
		authed.POST("/calificaciones", staff, gradeHandler.Upsert)

		authed.GET("/calendario/eventos", calendarHandler.List)
		authed.POST("/calendario/eventos", staff, calendarHandler.Create)
		authed.PUT("/calendario/eventos/:id", staff, calendarHandler.Update)
		authed.DELETE("/calendario/eventos/:id", staff, calendarHandler.Delete)

		authed.GET("/reportes/export/:tipo/:claseId", reportHandler.Export)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
