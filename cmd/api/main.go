package main

import (
	"context"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"

	_ "github.com/campuskit/student-mgmt-api/api/swagger"
	"github.com/campuskit/student-mgmt-api/internal/handler"
	"github.com/campuskit/student-mgmt-api/internal/repository"
	"github.com/campuskit/student-mgmt-api/internal/router"
	"github.com/campuskit/student-mgmt-api/internal/service"
	"github.com/campuskit/student-mgmt-api/pkg/cache"
	"github.com/campuskit/student-mgmt-api/pkg/config"
	"github.com/campuskit/student-mgmt-api/pkg/database"
	"github.com/campuskit/student-mgmt-api/pkg/logger"
)

// @title Student Management API
// @version 1.0.0
// @description Backend for student, course, enrollment and grade management
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		logr.Sugar().Fatalw("failed to apply schema", "error", err)
	}

	rdb, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer rdb.Close()

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	tokenRepo := repository.NewTokenRepository(rdb)

	metricsSvc := service.NewMetricsService()

	authSvc := service.NewAuthService(userRepo, tokenRepo, validate, logr, metricsSvc, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	studentSvc := service.NewStudentService(studentRepo, userRepo, validate, logr)
	adminSvc := service.NewAdminService(adminRepo, userRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, studentRepo, courseRepo, logr, metricsSvc)
	gradeSvc := service.NewGradeService(gradeRepo, enrollmentRepo, studentRepo, validate, logr, metricsSvc)
	exportSvc := service.NewExportService(gradeSvc, studentSvc, logr)

	r := router.New(router.Deps{
		Config:  cfg,
		Logger:  logr,
		DB:      db,
		Redis:   rdb,
		Auth:    authSvc,
		Metrics: metricsSvc,
		Handlers: router.Handlers{
			Auth:    handler.NewAuthHandler(authSvc),
			Admin:   handler.NewAdminHandler(adminSvc),
			Student: handler.NewStudentHandler(studentSvc, enrollmentSvc),
			Course:  handler.NewCourseHandler(courseSvc, enrollmentSvc),
			Grade:   handler.NewGradeHandler(gradeSvc, exportSvc),
		},
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
