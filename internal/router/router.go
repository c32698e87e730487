package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/campuskit/student-mgmt-api/internal/handler"
	"github.com/campuskit/student-mgmt-api/internal/middleware"
	"github.com/campuskit/student-mgmt-api/internal/models"
	"github.com/campuskit/student-mgmt-api/internal/service"
	"github.com/campuskit/student-mgmt-api/pkg/config"
	"github.com/campuskit/student-mgmt-api/pkg/logger"
	corsmiddleware "github.com/campuskit/student-mgmt-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campuskit/student-mgmt-api/pkg/middleware/requestid"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Auth    *handler.AuthHandler
	Admin   *handler.AdminHandler
	Student *handler.StudentHandler
	Course  *handler.CourseHandler
	Grade   *handler.GradeHandler
}

// Deps carries everything New needs to assemble the engine.
type Deps struct {
	Config   *config.Config
	Logger   *zap.Logger
	DB       *sqlx.DB
	Redis    *redis.Client
	Auth     *service.AuthService
	Metrics  *service.MetricsService
	Handlers Handlers
}

// New assembles the gin engine with middleware, health probes and the
// versioned API surface.
func New(d Deps) *gin.Engine {
	if d.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(d.Logger))
	r.Use(corsmiddleware.New(d.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(d.Metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := d.DB.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
			return
		}
		if err := d.Redis.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	if d.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := middleware.JWT(d.Auth)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	adminOrSelf := middleware.RBAC(string(models.RoleAdmin), middleware.AllowSelf)

	api := r.Group(d.Config.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", d.Handlers.Auth.Login)
		auth.POST("/refresh", d.Handlers.Auth.Refresh)
		auth.POST("/logout", requireAuth, d.Handlers.Auth.Logout)
		auth.GET("/me", requireAuth, d.Handlers.Auth.Me)
	}

	admins := api.Group("/admins")
	{
		// Registration stays reachable without a token so the very first
		// admin can be created; the service forbids it afterwards.
		admins.POST("/register", middleware.OptionalJWT(d.Auth), d.Handlers.Admin.Register)
		admins.GET("", requireAuth, adminOnly, d.Handlers.Admin.List)
	}

	students := api.Group("/students")
	{
		students.POST("/register", requireAuth, adminOnly, d.Handlers.Student.Register)
		students.GET("", requireAuth, adminOnly, d.Handlers.Student.List)
		students.GET("/:id", requireAuth, adminOrSelf, d.Handlers.Student.Get)
		students.PUT("/:id", requireAuth, adminOrSelf, d.Handlers.Student.Update)
		students.DELETE("/:id", requireAuth, adminOnly, d.Handlers.Student.Delete)

		students.GET("/:id/courses", requireAuth, adminOrSelf, d.Handlers.Student.Courses)
		students.GET("/:id/grades", requireAuth, adminOrSelf, d.Handlers.Grade.Report)
		students.POST("/:id/grades", requireAuth, adminOnly, d.Handlers.Grade.Post)
		students.GET("/:id/cgpa", requireAuth, adminOrSelf, d.Handlers.Grade.CGPA)
		students.GET("/:id/transcript", requireAuth, adminOrSelf, d.Handlers.Grade.Transcript)
	}

	grades := api.Group("/grades", requireAuth, adminOnly)
	{
		grades.PUT("/:gradeId", d.Handlers.Grade.Update)
		grades.DELETE("/:gradeId", d.Handlers.Grade.Delete)
	}

	courses := api.Group("/courses", requireAuth, adminOnly)
	{
		courses.GET("", d.Handlers.Course.List)
		courses.GET("/:id", d.Handlers.Course.Get)
		courses.POST("", d.Handlers.Course.Create)
		courses.PUT("/:id", d.Handlers.Course.Update)
		courses.DELETE("/:id", d.Handlers.Course.Delete)

		courses.GET("/:id/students", d.Handlers.Course.Students)
		courses.POST("/:id/students/:studentId", d.Handlers.Course.Enroll)
		courses.DELETE("/:id/students/:studentId", d.Handlers.Course.Drop)
	}

	return r
}
