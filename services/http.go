package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/rs/zerolog/log"

	docs "github.com/peerlaunch/launchpad_api/docs"
	"github.com/peerlaunch/launchpad_api/middleware"
	"github.com/peerlaunch/launchpad_api/services/handlers"
	"github.com/peerlaunch/launchpad_api/services/rpc"
	"github.com/peerlaunch/launchpad_api/services/timeout"
	"github.com/peerlaunch/launchpad_api/shared"
)

// healthTimeout bypasses the policy table.
const healthTimeout = 2 * time.Minute

type HttpService struct {
	context.DefaultService

	port        int
	corsOrigins string

	app *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	svc.corsOrigins = envOr("CORS_ORIGINS", "*")

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	jwtSvc := svc.Service(JWT_SVC).(*JWTService)
	dbSvc := svc.Service(DATABASE_SVC).(*DatabaseService)
	rateLimitSvc := svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	monitoringSvc, _ := svc.Service(MONITORING_SVC).(*MonitoringService)

	authHandler := handlers.NewAuthHandler(svc.Service(AUTH_SVC).(*AuthService), jwtSvc)
	mediaHandler := handlers.NewMediaHandler(svc.Service(MEDIA_SVC).(*MediaService), MaxImageSize)

	components := map[string]handlers.Pinger{"database": dbSvc}
	if redisSvc, ok := svc.Service(REDIS_SVC).(*RedisService); ok {
		components["redis"] = redisSvc
	}
	if minioSvc, ok := svc.Service(MINIO_SVC).(*MinIOService); ok {
		components["storage"] = minioSvc
	}
	healthHandler := handlers.NewHealthHandler(components)

	enforcer := timeout.NewEnforcer()
	router := svc.newRouter(enforcer, monitoringSvc)
	healthHandler.Register(router)
	handlers.NewUserHandler(svc.Service(USER_SVC).(*UserService)).Register(router)
	handlers.NewProductHandler(svc.Service(PRODUCT_SVC).(*ProductService)).Register(router)
	handlers.NewReviewHandler(svc.Service(REVIEW_SVC).(*ReviewService)).Register(router)
	handlers.NewCommentHandler(svc.Service(COMMENT_SVC).(*CommentService)).Register(router)
	handlers.NewActivityHandler(
		svc.Service(REPORT_SVC).(*ReportService),
		svc.Service(ANALYTICS_SVC).(*AnalyticsService),
		svc.Service(WAITLIST_SVC).(*WaitlistService),
	).Register(router)

	app := fiber.New(fiber.Config{
		AppName:               SERVICE_NAME,
		Immutable:             true,
		DisableStartupMessage: true,
		BodyLimit:             MaxImageSize + 1024*1024,
		JSONEncoder:           shared.JSON.Marshal,
		JSONDecoder:           shared.JSON.Unmarshal,
		ErrorHandler:          svc.HandleError,
	})

	docs.SwaggerInfo.BasePath = ""
	app.Use(recover.New())
	if os.Getenv("LOG_LEVEL") == "TRACE" {
		app.Use(logger.New())
	}
	app.Use(svc.corsMiddleware())
	if monitoringSvc != nil {
		app.Use(MonitoringMiddleware(monitoringSvc))
	}

	authMw := middleware.NewAuthMiddleware(jwtSvc)
	transport := middleware.NewTimeoutMiddleware(enforcer, func(route string) {
		if monitoringSvc != nil {
			monitoringSvc.RecordTimeout(route, LayerTransport)
		}
	})

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/health", transport.Transport(healthTimeout, healthHandler.Health))

	auth := app.Group("/api/auth")
	auth.Post("/register", middleware.RateLimit(rateLimitSvc, LimitRegister), transport.Transport(timeout.Light, authHandler.Register))
	auth.Post("/login", middleware.RateLimit(rateLimitSvc, LimitLogin), transport.Transport(timeout.Light, authHandler.Login))
	auth.Get("/session", authMw.RequiredAuth(), transport.Transport(timeout.Light, authHandler.Session))

	upload := app.Group("/api/upload", authMw.RequiredAuth())
	upload.Post("/image", middleware.RateLimit(rateLimitSvc, LimitUpload), transport.Transport(timeout.ModerateHeavy, mediaHandler.UploadImage))

	app.All("/rpc/*", authMw.OptionalAuth(), middleware.RateLimit(rateLimitSvc, LimitAPIGeneral), router.Handler())

	app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseNotFound(c)
	})

	svc.app = app
	log.Info().Int("port", svc.port).Int("procedures", len(router.Paths())).Msg("HTTP server starting")
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

// newRouter builds the RPC router. Every call is logged, measured, and
// raced against the policy bucket for its route key.
func (svc *HttpService) newRouter(enforcer *timeout.Enforcer, monitoringSvc *MonitoringService) *rpc.Router {
	interceptors := []rpc.Interceptor{rpc.LoggingInterceptor()}
	if monitoringSvc != nil {
		interceptors = append(interceptors, rpc.MetricsInterceptor(monitoringSvc.RecordProcedure))
	}
	interceptors = append(interceptors, rpc.TimeoutInterceptor(timeout.Default(), enforcer, func(routeKey string) {
		if monitoringSvc != nil {
			monitoringSvc.RecordTimeout(routeKey, LayerRPC)
		}
	}))
	return rpc.NewRouter(interceptors...)
}

func (svc *HttpService) corsMiddleware() fiber.Handler {
	cfg := cors.Config{
		AllowOrigins: svc.corsOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}
	// fiber refuses credentials with a wildcard origin
	if svc.corsOrigins != "*" {
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.Shutdown()
	}
}

// HandleError renders any error that escapes a handler.
func (svc *HttpService) HandleError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return shared.ResponseJSON(c, fe.Code, fe.Message, nil)
	}

	if _, ok := shared.GetAppError(err); !ok {
		log.Error().Err(err).Str("path", c.Path()).Msg("Unhandled request error")
	}
	return shared.ResponseError(c, err)
}
