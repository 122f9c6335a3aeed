package main

import (
	"context"
	"fmt"
	"log"

	common_api "flowdash/internal/common/api"
	"flowdash/internal/config"
	"flowdash/internal/database"
	"flowdash/internal/features/audit"
	"flowdash/internal/features/contact"
	cron_feature "flowdash/internal/features/cron"
	"flowdash/internal/features/dashboard"
	"flowdash/internal/features/flow"
	"flowdash/internal/features/group"
	"flowdash/internal/features/report"
	"flowdash/internal/features/results"
	sync_feature "flowdash/internal/features/sync"
	"flowdash/internal/features/system"
	"flowdash/internal/logger"
	"flowdash/internal/middleware"
	"flowdash/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			utils.SetSecret(cfg.JWTSecret)
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,

			// Repositories
			audit.NewAuditRepository,
			flow.NewFlowRepository,
			group.NewGroupRepository,
			contact.NewContactRepository,
			report.NewReportRepository,
			sync_feature.NewSyncSettingRepository,
			sync_feature.NewSyncLogRepository,
			cron_feature.NewCronRepository,

			// Services
			audit.NewAuditService,
			flow.NewFlowService,
			group.NewGroupService,
			contact.NewContactService,
			report.NewReportService,
			results.NewResultsService,
			sync_feature.NewSyncService,
			cron_feature.NewCronService,
			dashboard.NewSessionManager,
			dashboard.NewDashboardService,

			// Event hub for live session mirrors
			system.NewEventHub,
			func(h *system.EventHub) dashboard.EventPublisher { return h },

			// Controllers
			audit.NewAuditController,
			flow.NewFlowController,
			group.NewGroupController,
			contact.NewContactController,
			report.NewReportController,
			sync_feature.NewSyncController,
			cron_feature.NewCronController,
			dashboard.NewDashboardController,
			system.NewDebugController,
			system.NewWebSocketController,

			// API Routes
			AsRoute(audit.NewAuditApi),
			AsRoute(flow.NewFlowApi),
			AsRoute(group.NewGroupApi),
			AsRoute(contact.NewContactApi),
			AsRoute(report.NewReportApi),
			AsRoute(sync_feature.NewSyncApi),
			AsRoute(cron_feature.NewCronApi),
			AsRoute(dashboard.NewDashboardApi),
			AsRoute(system.NewDebugApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewWebSocketApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, cronService cron_feature.CronService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return cronService.InitializeScheduler(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return cronService.StopScheduler()
					},
				})
			},
		),
	)

	app.Run()
}
