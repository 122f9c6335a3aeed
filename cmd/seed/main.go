package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"flowdash/internal/config"
	"flowdash/internal/database"
	"flowdash/internal/features/audit"
	"flowdash/internal/features/contact"
	"flowdash/internal/features/flow"
	"flowdash/internal/features/group"
	"flowdash/internal/logger"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Seed loads demo flows, groups and contacts into the seed collections.
func Seed(
	lc fx.Lifecycle,
	flowRepo flow.FlowRepository,
	groupRepo group.GroupRepository,
	contactRepo contact.ContactRepository,
	groupService group.GroupService,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				logger.Info("Starting demo data seeding")

				readJSON := func(path string, v interface{}) error {
					b, err := os.ReadFile(path)
					if err != nil {
						return err
					}
					return json.Unmarshal(b, v)
				}

				var flows []flow.Flow
				if err := readJSON("cmd/seed/data/flows.json", &flows); err != nil {
					logger.Fatal("Failed to read flows.json", zap.Error(err))
				}
				for i := range flows {
					if err := flowRepo.Upsert(ctx, &flows[i]); err != nil {
						logger.Error("Failed to upsert flow", zap.String("uuid", flows[i].UUID), zap.Error(err))
					}
				}
				logger.Info("Flows seeded", zap.Int("count", len(flows)))

				var groups []group.Group
				if err := readJSON("cmd/seed/data/groups.json", &groups); err != nil {
					logger.Fatal("Failed to read groups.json", zap.Error(err))
				}
				for i := range groups {
					if err := groupRepo.Upsert(ctx, &groups[i]); err != nil {
						logger.Error("Failed to upsert group", zap.String("uuid", groups[i].UUID), zap.Error(err))
					}
				}
				logger.Info("Groups seeded", zap.Int("count", len(groups)))

				var contacts []contact.Contact
				if err := readJSON("cmd/seed/data/contacts.json", &contacts); err != nil {
					logger.Fatal("Failed to read contacts.json", zap.Error(err))
				}
				for i := range contacts {
					if err := contactRepo.Upsert(ctx, &contacts[i]); err != nil {
						logger.Error("Failed to upsert contact", zap.String("uuid", contacts[i].UUID), zap.Error(err))
					}
				}
				logger.Info("Contacts seeded", zap.Int("count", len(contacts)))

				if refreshed, err := groupService.RefreshCounts(ctx); err != nil {
					logger.Error("Failed to refresh group counts", zap.Error(err))
				} else {
					logger.Info("Group counts refreshed", zap.Int("count", refreshed))
				}

				logger.Info("Seeding complete")
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			audit.NewAuditRepository,
			audit.NewAuditService,
			flow.NewFlowRepository,
			group.NewGroupRepository,
			contact.NewContactRepository,
			group.NewGroupService,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}

	<-app.Done()
}
