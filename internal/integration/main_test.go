//go:build dev && integration

package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/poofware/mono-repo/backend/services/events-service/internal/config"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/migration"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/repositories"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/services"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/utils"
)

var (
	db  *pgxpool.Pool
	cfg *config.Config

	contactRepo   repositories.ContactRepository
	eventRepo     repositories.EventRepository
	rsvpRepo      repositories.RsvpRepository
	smsRepo       repositories.SMSMessageRepository
	rateLimitRepo repositories.RateLimitRepository

	gateway    services.SMSGateway
	contactSvc services.ContactService
	eventSvc   services.EventService
	rsvpSvc    services.RsvpService
	statusSvc  services.SMSStatusService
)

func TestMain(m *testing.M) {
	utils.InitLogger(config.AppName + "-integration")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL env var is missing")
	}
	if err := migration.Up(dbURL); err != nil {
		log.Fatalf("migrate up: %v", err)
	}

	var err error
	db, err = pgxpool.Connect(context.Background(), dbURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}

	cfg = &config.Config{
		AppName:                config.AppName,
		DBUrl:                  dbURL,
		VerificationCodeLength: config.VerificationCodeLength,
		RateLimitWindow:        config.DefaultRateLimitWindow,
	}

	contactRepo = repositories.NewContactRepository(db)
	eventRepo = repositories.NewEventRepository(db)
	rsvpRepo = repositories.NewRsvpRepository(db)
	smsRepo = repositories.NewSMSMessageRepository(db)
	rateLimitRepo = repositories.NewRateLimitRepository(db)

	gateway = services.NewSMSGateway(smsRepo, services.NewRecordOnlyDispatcher(), nil)
	contactSvc = services.NewContactService(contactRepo, gateway, cfg)
	eventSvc = services.NewEventService(eventRepo)
	rsvpSvc = services.NewRsvpService(rsvpRepo, contactRepo, eventSvc)
	statusSvc = services.NewSMSStatusService(smsRepo)

	code := m.Run()
	db.Close()
	os.Exit(code)
}
