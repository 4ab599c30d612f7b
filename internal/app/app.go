package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/twilio/twilio-go"

	"github.com/poofware/mono-repo/backend/services/events-service/internal/config"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/services"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/utils"
)

const (
	maxRetries     = 5
	connectTimeout = 5 * time.Second
	initialBackoff = 500 * time.Millisecond
)

type App struct {
	Config *config.Config
	DB     *pgxpool.Pool
	// Twilio is nil when credentials are incomplete.
	Twilio *twilio.RestClient
}

func NewApp(cfg *config.Config) (*App, error) {
	var (
		dbPool  *pgxpool.Pool
		err     error
		backoff = initialBackoff
	)

	for i := 1; i <= maxRetries; i++ {
		dbPool, err = connectOnce(cfg.DBUrl)
		if err == nil {
			utils.Logger.Infof("Successfully connected to database on attempt %d", i)
			break
		}

		utils.Logger.WithError(err).Warnf(
			"Failed to connect to database on attempt %d/%d. Retrying in %v...",
			i, maxRetries, backoff,
		)

		if i == maxRetries {
			return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", maxRetries, err)
		}

		time.Sleep(backoff)
		backoff *= 2
	}

	a := &App{
		Config: cfg,
		DB:     dbPool,
	}
	if cfg.TwilioEnabled() {
		a.Twilio = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
	}
	return a, nil
}

func connectOnce(databaseURL string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return newDBPool(ctx, databaseURL)
}

// SMSDispatcher picks the send strategy for the life of the process.
func (a *App) SMSDispatcher() services.Dispatcher {
	if a.Twilio == nil {
		utils.Logger.Warn("SMS dispatcher: record-only (no Twilio credentials)")
		return services.NewRecordOnlyDispatcher()
	}
	utils.Logger.Info("SMS dispatcher: twilio")
	return services.NewTwilioDispatcher(
		a.Twilio.Api,
		a.Config.LDFlag_TwilioFromPhone,
		a.Config.TwilioStatusCallbackURL,
	)
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
		utils.Logger.Info("Database connection closed.")
	}
}

// newDBPool constructs the pgx pool. Idle sockets are retired before
// hosted proxies drop them and every connection is health-checked.
func newDBPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	return pgxpool.ConnectConfig(ctx, cfg)
}
