package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"
	twilioClient "github.com/twilio/twilio-go/client"

	"github.com/poofware/mono-repo/backend/services/events-service/internal/app"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/config"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/controllers"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/middleware"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/repositories"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/routes"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/services"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()
	defer cfg.Close()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize application:", err)
	}
	defer application.Close()

	//----------------------------------------------------------------------
	// Repositories
	//----------------------------------------------------------------------
	contactRepo := repositories.NewContactRepository(application.DB)
	eventRepo := repositories.NewEventRepository(application.DB)
	rsvpRepo := repositories.NewRsvpRepository(application.DB)
	smsRepo := repositories.NewSMSMessageRepository(application.DB)
	rateLimitRepo := repositories.NewRateLimitRepository(application.DB)

	//----------------------------------------------------------------------
	// Services
	//----------------------------------------------------------------------
	var rateLimiterService services.RateLimiterService
	if cfg.RateLimitingEnabled() {
		rateLimiterService = services.NewRateLimiterService(rateLimitRepo, cfg)
	}

	smsGateway := services.NewSMSGateway(smsRepo, application.SMSDispatcher(), rateLimiterService)
	smsStatusService := services.NewSMSStatusService(smsRepo)
	contactService := services.NewContactService(contactRepo, smsGateway, cfg)
	eventService := services.NewEventService(eventRepo)
	rsvpService := services.NewRsvpService(rsvpRepo, contactRepo, eventService)

	verificationCleanupService := services.NewVerificationCleanupService(contactRepo, cfg.VerificationCodeTTL)
	rateLimitCleanupService := services.NewRateLimitCleanupService(rateLimitRepo)

	//----------------------------------------------------------------------
	// Controllers
	//----------------------------------------------------------------------
	var sigValidator controllers.SignatureValidator
	if cfg.LDFlag_ValidateTwilioSignature {
		v := twilioClient.NewRequestValidator(cfg.TwilioAuthToken)
		sigValidator = &v
	}

	contactController := controllers.NewContactController(contactService)
	eventController := controllers.NewEventController(eventService)
	rsvpController := controllers.NewRsvpController(rsvpService)
	smsWebhookController := controllers.NewSMSWebhookController(smsStatusService, sigValidator, cfg.TwilioWebhookURL)
	healthController := controllers.NewHealthController(application.DB)

	//----------------------------------------------------------------------
	// Router & Endpoints
	//----------------------------------------------------------------------
	router := mux.NewRouter()
	router.Use(middleware.Metrics)

	router.HandleFunc(routes.Root, healthController.RootHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)
	router.Handle(routes.Metrics, promhttp.Handler()).Methods(http.MethodGet)

	router.HandleFunc(routes.ContactsRegister, contactController.RegisterContact).Methods(http.MethodPost)
	router.HandleFunc(routes.ContactsVerifySend, contactController.SendVerification).Methods(http.MethodPost)
	router.HandleFunc(routes.ContactsVerifyConf, contactController.ConfirmVerification).Methods(http.MethodPost)
	router.HandleFunc(routes.ContactsBase, contactController.ListContacts).Methods(http.MethodGet)

	router.HandleFunc(routes.EventsBase, eventController.CreateEvent).Methods(http.MethodPost)
	router.HandleFunc(routes.EventsBase, eventController.ListEvents).Methods(http.MethodGet)

	router.HandleFunc(routes.RsvpsBase, rsvpController.UpsertRsvp).Methods(http.MethodPost)

	router.HandleFunc(routes.SMSWebhook, smsWebhookController.StatusCallback).Methods(http.MethodPost)

	//----------------------------------------------------------------------
	// Scheduled cleanup via cron
	//----------------------------------------------------------------------
	c := cron.New()

	if cfg.VerificationCodeTTL > 0 {
		_, schErr := c.AddFunc("@every 1m", func() {
			if e := verificationCleanupService.CleanupExpired(context.Background()); e != nil {
				utils.Logger.WithError(e).Error("Scheduled verification-code expiry failed")
			}
		})
		if schErr != nil {
			utils.Logger.WithError(schErr).Fatal("Failed to schedule verification-code expiry job")
		}
	}

	_, schErr := c.AddFunc("10 3 * * *", func() {
		if e := rateLimitCleanupService.CleanupDaily(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Scheduled rate limit counter cleanup failed")
		}
	})
	if schErr != nil {
		utils.Logger.WithError(schErr).Fatal("Failed to schedule rate limit counter cleanup job")
	}

	c.Start()
	defer c.Stop()

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("Failed to start server:", err)
	}
}
