package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"

	"github.com/poofware/mono-repo/backend/services/events-service/internal/utils"
)

// Config holds all application configuration, including secrets, flags, etc.
type Config struct {
	AppName                  string
	AppPort                  string
	AppUrl                   string
	DBUrl                    string
	TwilioAccountSID         string
	TwilioAuthToken          string
	TwilioStatusCallbackURL  string
	TwilioWebhookURL         string
	VerificationCodeLength   int
	VerificationCodeTTL      time.Duration
	SMSLimitPerNumberPerHour int
	GlobalSMSLimitPerHour    int
	RateLimitWindow          time.Duration
	LDSDKKey                 string

	// Static flags. Seeded from the environment, then overridden by
	// LaunchDarkly when LD_SDK_KEY is set.
	LDFlag_TwilioFromPhone         string
	LDFlag_ValidateTwilioSignature bool
	LDFlag_CORSHighSecurity        bool
}

const (
	DefaultAppPort                  = "8000"
	DefaultAppUrl                   = "*"
	VerificationCodeLength          = 6
	// SMS limits are opt-in; zero disables the limiter.
	DefaultSMSLimitPerNumberPerHour = 0
	DefaultGlobalSMSLimitPerHour    = 0
	DefaultRateLimitWindow          = 1 * time.Hour
	LDConnectionTimeout             = 5 * time.Second
)

// Global compile-time overrides.
var (
	AppName             = "events-service"
	LDServerContextKey  = "events-service"
	LDServerContextKind = "service"
)

// LoadConfig reads the environment and, when configured, snapshots the
// LaunchDarkly flags. Any invalid value is fatal.
func LoadConfig() *Config {
	utils.Logger.Info("Loading config for app: ", AppName)

	cfg, err := loadFromEnv(os.Getenv)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Invalid configuration")
	}

	if cfg.LDSDKKey != "" {
		if err := applyLaunchDarklyFlags(cfg); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to load LaunchDarkly flags")
		}
	} else {
		utils.Logger.Info("LD_SDK_KEY not set; using environment values for static flags")
	}

	if !cfg.TwilioEnabled() {
		utils.Logger.Warn("Twilio credentials incomplete; SMS will be recorded as queued and not sent")
	}
	utils.Logger.Debugf("App can be accessed at: %s", cfg.AppUrl)

	return cfg
}

func loadFromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		AppName:                  AppName,
		AppPort:                  firstNonEmpty(getenv("APP_PORT"), getenv("PORT"), DefaultAppPort),
		AppUrl:                   firstNonEmpty(getenv("APP_URL_FROM_ANYWHERE"), DefaultAppUrl),
		DBUrl:                    getenv("DATABASE_URL"),
		TwilioAccountSID:         strings.TrimSpace(getenv("TWILIO_ACCOUNT_SID")),
		TwilioAuthToken:          strings.TrimSpace(getenv("TWILIO_AUTH_TOKEN")),
		TwilioStatusCallbackURL:  strings.TrimSpace(getenv("TWILIO_STATUS_WEBHOOK")),
		TwilioWebhookURL:         strings.TrimSpace(getenv("TWILIO_WEBHOOK_URL")),
		VerificationCodeLength:   VerificationCodeLength,
		SMSLimitPerNumberPerHour: DefaultSMSLimitPerNumberPerHour,
		GlobalSMSLimitPerHour:    DefaultGlobalSMSLimitPerHour,
		RateLimitWindow:          DefaultRateLimitWindow,
		LDSDKKey:                 strings.TrimSpace(getenv("LD_SDK_KEY")),
		LDFlag_TwilioFromPhone:   strings.TrimSpace(getenv("TWILIO_FROM_NUMBER")),
	}

	if cfg.DBUrl == "" {
		return nil, fmt.Errorf("DATABASE_URL env var is missing")
	}

	if v := getenv("TWILIO_VALIDATE_WEBHOOK_SIGNATURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("TWILIO_VALIDATE_WEBHOOK_SIGNATURE: %w", err)
		}
		cfg.LDFlag_ValidateTwilioSignature = b
	}
	if v := getenv("VERIFICATION_CODE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("VERIFICATION_CODE_TTL: %w", err)
		}
		if d < 0 {
			return nil, fmt.Errorf("VERIFICATION_CODE_TTL must not be negative")
		}
		cfg.VerificationCodeTTL = d
	}
	if v := getenv("SMS_LIMIT_PER_NUMBER_PER_HOUR"); v != "" {
		n, err := parseLimit("SMS_LIMIT_PER_NUMBER_PER_HOUR", v)
		if err != nil {
			return nil, err
		}
		cfg.SMSLimitPerNumberPerHour = n
	}
	if v := getenv("GLOBAL_SMS_LIMIT_PER_HOUR"); v != "" {
		n, err := parseLimit("GLOBAL_SMS_LIMIT_PER_HOUR", v)
		if err != nil {
			return nil, err
		}
		cfg.GlobalSMSLimitPerHour = n
	}

	if cfg.LDFlag_ValidateTwilioSignature && cfg.TwilioAuthToken == "" {
		return nil, fmt.Errorf("TWILIO_VALIDATE_WEBHOOK_SIGNATURE requires TWILIO_AUTH_TOKEN")
	}

	return cfg, nil
}

func applyLaunchDarklyFlags(cfg *Config) error {
	ldClient, err := ld.MakeClient(cfg.LDSDKKey, LDConnectionTimeout)
	if err != nil {
		return fmt.Errorf("create LaunchDarkly client: %w", err)
	}
	defer ldClient.Close()

	if !ldClient.Initialized() {
		return fmt.Errorf("LaunchDarkly client failed to initialize")
	}

	context := ldcontext.NewWithKind(ldcontext.Kind(LDServerContextKind), LDServerContextKey)

	twilioFromPhoneFlag, err := ldClient.StringVariation("twilio_from_phone", context, cfg.LDFlag_TwilioFromPhone)
	if err != nil {
		return fmt.Errorf("twilio_from_phone flag: %w", err)
	}
	if twilioFromPhoneFlag != "" {
		cfg.LDFlag_TwilioFromPhone = twilioFromPhoneFlag
	}
	utils.Logger.Debugf("twilio_from_phone flag: %s", cfg.LDFlag_TwilioFromPhone)

	validateSigFlag, err := ldClient.BoolVariation("validate_twilio_signature", context, cfg.LDFlag_ValidateTwilioSignature)
	if err != nil {
		return fmt.Errorf("validate_twilio_signature flag: %w", err)
	}
	if validateSigFlag && cfg.TwilioAuthToken == "" {
		return fmt.Errorf("validate_twilio_signature is on but TWILIO_AUTH_TOKEN is missing")
	}
	cfg.LDFlag_ValidateTwilioSignature = validateSigFlag
	utils.Logger.Debugf("validate_twilio_signature flag: %t", validateSigFlag)

	corsHighSecurity, err := ldClient.BoolVariation("cors_high_security", context, cfg.LDFlag_CORSHighSecurity)
	if err != nil {
		return fmt.Errorf("cors_high_security flag: %w", err)
	}
	cfg.LDFlag_CORSHighSecurity = corsHighSecurity
	utils.Logger.Debugf("cors_high_security flag: %t", corsHighSecurity)

	return nil
}

// TwilioEnabled reports whether the provider client can be built. Without
// it the SMS gateway runs record-only.
func (c *Config) TwilioEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.LDFlag_TwilioFromPhone != ""
}

// RateLimitingEnabled is false when both hourly limits are zero.
func (c *Config) RateLimitingEnabled() bool {
	return c.SMSLimitPerNumberPerHour > 0 || c.GlobalSMSLimitPerHour > 0
}

// Close cleans up any resources used by Config.
func (c *Config) Close() {
}

func parseLimit(name, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must not be negative", name)
	}
	return n, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
