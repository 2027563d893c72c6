package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App           AppConfig
	HTTP          ServerConfig
	MySQL         MySQLConfig
	Log           LogConfig
	Adyen         AdyenConfig
	Commerce      CommerceConfig
	Checkout      CheckoutConfig
	Notifications NotificationsConfig
	Jobs          JobsConfig
}

type AppConfig struct {
	ServiceName string
}

type ServerConfig struct {
	Host string
	Port string
}

type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

type AdyenConfig struct {
	APIKey          string
	MerchantAccount string
	ClientKey       string
	Environment     string
	CheckoutBaseURL string
	HMACKey         string
	WebhookUser     string
	WebhookPassword string
	HTTPTimeout     time.Duration
}

type CommerceConfig struct {
	ShopBaseURL  string
	AdminBaseURL string
	SiteID       string
	ClientID     string
	ClientSecret string
	TokenURL     string
	HTTPTimeout  time.Duration
}

type CheckoutConfig struct {
	ReturnURL          string
	ApplicationName    string
	ApplicationVersion string
}

type NotificationsConfig struct {
	JobBatchSize  int32
	RetentionDays int
}

type JobsConfig struct {
	ProcessInterval time.Duration
	CleanupInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}
	adyenAPIKey := os.Getenv("ADYEN_API_KEY")
	if adyenAPIKey == "" {
		return nil, errors.New("ADYEN_API_KEY environment variable is required")
	}
	merchantAccount := os.Getenv("ADYEN_MERCHANT_ACCOUNT")
	if merchantAccount == "" {
		return nil, errors.New("ADYEN_MERCHANT_ACCOUNT environment variable is required")
	}

	// The webhook endpoint must never run unprotected.
	hmacKey := os.Getenv("ADYEN_HMAC_KEY")
	webhookUser := os.Getenv("ADYEN_WEBHOOK_USER")
	webhookPassword := os.Getenv("ADYEN_WEBHOOK_PASSWORD")
	if hmacKey == "" && (webhookUser == "" || webhookPassword == "") {
		return nil, errors.New("webhook credentials are required: set ADYEN_HMAC_KEY or both ADYEN_WEBHOOK_USER and ADYEN_WEBHOOK_PASSWORD")
	}

	environment := strings.ToUpper(getEnv("ADYEN_ENVIRONMENT", "TEST"))
	checkoutBaseURL := getEnv("ADYEN_CHECKOUT_BASE_URL", defaultCheckoutBaseURL(environment))

	return &Config{
		App: AppConfig{
			ServiceName: getEnv("APP_SERVICE_NAME", "checkout-service"),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8080"),
		},
		MySQL: MySQLConfig{
			DSN:             mysqlDSN,
			MaxOpenConns:    getIntEnv("MYSQL_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("MYSQL_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getMinutesEnv("MYSQL_CONN_MAX_LIFETIME_MINUTES", 30*time.Minute),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Adyen: AdyenConfig{
			APIKey:          adyenAPIKey,
			MerchantAccount: merchantAccount,
			ClientKey:       getEnv("ADYEN_CLIENT_KEY", ""),
			Environment:     environment,
			CheckoutBaseURL: checkoutBaseURL,
			HMACKey:         hmacKey,
			WebhookUser:     webhookUser,
			WebhookPassword: webhookPassword,
			HTTPTimeout:     getSecondsEnv("ADYEN_HTTP_TIMEOUT_SECONDS", 10*time.Second),
		},
		Commerce: CommerceConfig{
			ShopBaseURL:  getEnv("COMMERCE_SHOP_BASE_URL", ""),
			AdminBaseURL: getEnv("COMMERCE_ADMIN_BASE_URL", ""),
			SiteID:       getEnv("COMMERCE_SITE_ID", ""),
			ClientID:     getEnv("COMMERCE_CLIENT_ID", ""),
			ClientSecret: getEnv("COMMERCE_CLIENT_SECRET", ""),
			TokenURL:     getEnv("COMMERCE_TOKEN_URL", ""),
			HTTPTimeout:  getSecondsEnv("COMMERCE_HTTP_TIMEOUT_SECONDS", 10*time.Second),
		},
		Checkout: CheckoutConfig{
			ReturnURL:          getEnv("CHECKOUT_RETURN_URL", ""),
			ApplicationName:    getEnv("CHECKOUT_APPLICATION_NAME", "ms-go-checkout"),
			ApplicationVersion: getEnv("CHECKOUT_APPLICATION_VERSION", ""),
		},
		Notifications: NotificationsConfig{
			JobBatchSize:  int32(getIntEnv("NOTIFICATIONS_JOB_BATCH_SIZE", 100)),
			RetentionDays: getIntEnv("NOTIFICATIONS_RETENTION_DAYS", 30),
		},
		Jobs: JobsConfig{
			ProcessInterval: getMinutesEnv("NOTIFICATIONS_PROCESS_INTERVAL_MINUTES", time.Minute),
			CleanupInterval: getMinutesEnv("NOTIFICATIONS_CLEANUP_INTERVAL_MINUTES", 60*time.Minute),
		},
	}, nil
}

func defaultCheckoutBaseURL(environment string) string {
	if environment == "LIVE" {
		return "https://checkout-live.adyen.com/v71"
	}
	return "https://checkout-test.adyen.com/v71"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getMinutesEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
