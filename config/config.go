package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServicePort         string
	MetricsPort         string
	Environment         string
	PostgreSQLConfig    PostgreSQLConfig
	JWTConfig           JWTConfig
	KafkaConfig         KafkaConfig
	TracingConfig       TracingConfig
	InvoicingConfig     InvoicingConfig
	SMTPConfig          SMTPConfig
	ExchangeRateConfig  ExchangeRateConfig
	SyncInterval        time.Duration
	WebhookToken        string
	EmailRatePerMinute  int
	EmailRateBurst      int
	DefaultCurrencyCode string
	TrustedProxies      []string
}

func CreateNewConfig() *Config {
	godotenv.Load(".env")

	conf := Config{
		ServicePort: getEnv("SERVICE_PORT", "8080"),
		MetricsPort: getEnv("METRICS_PORT", "9090"),
		Environment: getEnv("ENVIRONMENT", "development"),
		PostgreSQLConfig: PostgreSQLConfig{
			DBHost:     os.Getenv("DB_HOST"),
			DBName:     os.Getenv("DB_NAME"),
			DBPort:     getEnv("DB_PORT", "5432"),
			DBUsername: os.Getenv("DB_USERNAME"),
			DBPassword: os.Getenv("DB_PASSWORD"),
			SSLMode:    getEnv("DB_SSL_MODE", "disable"),
		},
		JWTConfig: JWTConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			JWTKid:    getEnv("JWT_KID", "mechinweb"),
			TTL:       getDuration("JWT_TTL_HOURS", time.Hour, 24),
		},
		KafkaConfig: KafkaConfig{
			BrokerAddress:   os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:     getEnv("BROKER_TOPIC", "mechinweb-events"),
			BrokerPartition: getInt("BROKER_PARTITION", 0),
		},
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("COLLECTOR_HOST"),
			ServiceName:   getEnv("SERVICE_NAME", "mechinweb-service"),
		},
		InvoicingConfig: InvoicingConfig{
			BaseURL:           getEnv("INVOICING_API_URL", "https://www.zohoapis.com/invoice/v3"),
			TokenURL:          getEnv("INVOICING_TOKEN_URL", "https://accounts.zoho.com/oauth/v2/token"),
			ClientID:          os.Getenv("INVOICING_CLIENT_ID"),
			ClientSecret:      os.Getenv("INVOICING_CLIENT_SECRET"),
			RefreshToken:      os.Getenv("INVOICING_REFRESH_TOKEN"),
			OrganizationID:    os.Getenv("INVOICING_ORGANIZATION_ID"),
			AuthScheme:        getEnv("INVOICING_AUTH_SCHEME", "Zoho-oauthtoken"),
			RequestsPerMinute: getInt("INVOICING_REQUESTS_PER_MINUTE", 100),
			Timeout:           getDuration("INVOICING_TIMEOUT_SECONDS", time.Second, 15),
			PaymentTermsDays:  getInt("INVOICING_PAYMENT_TERMS_DAYS", 7),
		},
		SMTPConfig: SMTPConfig{
			Host:           os.Getenv("SMTP_HOST"),
			Port:           getInt("SMTP_PORT", 587),
			Username:       os.Getenv("SMTP_USERNAME"),
			Password:       os.Getenv("SMTP_PASSWORD"),
			FromAddress:    os.Getenv("SMTP_FROM_ADDRESS"),
			FromName:       getEnv("SMTP_FROM_NAME", "Mechinweb"),
			AdminRecipient: os.Getenv("ADMIN_EMAIL"),
			RetryBaseDelay: getDuration("SMTP_RETRY_BASE_DELAY_MS", time.Millisecond, 1000),
		},
		ExchangeRateConfig: ExchangeRateConfig{
			APIURL: getEnv("EXCHANGE_RATE_API_URL", "https://open.er-api.com/v6/latest/USD"),
			TTL:    getDuration("EXCHANGE_RATE_TTL_MINUTES", time.Minute, 60),
		},
		SyncInterval:        getDuration("SYNC_INTERVAL_SECONDS", time.Second, 300),
		WebhookToken:        os.Getenv("INVOICING_WEBHOOK_TOKEN"),
		EmailRatePerMinute:  getInt("EMAIL_RATE_PER_MINUTE", 5),
		EmailRateBurst:      getInt("EMAIL_RATE_BURST", 3),
		DefaultCurrencyCode: strings.ToUpper(getEnv("DEFAULT_CURRENCY", "USD")),
		TrustedProxies:      getList("TRUSTED_PROXIES"),
	}

	if conf.SMTPConfig.AdminRecipient == "" {
		conf.SMTPConfig.AdminRecipient = conf.SMTPConfig.FromAddress
	}

	return &conf
}

// Validate reports every required variable that is missing.
func (c *Config) Validate() error {
	required := map[string]string{
		"DB_HOST":                 c.PostgreSQLConfig.DBHost,
		"DB_NAME":                 c.PostgreSQLConfig.DBName,
		"DB_USERNAME":             c.PostgreSQLConfig.DBUsername,
		"JWT_SECRET":              c.JWTConfig.JWTSecret,
		"INVOICING_CLIENT_ID":     c.InvoicingConfig.ClientID,
		"INVOICING_CLIENT_SECRET": c.InvoicingConfig.ClientSecret,
		"INVOICING_REFRESH_TOKEN": c.InvoicingConfig.RefreshToken,
		"SMTP_HOST":               c.SMTPConfig.Host,
		"SMTP_FROM_ADDRESS":       c.SMTPConfig.FromAddress,
	}

	var missing []string
	for _, key := range sortedKeys(required) {
		if strings.TrimSpace(required[key]) == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// getList splits a comma separated variable, dropping empty entries.
func getList(key string) []string {
	var values []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func getDuration(key string, unit time.Duration, fallback int) time.Duration {
	return time.Duration(getInt(key, fallback)) * unit
}
