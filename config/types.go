package config

import (
	"sort"
	"time"
)

type PostgreSQLConfig struct {
	DBHost     string
	DBName     string
	DBPort     string
	DBUsername string
	DBPassword string
	SSLMode    string
}

type JWTConfig struct {
	JWTSecret string
	JWTKid    string
	TTL       time.Duration
}

type KafkaConfig struct {
	BrokerAddress   string
	BrokerTopic     string
	BrokerPartition int
}

type TracingConfig struct {
	CollectorHost string
	ServiceName   string
}

type InvoicingConfig struct {
	BaseURL           string
	TokenURL          string
	ClientID          string
	ClientSecret      string
	RefreshToken      string
	OrganizationID    string
	AuthScheme        string
	RequestsPerMinute int
	Timeout           time.Duration
	PaymentTermsDays  int
}

type SMTPConfig struct {
	Host           string
	Port           int
	Username       string
	Password       string
	FromAddress    string
	FromName       string
	AdminRecipient string
	RetryBaseDelay time.Duration
}

type ExchangeRateConfig struct {
	APIURL string
	TTL    time.Duration
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
