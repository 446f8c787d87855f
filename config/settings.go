package config

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Origins always allowed by CORS in production. Browsers send the host
// lowercased, so the GitHub Pages origin is stored that way.
const (
	ProductionFrontend  = "https://trypostulate.com"
	GitHubPagesFrontend = "https://aliabouelazm.github.io"
)

// Settings is the process-wide configuration. It is loaded once at startup
// and handed to the components that need it.
type Settings struct {
	Port        string `envconfig:"SERVER_PORT" default:"3001"`
	GinMode     string `envconfig:"GIN_MODE" default:"debug"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	DebugSQL    bool   `envconfig:"DEBUG_SQL" default:"false"`
	AutoMigrate bool   `envconfig:"AUTO_MIGRATE" default:"true"`
	QuietSQL    bool   `ignored:"true"` // set by tools that only want SQL warnings
	LogDir      string `envconfig:"LOG_DIR" default:"logs"`

	// DB
	DBDriver    string `envconfig:"DB_DRIVER" default:"mysql"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	DBHost      string `envconfig:"DB_HOST" default:"127.0.0.1"`
	DBPort      string `envconfig:"DB_PORT" default:"3306"`
	DBDatabase  string `envconfig:"DB_DATABASE" default:"postulate"`
	DBUsername  string `envconfig:"DB_USERNAME" default:"root"`
	DBPassword  string `envconfig:"DB_PASSWORD"`

	// JWT
	JWTSecret      string `envconfig:"JWT_SECRET"`
	JWTExpireHours int    `envconfig:"JWT_EXPIRE_HOURS" default:"168"`
	BcryptCost     int    `envconfig:"BCRYPT_COST" default:"10"`

	// SMTP
	SMTPHost          string        `envconfig:"SMTP_HOST"`
	SMTPPort          int           `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser          string        `envconfig:"SMTP_USER"`
	SMTPPass          string        `envconfig:"SMTP_PASS"`
	SMTPFrom          string        `envconfig:"SMTP_FROM"` // e.g. "postulate.ai <no-reply@trypostulate.com>"
	SMTPSkipTLSVerify bool          `envconfig:"SMTP_SKIP_TLS_VERIFY" default:"false"`
	SMTPTimeout       time.Duration `envconfig:"SMTP_TIMEOUT" default:"15s"`
	NotificationEmail string        `envconfig:"NOTIFICATION_EMAIL" default:"trypostulate@gmail.com"`

	// CORS
	FrontendURL string   `envconfig:"FRONTEND_URL" default:"http://localhost:5173"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS"`

	// Events
	RabbitURL      string `envconfig:"RABBIT_URL"`
	RabbitExchange string `envconfig:"RABBIT_EXCHANGE" default:"postulate.events"`

	// Tracing
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"postulate-api"`
}

// LoadSettings reads .env (when present) and the process environment.
func LoadSettings() (Settings, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if s.BcryptCost <= 0 {
		s.BcryptCost = 10
	}
	if s.JWTExpireHours <= 0 {
		s.JWTExpireHours = 168
	}
	return s, nil
}

func (s Settings) IsProduction() bool {
	return strings.EqualFold(s.Environment, "production")
}

// LogFile is the application log inside LogDir.
func (s Settings) LogFile() string {
	dir := strings.TrimSpace(s.LogDir)
	if dir == "" {
		dir = "logs"
	}
	return filepath.Join(dir, "postulate-api.log")
}

// TokenTTL is the lifetime of issued access tokens.
func (s Settings) TokenTTL() time.Duration {
	return time.Duration(s.JWTExpireHours) * time.Hour
}

// AllowedOrigins returns the CORS allow-list. Outside production only the
// configured frontend is allowed.
func (s Settings) AllowedOrigins() []string {
	frontend := strings.TrimRight(strings.TrimSpace(s.FrontendURL), "/")
	if !s.IsProduction() {
		return []string{frontend}
	}

	seen := map[string]bool{}
	var origins []string
	for _, o := range append([]string{frontend, ProductionFrontend, GitHubPagesFrontend}, s.CORSOrigins...) {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		origins = append(origins, o)
	}
	return origins
}

// MySQLDSN builds the go-sql-driver DSN. clientFoundRows makes UPDATE report
// matched rows, which the conditional status updates rely on.
func (s Settings) MySQLDSN() string {
	dsn := s.DatabaseURL
	if dsn == "" {
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			s.DBUsername,
			s.DBPassword,
			s.DBHost,
			s.DBPort,
			s.DBDatabase,
		)
	}
	if !strings.Contains(dsn, "clientFoundRows=") {
		if strings.Contains(dsn, "?") {
			dsn += "&clientFoundRows=true"
		} else {
			dsn += "?clientFoundRows=true"
		}
	}
	return dsn
}

// CheckServer reports settings the HTTP server cannot start without.
func (s Settings) CheckServer() error {
	if strings.TrimSpace(s.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if s.IsProduction() && len(s.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
	}
	return nil
}

func (s Settings) MailConfigured() bool {
	return s.SMTPHost != "" && s.SMTPFrom != ""
}
