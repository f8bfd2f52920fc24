package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env           string `yaml:"env" env:"APP_ENV" env-default:"local"`
	HTTPServer    `yaml:"http_server"`
	Database      `yaml:"database"`
	Auth          `yaml:"auth"`
	Kafka         `yaml:"kafka"`
	Notifications `yaml:"notifications"`
	Log           `yaml:"log"`
}

type HTTPServer struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:""`
	Port            string        `yaml:"port" env:"PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
	AllowedOrigins  []string      `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-default:"http://localhost:3000"`
}

type Database struct {
	Driver         string `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"`
	DSN            string `yaml:"dsn" env:"DB_URL"`
	MigrationsPath string `yaml:"migrations_path" env:"DB_MIGRATIONS_PATH" env-default:"migrations"`
	AutoMigrate    bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"false"`
	Seed           bool   `yaml:"seed" env:"DB_SEED" env-default:"false"`
}

type Auth struct {
	JWTSecret      string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	SessionSecret  string        `yaml:"session_secret" env:"SESSION_SECRET"`
	TokenTTL       time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"720h"`
	SuperadminPass string        `yaml:"superadmin_password" env:"SUPERADMIN_PASSWORD" env-default:"admin123"`
}

type Kafka struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS"`
	Topic   string   `yaml:"topic" env:"KAFKA_ORDER_TOPIC" env-default:"order-events"`
}

type Notifications struct {
	WebhookURL   string `yaml:"webhook_url" env:"ORDER_WEBHOOK_URL"`
	SMTPAddress  string `yaml:"smtp_address" env:"SMTP_ADDRESS"`
	SMTPHost     string `yaml:"smtp_host" env:"FROM_EMAIL_SMTP"`
	FromEmail    string `yaml:"from_email" env:"FROM_EMAIL"`
	FromPassword string `yaml:"from_password" env:"FROM_EMAIL_PASSWORD"`
	SESRegion    string `yaml:"ses_region" env:"AWS_SES_REGION"`
	AWSKeyID     string `yaml:"aws_access_key_id" env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey string `yaml:"aws_secret_access_key" env:"AWS_SECRET_ACCESS_KEY"`
	TemplatePath string `yaml:"template_path" env:"ORDER_EMAIL_TEMPLATE" env-default:"templates/new_order.html"`
	FrontendURL  string `yaml:"frontend_url" env:"FRONTEND_URL" env-default:"http://localhost:3000"`
}

type Log struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// MustLoad reads the YAML file named by CONFIG_PATH when it is set and
// falls back to the process environment otherwise.
func MustLoad() *Config {
	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			log.Fatalf("failed to find config file: %v\n", err)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			log.Fatalf("failed to read config: %v\n", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("failed to read env config: %v\n", err)
	}

	if cfg.DSN == "" {
		log.Fatalf("database dsn is not set\n")
	}
	if cfg.JWTSecret == "" {
		log.Fatalf("JWT_SECRET is not set\n")
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = cfg.JWTSecret
	}

	return &cfg
}

func (h HTTPServer) Address() string {
	return h.Host + ":" + h.Port
}
