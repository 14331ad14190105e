package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port     string `mapstructure:"PORT"`
	Env      string `mapstructure:"ENV"`
	AuthMode string `mapstructure:"AUTH_MODE"`

	// Vacío => storage in-memory (modo dev).
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL"`

	ReceiptsBucket string `mapstructure:"RECEIPTS_S3_BUCKET"`
	AWSRegion      string `mapstructure:"AWS_REGION"`
	SESFromEmail   string `mapstructure:"SES_FROM_EMAIL"`

	// Nombre impreso en los recibos.
	HospitalName string `mapstructure:"HOSPITAL_NAME"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
	AppName   string `mapstructure:"APP_NAME"`
}

var keys = []string{
	"PORT", "ENV", "AUTH_MODE", "DATABASE_URL",
	"JWT_SECRET", "JWT_TTL",
	"RECEIPTS_S3_BUCKET", "AWS_REGION", "SES_FROM_EMAIL", "HOSPITAL_NAME",
	"LOG_LEVEL", "LOG_FORMAT", "APP_NAME",
}

// Load lee .env (si existe) y luego variables de entorno.
func Load() (*Config, error) {
	// .env es opcional; en App Runner/Lambda todo viene por env.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("AUTH_MODE", "")
	v.SetDefault("JWT_TTL", "12h")
	v.SetDefault("AWS_REGION", "eu-central-1")
	v.SetDefault("HOSPITAL_NAME", "Vet Hospital")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("APP_NAME", "vet-hospital")

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	cfg.AuthMode = strings.ToLower(strings.TrimSpace(cfg.AuthMode))

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ResolvedAuthMode: si AUTH_MODE viene explícito se respeta; si no,
// development => "dev" (X-Debug-User-ID) y el resto => "jwt".
func (c *Config) ResolvedAuthMode() string {
	if c.AuthMode != "" {
		return c.AuthMode
	}
	if c.IsDev() {
		return "dev"
	}
	return "jwt"
}

func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
}

func (c *Config) Validate() error {
	mode := c.ResolvedAuthMode()
	if mode != "dev" && mode != "jwt" {
		return fmt.Errorf("AUTH_MODE must be \"dev\" or \"jwt\", got %q", mode)
	}
	if mode == "jwt" && len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 bytes when AUTH_MODE=jwt")
	}
	if c.IsProduction() {
		if mode == "dev" {
			return errors.New("AUTH_MODE=dev is not allowed in production")
		}
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required in production")
		}
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	return nil
}
