package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort        = "5050"
	defaultTokenTTL    = time.Hour
	defaultSMTPPort    = 587
	defaultMailTimeout = 10 * time.Second

	minTokenTTL = time.Hour
	maxTokenTTL = 2 * time.Hour
)

// Config is built once at startup and passed explicitly to the components
// that need it. Nothing reads the environment after Load returns.
type Config struct {
	DatabaseURL string
	Port        string

	AdminEmail    string
	AdminPassword string
	JWTSecret     string
	TokenTTL      time.Duration

	Mail        MailConfig
	CORSOrigins []string
}

type MailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	From         string
	Timeout      time.Duration
}

// Enabled reports whether an SMTP host was configured.
func (m MailConfig) Enabled() bool {
	return m.SMTPHost != ""
}

type missingEnvError struct {
	keys []string
}

func (e *missingEnvError) Error() string {
	return fmt.Sprintf("missing required env: %s", strings.Join(e.keys, ", "))
}

// Load reads the process environment. Call godotenv.Load first if a .env file
// should be honoured.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	var missing []string
	required := func(key string) string {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	optional := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		DatabaseURL:   required("DATABASE_URL"),
		AdminEmail:    required("ADMIN_EMAIL"),
		AdminPassword: getenv("ADMIN_PASSWORD"),
		JWTSecret:     required("JWT_SECRET"),
		Port:          optional("PORT", defaultPort),
		Mail: MailConfig{
			SMTPHost:     optional("SMTP_HOST", ""),
			SMTPUsername: optional("SMTP_USERNAME", ""),
			SMTPPassword: getenv("SMTP_PASSWORD"),
			From:         optional("MAIL_FROM", ""),
		},
		CORSOrigins: splitList(getenv("CORS_ORIGINS")),
	}
	if cfg.AdminPassword == "" {
		missing = append(missing, "ADMIN_PASSWORD")
	}
	if len(missing) > 0 {
		return Config{}, &missingEnvError{keys: missing}
	}

	ttl, err := parseDuration(optional("TOKEN_TTL", ""), defaultTokenTTL)
	if err != nil {
		return Config{}, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	if ttl < minTokenTTL || ttl > maxTokenTTL {
		return Config{}, fmt.Errorf("invalid TOKEN_TTL: %s is outside %s..%s", ttl, minTokenTTL, maxTokenTTL)
	}
	cfg.TokenTTL = ttl

	cfg.Mail.Timeout, err = parseDuration(optional("MAIL_TIMEOUT", ""), defaultMailTimeout)
	if err != nil {
		return Config{}, fmt.Errorf("invalid MAIL_TIMEOUT: %w", err)
	}

	cfg.Mail.SMTPPort = defaultSMTPPort
	if raw := optional("SMTP_PORT", ""); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid SMTP_PORT %q", raw)
		}
		cfg.Mail.SMTPPort = port
	}

	if cfg.Mail.Enabled() && cfg.Mail.From == "" {
		cfg.Mail.From = cfg.Mail.SMTPUsername
	}
	if cfg.Mail.Enabled() && cfg.Mail.From == "" {
		return Config{}, fmt.Errorf("MAIL_FROM or SMTP_USERNAME required when SMTP_HOST is set")
	}

	return cfg, nil
}

func parseDuration(raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
