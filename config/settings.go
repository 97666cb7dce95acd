package config

import (
	"fmt"
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
)

// Config is built once at startup and handed to every component that needs it.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Notify   NotifyConfig
	Storage  StorageConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	AcceptedOrigins []string
}

type DatabaseConfig struct {
	Type       string
	DSN        string
	ReplicaDSN string
}

type AuthConfig struct {
	JWTSecret          string
	JWTSecretParameter string // SSM parameter name, overrides JWTSecret when set
	TokenTTL           time.Duration
	AdminEmail         string
	AdminPassword      string
}

type NotifyConfig struct {
	ResendAPIKey     string
	ResendFromEmail  string
	NotifyEmail      string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	NotifyPhone      string
}

type StorageConfig struct {
	S3Bucket      string
	PublicBaseURL string
}

type LogConfig struct {
	Level  string
	Format string
}

// Load builds a Config from an environment map produced by New.
func Load(env map[string]string) (Config, error) {
	dsn, err := databaseDSN(env)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Server: ServerConfig{
			Port:            GetString(env, "PORT", "8080"),
			ReadTimeout:     time.Duration(GetInt(env, "READ_TIMEOUT_SECONDS", 180)) * time.Second,
			WriteTimeout:    time.Duration(GetInt(env, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second,
			IdleTimeout:     time.Duration(GetInt(env, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second,
			AcceptedOrigins: GetList(env, "ACCEPTED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Type:       GetString(env, "DB_TYPE", "postgres"),
			DSN:        dsn,
			ReplicaDSN: GetString(env, "DB_REPLICA_DSN", ""),
		},
		Auth: AuthConfig{
			JWTSecret:          GetString(env, "JWT_SECRET", ""),
			JWTSecretParameter: GetString(env, "JWT_SECRET_SSM_PARAMETER", ""),
			TokenTTL:           time.Duration(GetInt(env, "JWT_TTL_HOURS", 24)) * time.Hour,
			AdminEmail:         GetString(env, "ADMIN_EMAIL", ""),
			AdminPassword:      GetString(env, "ADMIN_PASSWORD", ""),
		},
		Notify: NotifyConfig{
			ResendAPIKey:     GetString(env, "RESEND_API_KEY", ""),
			ResendFromEmail:  GetString(env, "RESEND_FROM_EMAIL", ""),
			NotifyEmail:      GetString(env, "CONTACT_NOTIFY_EMAIL", ""),
			TwilioAccountSID: GetString(env, "TWILIO_ACCOUNT_SID", ""),
			TwilioAuthToken:  GetString(env, "TWILIO_AUTH_TOKEN", ""),
			TwilioFromNumber: GetString(env, "TWILIO_FROM_NUMBER", ""),
			NotifyPhone:      GetString(env, "CONTACT_NOTIFY_PHONE", ""),
		},
		Storage: StorageConfig{
			S3Bucket:      GetString(env, "S3_BUCKET", ""),
			PublicBaseURL: GetString(env, "S3_PUBLIC_BASE_URL", ""),
		},
		Log: LogConfig{
			Level:  GetString(env, "LOG_LEVEL", "info"),
			Format: GetString(env, "LOG_FORMAT", "json"),
		},
	}, nil
}

// databaseDSN builds the connection string for the configured DB_TYPE.
func databaseDSN(env map[string]string) (string, error) {
	switch dbType := GetString(env, "DB_TYPE", "postgres"); dbType {
	case "supa":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			GetString(env, "SUPABASE_DB_HOST", ""),
			GetString(env, "SUPABASE_DB_USER", ""),
			GetString(env, "SUPABASE_DB_PASSWORD", ""),
			GetString(env, "SUPABASE_DB_NAME", ""),
			GetString(env, "SUPABASE_DB_PORT", "5432"),
		), nil
	case "postgres":
		dsn := GetString(env, "DATABASE_URL", "")
		if dsn == "" {
			return "", errs.NewEnvironmentVariableError("DATABASE_URL")
		}
		return dsn, nil
	default:
		return "", errs.NewInvalidFieldError("DB_TYPE", fmt.Sprintf("unsupported database type %q", dbType))
	}
}

// EmailEnabled reports whether contact notifications can go out by e-mail.
func (n NotifyConfig) EmailEnabled() bool {
	return n.ResendAPIKey != "" && n.ResendFromEmail != "" && n.NotifyEmail != ""
}

// SMSEnabled reports whether contact notifications can go out by SMS.
func (n NotifyConfig) SMSEnabled() bool {
	return n.TwilioAccountSID != "" && n.TwilioAuthToken != "" && n.TwilioFromNumber != "" && n.NotifyPhone != ""
}
