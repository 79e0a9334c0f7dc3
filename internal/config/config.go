// Package config loads application configuration from the environment,
// with an optional .env file overlay for local development.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs to start. Zero values mean "not
// configured": an empty SMTP user disables real mail, empty Google client
// credentials disable the Google routes, an empty S3 bucket means uploads
// go to local disk.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string

	// BaseURL is the externally visible origin, used to build upload URLs
	// and the default OAuth callback. Example: https://careercraft.example.com
	BaseURL string

	// UploadDir is where local-disk uploads land when S3 is not configured.
	UploadDir string

	Email EmailConfig
	GoogleOAuth
	S3 S3Config
}

// EmailConfig configures the SMTP dispatcher.
type EmailConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// GoogleOAuth configures Google sign-in.
type GoogleOAuth struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string
}

// S3Config configures the optional S3-compatible upload store.
type S3Config struct {
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	BaseEndpoint string
	PublicURL    string
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first if present; real environment variables
// win over .env entries (godotenv.Load never overwrites).
func Load(logger *slog.Logger) (Config, error) {
	if err := godotenv.Load(); err == nil {
		logger.Info("loaded .env file")
	}

	cfg := Config{
		Port:      8080,
		DBPath:    "data/careercraft.db",
		UploadDir: "uploads",
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PORT value %q: %w", portStr, err)
		}
		cfg.Port = port
	}

	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.DBPath = dbPath
	} else {
		logger.Warn("DB_PATH not set, using default", slog.String("path", cfg.DBPath))
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}

	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		cfg.UploadDir = dir
	}

	cfg.Email = EmailConfig{
		Host: getenvDefault("EMAIL_HOST", "smtp.gmail.com"),
		Port: 587,
		User: os.Getenv("EMAIL_USER"),
		Pass: os.Getenv("EMAIL_PASS"),
		From: os.Getenv("EMAIL_FROM"),
	}
	if portStr := os.Getenv("EMAIL_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid EMAIL_PORT value %q: %w", portStr, err)
		}
		cfg.Email.Port = port
	}
	if cfg.Email.From == "" {
		cfg.Email.From = cfg.Email.User
	}

	cfg.GoogleOAuth = GoogleOAuth{
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleCallbackURL:  os.Getenv("GOOGLE_CALLBACK_URL"),
	}
	if cfg.GoogleCallbackURL == "" {
		cfg.GoogleCallbackURL = cfg.BaseURL + "/auth/google/callback"
	}

	cfg.S3 = S3Config{
		AccessKey:    os.Getenv("S3_ACCESS_KEY"),
		SecretKey:    os.Getenv("S3_SECRET_KEY"),
		Bucket:       os.Getenv("S3_BUCKET"),
		Region:       getenvDefault("S3_REGION", "us-east-1"),
		BaseEndpoint: os.Getenv("S3_ENDPOINT"),
		PublicURL:    os.Getenv("S3_PUBLIC_URL"),
	}

	return cfg, nil
}

// GoogleEnabled reports whether the Google sign-in routes should be wired.
func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// S3Enabled reports whether uploads go to the S3-compatible store instead
// of local disk.
func (c Config) S3Enabled() bool {
	return c.S3.Bucket != "" && c.S3.AccessKey != ""
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
