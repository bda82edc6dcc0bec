package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	S3     S3Config
	Media  MediaConfig
	Log    LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds bearer token verification settings.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// PresignTTL returns the presigned URL lifetime.
func (c *S3Config) PresignTTL() time.Duration {
	return time.Duration(c.PresignExpiry) * time.Second
}

// MediaConfig holds settings for the video ingestion pipeline.
type MediaConfig struct {
	FFprobePath     string        `mapstructure:"ffprobe_path"`
	FFmpegPath      string        `mapstructure:"ffmpeg_path"`
	StagingDir      string        `mapstructure:"staging_dir"`
	MaxUploadMB     int64         `mapstructure:"max_upload_mb"`
	ProbeTimeout    time.Duration `mapstructure:"probe_timeout"`
	OptimizeTimeout time.Duration `mapstructure:"optimize_timeout"`
	MaxConcurrent   int64         `mapstructure:"max_concurrent"`
}

// MaxUploadBytes returns the upload size limit in bytes.
func (c *MediaConfig) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the TUBELY_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TUBELY")
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8091")
	v.SetDefault("server.read_timeout", "15m")
	v.SetDefault("server.write_timeout", "15m")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "tubely")
	v.SetDefault("db.password", "tubely_secret")
	v.SetDefault("db.name", "tubely_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "tubely-access")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "tubely-videos")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 300)

	// Media defaults
	v.SetDefault("media.ffprobe_path", "ffprobe")
	v.SetDefault("media.ffmpeg_path", "ffmpeg")
	v.SetDefault("media.staging_dir", filepath.Join(os.TempDir(), "tubely"))
	v.SetDefault("media.max_upload_mb", 1024)
	v.SetDefault("media.probe_timeout", "30s")
	v.SetDefault("media.optimize_timeout", "10m")
	v.SetDefault("media.max_concurrent", 2)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	envBindings := map[string]string{
		"server.port":            "TUBELY_SERVER_PORT",
		"server.read_timeout":    "TUBELY_SERVER_READ_TIMEOUT",
		"server.write_timeout":   "TUBELY_SERVER_WRITE_TIMEOUT",
		"server.environment":     "TUBELY_SERVER_ENVIRONMENT",
		"db.host":                "TUBELY_DB_HOST",
		"db.port":                "TUBELY_DB_PORT",
		"db.user":                "TUBELY_DB_USER",
		"db.password":            "TUBELY_DB_PASSWORD",
		"db.name":                "TUBELY_DB_NAME",
		"db.sslmode":             "TUBELY_DB_SSLMODE",
		"db.max_open":            "TUBELY_DB_MAX_OPEN",
		"db.max_idle":            "TUBELY_DB_MAX_IDLE",
		"jwt.secret":             "TUBELY_JWT_SECRET",
		"jwt.issuer":             "TUBELY_JWT_ISSUER",
		"s3.region":              "TUBELY_S3_REGION",
		"s3.bucket":              "TUBELY_S3_BUCKET",
		"s3.endpoint":            "TUBELY_S3_ENDPOINT",
		"s3.access_key":          "TUBELY_S3_ACCESS_KEY",
		"s3.secret_key":          "TUBELY_S3_SECRET_KEY",
		"s3.presign_expiry":      "TUBELY_S3_PRESIGN_EXPIRY",
		"media.ffprobe_path":     "TUBELY_MEDIA_FFPROBE_PATH",
		"media.ffmpeg_path":      "TUBELY_MEDIA_FFMPEG_PATH",
		"media.staging_dir":      "TUBELY_MEDIA_STAGING_DIR",
		"media.max_upload_mb":    "TUBELY_MEDIA_MAX_UPLOAD_MB",
		"media.probe_timeout":    "TUBELY_MEDIA_PROBE_TIMEOUT",
		"media.optimize_timeout": "TUBELY_MEDIA_OPTIMIZE_TIMEOUT",
		"media.max_concurrent":   "TUBELY_MEDIA_MAX_CONCURRENT",
		"log.level":              "TUBELY_LOG_LEVEL",
		"log.format":             "TUBELY_LOG_FORMAT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("TUBELY_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
		Issuer: v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Media = MediaConfig{
		FFprobePath:     v.GetString("media.ffprobe_path"),
		FFmpegPath:      v.GetString("media.ffmpeg_path"),
		StagingDir:      v.GetString("media.staging_dir"),
		MaxUploadMB:     v.GetInt64("media.max_upload_mb"),
		ProbeTimeout:    v.GetDuration("media.probe_timeout"),
		OptimizeTimeout: v.GetDuration("media.optimize_timeout"),
		MaxConcurrent:   v.GetInt64("media.max_concurrent"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the ingestion pipeline cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.S3.Bucket == "" {
		errs = append(errs, errors.New("s3.bucket is required"))
	}
	if c.S3.PresignExpiry <= 0 {
		errs = append(errs, errors.New("s3.presign_expiry must be positive"))
	}
	if c.Media.MaxUploadMB <= 0 {
		errs = append(errs, errors.New("media.max_upload_mb must be positive"))
	}
	if c.Media.MaxConcurrent <= 0 {
		errs = append(errs, errors.New("media.max_concurrent must be positive"))
	}
	if c.Media.StagingDir == "" {
		errs = append(errs, errors.New("media.staging_dir is required"))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
