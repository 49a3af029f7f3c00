package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/tubetrade/rfq-api/internal/secrets"
	"go.uber.org/zap"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Logging    LoggingConfig
	Server     ServerConfig
	Extraction ExtractionConfig
	Storage    StorageConfig
	Archive    ArchiveConfig
	Database   DatabaseConfig
	Auth       AuthConfig
	Secrets    SecretsConfig
	CORS       CORSConfig
	Security   SecurityConfig
	RateLimit  RateLimitConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
	EnableSwagger  bool
}

// ExtractionConfig configures the structured-extraction capability client.
// The same client serves clarification summaries.
type ExtractionConfig struct {
	// BaseURL of the OpenAI-compatible API (default https://api.openai.com)
	BaseURL string
	// APIKey is loaded from environment or Azure Key Vault, never from file
	APIKey string
	// Model used for extraction and summarization
	Model string
	// Timeout bounds one extraction call (seconds)
	Timeout int
	// SummaryTimeout bounds one clarification call (seconds)
	SummaryTimeout int
	// MaxRetries for transient upstream failures
	MaxRetries int
}

type StorageConfig struct {
	Mode                  string
	LocalBasePath         string
	CloudConnectionString string
	CloudContainer        string
	MaxUploadSizeMB       int64
	// RetainAttachments archives uploaded documents after a successful parse
	RetainAttachments bool
}

// ArchiveConfig controls the write-behind snapshot job. The in-memory session
// store remains the source of truth; the archive exists for inspection.
type ArchiveConfig struct {
	Enabled         bool
	SnapshotCron    string
	SnapshotTimeout int
}

// DatabaseConfig is the PostgreSQL connection for the archive schema.
type DatabaseConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
}

// AuthConfig controls the optional request authentication layer.
type AuthConfig struct {
	Enabled bool
	// APIKey accepted via the x-api-key header
	APIKey string
	// SigningSecret validates HS256 bearer tokens
	SigningSecret string
}

type SecretsConfig struct {
	// Source determines where secrets are loaded from: "environment", "vault", or "auto"
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	HSTSPreload           bool
	ContentSecurityPolicy string
	FrameOptions          string
	ContentTypeNosniff    bool
	XSSProtection         string
	ReferrerPolicy        string
	PermissionsPolicy     string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	WhitelistIPs      []string
	WhitelistPaths    []string
}

// ConnectionString builds the PostgreSQL connection string for the archive
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RequestTimeoutDuration returns request timeout as duration
func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// TimeoutDuration returns the extraction call timeout as duration
func (e *ExtractionConfig) TimeoutDuration() time.Duration {
	return time.Duration(e.Timeout) * time.Second
}

// SummaryTimeoutDuration returns the clarification call timeout as duration
func (e *ExtractionConfig) SummaryTimeoutDuration() time.Duration {
	return time.Duration(e.SummaryTimeout) * time.Second
}

// SnapshotTimeoutDuration returns the archive snapshot timeout as duration
func (a *ArchiveConfig) SnapshotTimeoutDuration() time.Duration {
	return time.Duration(a.SnapshotTimeout) * time.Second
}

// Load loads configuration from file and environment variables.
// This is a basic load that doesn't fetch secrets from vault;
// use LoadWithSecrets for full secret resolution.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Sensitive values come from the environment in development; Key Vault
	// replaces them in staging/production via LoadWithSecrets.
	if cfg.Extraction.APIKey == "" {
		cfg.Extraction.APIKey = v.GetString("EXTRACTION_API_KEY")
	}
	if cfg.Auth.APIKey == "" {
		cfg.Auth.APIKey = v.GetString("ADMIN_API_KEY")
	}
	if cfg.Auth.SigningSecret == "" {
		cfg.Auth.SigningSecret = v.GetString("AUTH_SIGNING_SECRET")
	}
	if cfg.Secrets.KeyVaultName == "" {
		cfg.Secrets.KeyVaultName = v.GetString("AZURE_KEY_VAULT_NAME")
	}
	if v.GetBool("ARCHIVE_ENABLED") {
		cfg.Archive.Enabled = true
	}

	return &cfg, nil
}

// LoadWithSecrets loads configuration and resolves secrets from the
// configured source. In development (or when secrets.source = "environment")
// secrets come from env vars; in staging/production with
// USE_AZURE_KEY_VAULT=true they come from Azure Key Vault.
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	useKeyVault := strings.ToLower(os.Getenv("USE_AZURE_KEY_VAULT")) == "true"
	isValidEnv := cfg.App.Environment == "staging" || cfg.App.Environment == "production"

	if !useKeyVault {
		logger.Info("USE_AZURE_KEY_VAULT not enabled, using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if !isValidEnv {
		logger.Warn("USE_AZURE_KEY_VAULT is enabled but environment is not staging or production, using environment variables",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if cfg.Secrets.KeyVaultName == "" {
		return nil, fmt.Errorf("AZURE_KEY_VAULT_NAME is required when USE_AZURE_KEY_VAULT=true")
	}

	logger.Info("Azure Key Vault enabled for secrets",
		zap.String("environment", cfg.App.Environment),
		zap.String("key_vault_name", cfg.Secrets.KeyVaultName),
	)

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider: %w", err)
	}

	if apiKey, err := provider.GetSecretOrEnv(ctx, "extraction-api-key", "EXTRACTION_API_KEY"); err == nil && apiKey != "" {
		cfg.Extraction.APIKey = apiKey
	}
	if adminKey, err := provider.GetSecretOrEnv(ctx, "admin-api-key", "ADMIN_API_KEY"); err == nil && adminKey != "" {
		cfg.Auth.APIKey = adminKey
	}
	if signing, err := provider.GetSecretOrEnv(ctx, "auth-signing-secret", "AUTH_SIGNING_SECRET"); err == nil && signing != "" {
		cfg.Auth.SigningSecret = signing
	}
	if connStr, err := provider.GetSecretOrEnv(ctx, "storage-connection-string", "STORAGE_CLOUDCONNECTIONSTRING"); err == nil && connStr != "" {
		cfg.Storage.CloudConnectionString = connStr
	}
	if password, err := provider.GetSecretOrEnv(ctx, "archive-db-password", "DATABASE_PASSWORD"); err == nil && password != "" {
		cfg.Database.Password = password
	}

	logger.Info("Secrets loaded from vault successfully")
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "RFQ API")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Server defaults
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 120)
	v.SetDefault("server.requestTimeout", 120)
	v.SetDefault("server.enableSwagger", true)

	// Extraction defaults. The extraction call is the single long-latency
	// operation in the pipeline, hence the generous timeout.
	v.SetDefault("extraction.baseURL", "https://api.openai.com")
	v.SetDefault("extraction.model", "gpt-4o-mini")
	v.SetDefault("extraction.timeout", 90)
	v.SetDefault("extraction.summaryTimeout", 20)
	v.SetDefault("extraction.maxRetries", 2)

	// Storage defaults
	v.SetDefault("storage.mode", "local")
	v.SetDefault("storage.localBasePath", "./storage")
	v.SetDefault("storage.maxUploadSizeMB", 25)
	v.SetDefault("storage.retainAttachments", false)

	// Archive defaults (optional write-behind snapshots)
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.snapshotCron", "@every 5m")
	v.SetDefault("archive.snapshotTimeout", 30)

	// Archive database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "rfq")
	v.SetDefault("database.user", "rfq_user")
	v.SetDefault("database.password", "rfq_password")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 10)
	v.SetDefault("database.maxIdleConns", 2)
	v.SetDefault("database.connMaxLifetime", 300)

	// Auth defaults - open by default, enable in production
	v.SetDefault("auth.enabled", false)

	// Secrets defaults
	v.SetDefault("secrets.source", "auto")
	v.SetDefault("secrets.cacheEnabled", true)
	v.SetDefault("secrets.cacheTTL", 300)

	// CORS defaults - restrictive by default
	v.SetDefault("cors.allowedOrigins", []string{})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"Location", "X-Request-ID"})
	v.SetDefault("cors.allowCredentials", true)
	v.SetDefault("cors.maxAge", 300)

	// Security header defaults - secure by default
	v.SetDefault("security.enableHSTS", false)
	v.SetDefault("security.hstsMaxAge", 31536000)
	v.SetDefault("security.hstsIncludeSubdomains", true)
	v.SetDefault("security.hstsPreload", false)
	v.SetDefault("security.contentSecurityPolicy", "default-src 'self'")
	v.SetDefault("security.frameOptions", "DENY")
	v.SetDefault("security.contentTypeNosniff", true)
	v.SetDefault("security.xssProtection", "1; mode=block")
	v.SetDefault("security.referrerPolicy", "strict-origin-when-cross-origin")
	v.SetDefault("security.permissionsPolicy", "geolocation=(), microphone=(), camera=()")

	// Rate limiting defaults
	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 60)
	v.SetDefault("rateLimit.whitelistIPs", []string{"127.0.0.1", "::1"})
	v.SetDefault("rateLimit.whitelistPaths", []string{"/health", "/health/ready"})
}
