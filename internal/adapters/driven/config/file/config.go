package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/policyatlas/atlas-cli/internal/connectors/corpusapi"
	"github.com/policyatlas/atlas-cli/internal/core/services"
	"github.com/policyatlas/atlas-cli/internal/transform"
)

// DefaultCachePrefix prefixes the object keys of cached transformed
// documents.
const DefaultCachePrefix = "documents/"

// DefaultReportPrefix prefixes the object keys of out-of-band run reports.
const DefaultReportPrefix = "reports/"

// Checkpoint storage backends.
const (
	CheckpointStorageLocal = "local"
	CheckpointStorageS3    = "s3"
)

// Config is the full pipeline configuration as read from disk.
type Config struct {
	// Connector configures the upstream corpus API connector.
	Connector ConnectorConfig `toml:"connector"`

	// Transform configures the corpus classification rules.
	Transform TransformConfig `toml:"transform"`

	// Storage configures the local document database.
	Storage StorageConfig `toml:"storage"`

	// Cache configures the transformed-document object cache.
	Cache CacheConfig `toml:"cache"`

	// Report configures end-of-run reporting.
	Report ReportConfig `toml:"report"`

	// Auth configures upstream authentication.
	Auth AuthConfig `toml:"auth"`

	// Workers bounds the per-family fan-out of the pipeline.
	Workers int `toml:"workers"`
}

// ConnectorConfig mirrors the connector settings.
type ConnectorConfig struct {
	BaseURL             string  `toml:"base_url"`
	PageSize            int     `toml:"page_size"`
	InitialPage         int     `toml:"initial_page"`
	MaxPages            int     `toml:"max_pages"`
	TimeoutSeconds      int     `toml:"timeout_seconds"`
	MaxRetries          int     `toml:"max_retries"`
	RetryBackoffSeconds int     `toml:"retry_backoff_seconds"`
	ConnectionPoolSize  int     `toml:"connection_pool_size"`
	RequestRate         float64 `toml:"request_rate"`
	CheckpointKeyPrefix string  `toml:"checkpoint_key_prefix"`

	// CheckpointStorage selects where pagination cursors live: "local"
	// (the SQLite database) or "s3" (the cache bucket).
	CheckpointStorage string `toml:"checkpoint_storage"`
}

// TransformConfig overrides the corpus identifiers the classification rules
// key on. Empty values keep the defaults.
type TransformConfig struct {
	LitigationCorpusID string   `toml:"litigation_corpus_id"`
	ProjectCorpora     []string `toml:"project_corpora"`
}

// StorageConfig configures the local SQLite database.
type StorageConfig struct {
	// DataDir is the database directory. Empty means ~/.atlas/data.
	DataDir string `toml:"data_dir"`
}

// CacheConfig configures the S3-backed document cache.
type CacheConfig struct {
	// Enabled switches document caching on.
	Enabled bool `toml:"enabled"`

	Bucket         string `toml:"bucket"`
	Region         string `toml:"region"`
	Endpoint       string `toml:"endpoint"`
	ForcePathStyle bool   `toml:"force_path_style"`
	Prefix         string `toml:"prefix"`
}

// ReportConfig configures end-of-run reporting.
type ReportConfig struct {
	// InlineLimit is the largest processed-id set logged inline. Larger
	// sets are uploaded to the cache bucket instead.
	InlineLimit int `toml:"inline_limit"`

	// Prefix prefixes uploaded report object keys.
	Prefix string `toml:"prefix"`
}

// AuthConfig configures upstream authentication. Token, when set, wins over
// the OAuth client credentials.
type AuthConfig struct {
	Token        string   `toml:"token"`
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	TokenURL     string   `toml:"token_url"`
	Scopes       []string `toml:"scopes"`
}

// DefaultPath returns the default config file location,
// ~/.atlas/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".atlas", "config.toml"), nil
}

// Load reads the configuration from path. A missing file yields the
// defaults; a present file is merged over them.
func Load(path string) (Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// defaults returns the configuration used when no file overrides it.
func defaults() Config {
	return Config{
		Connector: ConnectorConfig{
			PageSize:            corpusapi.DefaultPageSize,
			InitialPage:         corpusapi.DefaultInitialPage,
			TimeoutSeconds:      corpusapi.DefaultTimeoutSeconds,
			MaxRetries:          corpusapi.DefaultMaxRetries,
			RetryBackoffSeconds: corpusapi.DefaultRetryBackoffSeconds,
			ConnectionPoolSize:  corpusapi.DefaultConnectionPoolSize,
			RequestRate:         corpusapi.DefaultRequestRate,
			CheckpointKeyPrefix: corpusapi.DefaultCheckpointKeyPrefix,
			CheckpointStorage:   CheckpointStorageLocal,
		},
		Cache: CacheConfig{
			Prefix: DefaultCachePrefix,
		},
		Report: ReportConfig{
			InlineLimit: services.DefaultReportLimit,
			Prefix:      DefaultReportPrefix,
		},
		Workers: services.DefaultWorkers,
	}
}

// ConnectorConfig converts the file settings into the connector's config.
func (c Config) ConnectorConfig() *corpusapi.Config {
	cfg := corpusapi.DefaultConfig(c.Connector.BaseURL)
	if c.Connector.PageSize > 0 {
		cfg.PageSize = c.Connector.PageSize
	}
	if c.Connector.InitialPage > 0 {
		cfg.InitialPage = c.Connector.InitialPage
	}
	if c.Connector.MaxPages > 0 {
		cfg.MaxPages = c.Connector.MaxPages
	}
	if c.Connector.TimeoutSeconds > 0 {
		cfg.TimeoutSeconds = c.Connector.TimeoutSeconds
	}
	if c.Connector.MaxRetries > 0 {
		cfg.MaxRetries = c.Connector.MaxRetries
	}
	if c.Connector.RetryBackoffSeconds > 0 {
		cfg.RetryBackoffSeconds = c.Connector.RetryBackoffSeconds
	}
	if c.Connector.ConnectionPoolSize > 0 {
		cfg.ConnectionPoolSize = c.Connector.ConnectionPoolSize
	}
	if c.Connector.RequestRate > 0 {
		cfg.RequestRate = c.Connector.RequestRate
	}
	if c.Connector.CheckpointKeyPrefix != "" {
		cfg.CheckpointKeyPrefix = c.Connector.CheckpointKeyPrefix
	}
	return cfg
}

// TransformConfig converts the file settings into the transformer's config.
func (c Config) TransformConfig() transform.Config {
	cfg := transform.DefaultConfig()
	if c.Transform.LitigationCorpusID != "" {
		cfg.LitigationCorpusID = c.Transform.LitigationCorpusID
	}
	if len(c.Transform.ProjectCorpora) > 0 {
		cfg.ProjectCorpora = c.Transform.ProjectCorpora
	}
	return cfg
}
