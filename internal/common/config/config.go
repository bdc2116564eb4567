// internal/common/config/config.go
package config

import (
	"fmt"
	"time"

	"ticket-classifier/internal/classification"
)

const (
	KeywordSourceFile     = "file"
	KeywordSourcePostgres = "postgres"
)

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig               `mapstructure:"app"`
	Classifier ClassifierConfig        `mapstructure:"classifier"`
	Input      InputConfig             `mapstructure:"input"`
	Output     OutputConfig            `mapstructure:"output"`
	Camunda    CamundaConfig           `mapstructure:"camunda"`
	Database   DatabaseConfig          `mapstructure:"database"`
	Workers    map[string]WorkerConfig `mapstructure:"workers"`
	Logging    LoggingConfig           `mapstructure:"logging"`
	Metrics    MetricsConfig           `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ClassifierConfig struct {
	PreferFirstMatch bool `mapstructure:"prefer_first_match"`
}

// Options converts the section into classifier options.
func (c ClassifierConfig) Options() classification.Options {
	return classification.Options{PreferFirstMatch: c.PreferFirstMatch}
}

type InputConfig struct {
	TicketsPath   string `mapstructure:"tickets_path"`
	TicketsSheet  string `mapstructure:"tickets_sheet"`
	KeywordsPath  string `mapstructure:"keywords_path"`
	KeywordsSheet string `mapstructure:"keywords_sheet"`
	KeywordSource string `mapstructure:"keyword_source"` // file | postgres
}

type OutputConfig struct {
	ClassifiedPath string `mapstructure:"classified_path"`
	SummaryPath    string `mapstructure:"summary_path"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Address         string        `mapstructure:"address"`
	Password        string        `mapstructure:"password"`
	DB              int           `mapstructure:"db"`
	KeywordCacheTTL time.Duration `mapstructure:"keyword_cache_ttl"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
	MaxBatchSize  int  `mapstructure:"max_batch_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}
