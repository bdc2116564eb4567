// internal/workers/classification/classify-batch/config.go
package classifybatch

import (
	"fmt"
	"time"

	"ticket-classifier/internal/classification"
	"ticket-classifier/internal/common/config"
)

// Config for the batch worker. MaxBatchSize caps the tickets accepted per job;
// zero means no cap.
type Config struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxJobsActive    int           `mapstructure:"max_jobs_active"`
	Timeout          time.Duration `mapstructure:"timeout"`
	PreferFirstMatch bool          `mapstructure:"prefer_first_match"`
	MaxBatchSize     int           `mapstructure:"max_batch_size"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:          true,
		MaxJobsActive:    5,
		Timeout:          30 * time.Second,
		PreferFirstMatch: true,
		MaxBatchSize:     10000,
	}
}

// ConfigFrom reads the worker entry and classifier section of the application config.
func ConfigFrom(app *config.Config) *Config {
	if app == nil {
		return DefaultConfig()
	}
	wc := config.GetWorkerConfig(app, TaskType)
	maxBatch := wc.MaxBatchSize
	if maxBatch == 0 {
		maxBatch = DefaultConfig().MaxBatchSize
	}
	return &Config{
		Enabled:          wc.Enabled,
		MaxJobsActive:    wc.MaxJobsActive,
		Timeout:          config.GetDuration(wc.Timeout),
		PreferFirstMatch: app.Classifier.PreferFirstMatch,
		MaxBatchSize:     maxBatch,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.MaxBatchSize < 0 {
		return fmt.Errorf("max_batch_size must not be negative")
	}
	return nil
}

func (c *Config) Options() classification.Options {
	return classification.Options{PreferFirstMatch: c.PreferFirstMatch}
}
