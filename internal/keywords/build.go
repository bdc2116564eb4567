// internal/keywords/build.go
package keywords

import (
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"

	"ticket-classifier/internal/common/config"
	"ticket-classifier/internal/common/logger"
)

// Build assembles the keyword source described by cfg. db is required for the
// postgres source; rdb, when non-nil and redis is enabled, wraps the source in a cache.
func Build(cfg *config.Config, db *sql.DB, rdb redis.Cmdable, log logger.Logger) (Source, error) {
	var src Source
	switch cfg.Input.KeywordSource {
	case config.KeywordSourceFile:
		src = NewFileSource(cfg.Input.KeywordsPath, cfg.Input.KeywordsSheet, log)
	case config.KeywordSourcePostgres:
		if db == nil {
			return nil, fmt.Errorf("keyword source %q needs a database connection", cfg.Input.KeywordSource)
		}
		src = NewPostgresSource(db, log)
	default:
		return nil, fmt.Errorf("unknown keyword source %q", cfg.Input.KeywordSource)
	}

	if cfg.Database.Redis.Enabled && rdb != nil {
		src = NewCachedSource(rdb, src, cfg.Database.Redis.KeywordCacheTTL, log)
	}
	return src, nil
}
