package source

import (
	"context"
	"fmt"
	"net/http"

	"github.com/moonandjupiter/consign-tracker/internal/app"
	"github.com/moonandjupiter/consign-tracker/internal/config"
	"github.com/moonandjupiter/consign-tracker/internal/db"
)

// Open builds the source selected by cfg. The returned close function releases
// any database handle and is safe to call when nothing was opened.
func Open(ctx context.Context, cfg config.SourceConfig) (app.RecordSource, func(), error) {
	noop := func() {}

	switch cfg.Kind {
	case config.SourceHTTP:
		client := &http.Client{Timeout: cfg.Timeout}
		return NewHTTPSource(cfg.URL, client, cfg.Timeout), noop, nil

	case config.SourceFile:
		return NewFileSource(cfg.File), noop, nil

	case config.SourcePostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		src, err := NewPostgresSource(pool, cfg.Table)
		if err != nil {
			pool.Close()
			return nil, noop, err
		}
		return src, pool.Close, nil

	case config.SourceMySQL:
		conn, err := db.OpenMySQL(ctx, cfg.MySQLDSN)
		if err != nil {
			return nil, noop, err
		}
		src, err := NewMySQLSource(conn, cfg.Table)
		if err != nil {
			conn.Close()
			return nil, noop, err
		}
		return src, func() { _ = conn.Close() }, nil
	}
	return nil, noop, fmt.Errorf("unknown source kind %q", cfg.Kind)
}
