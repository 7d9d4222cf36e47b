// Package pg manages the PostgreSQL connection pool backing the MFA and
// lockout stores: pgx pool construction with startup retries, a health-check
// closure for readiness endpoints, and goose-driven schema migrations from
// the migrations directory.
//
//	var cfg pg.Config
//	// load cfg from the environment, then:
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    // fatal
//	}
//	defer pool.Close()
//	if err := pg.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
//	    // fatal
//	}
package pg
