package infra_sql_init

import (
	"fmt"
	"log"

	"github.com/humanbelnik/kinoswap/matchclient/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

// DSN returns the data source for cfg. A postgres driver without an explicit
// DSN is assembled from the DB_* settings.
func DSN(cfg config.History) string {
	if cfg.Driver == DriverPostgres && (cfg.DSN == "" || cfg.DSN == "matchclient.db") {
		pg := cfg.Postgres
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			pg.Host,
			pg.Port,
			pg.User,
			pg.Password,
			pg.DBName,
			pg.SSLMode,
		)
	}
	return cfg.DSN
}

// MustEstablishConn returns nil when history is disabled.
func MustEstablishConn(cfg config.History) *sqlx.DB {
	switch cfg.Driver {
	case DriverNone, "":
		return nil
	case DriverSQLite, DriverPostgres:
	default:
		log.Fatalf("unsupported history driver %q", cfg.Driver)
	}

	db, err := sqlx.Connect(cfg.Driver, DSN(cfg))
	if err != nil {
		log.Fatal(err)
	}

	return db
}
