// Schema migrations: SQL files embedded in the binary, applied with golang-migrate.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var sqlFS embed.FS

// DriverURL rewrites a postgres DSN to the scheme the pgx/v5 driver registers ("pgx5").
func DriverURL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://", "pgx://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}

// New opens a migrator over the embedded SQL files.
func New(dsn string) (*migrate.Migrate, error) {
	src, err := iofs.New(sqlFS, "sql")
	if err != nil {
		return nil, fmt.Errorf("migrations source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, DriverURL(dsn))
	if err != nil {
		return nil, fmt.Errorf("migrate init: %w", err)
	}
	return m, nil
}

// Up applies every pending migration; an up-to-date schema is not an error.
func Up(dsn string) error {
	return Run(dsn, "up", 0)
}

// Run migrates in direction "up" or "down"; steps > 0 limits the number of steps.
func Run(dsn, direction string, steps int) error {
	if direction != "up" && direction != "down" {
		return fmt.Errorf("invalid direction %q, must be up|down", direction)
	}
	m, err := New(dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	switch {
	case direction == "up" && steps > 0:
		err = m.Steps(steps)
	case direction == "up":
		err = m.Up()
	case steps > 0:
		err = m.Steps(-steps)
	default:
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate %s: %w", direction, err)
	}
	return nil
}
