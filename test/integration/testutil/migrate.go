//go:build integration

package testutil

import (
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// migrateUp brings the escrow schema (users, games, game_players,
// cashout_requests, request_approvals, event_outbox) up to date on the
// test database before the shared pool is handed out.
func migrateUp(databaseURL string) error {
	sourceURL := fmt.Sprintf("file://%s/db/migrations", findProjectRoot())

	m, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}
