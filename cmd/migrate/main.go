package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"fintrack/internal/database"
	"fintrack/internal/logger"

	"github.com/golang-migrate/migrate/v4"
)

const usage = `usage: migrate <command> [arg]

Manages the financial_records schema embedded in the fintrack binary.

commands:
  up          apply every pending migration
  down [N]    roll back N migrations (default 1)
  version     print the applied schema version
  force V     mark version V as applied and clean after a failed migration
`

// command runs one schema operation against an open migrator.
type command func(m *migrate.Migrate, arg string) error

var commands = map[string]command{
	"up":      schemaUp,
	"down":    schemaDown,
	"version": schemaVersion,
	"force":   schemaForce,
}

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	logger.Init(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	if err := run(flag.Args()); err != nil {
		logger.Get().Fatalf("Schema migration failed: %v", err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		flag.Usage()
		return errors.New("no command given")
	}
	cmd, ok := commands[args[0]]
	if !ok {
		flag.Usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
	var arg string
	if len(args) > 1 {
		arg = args[1]
	}

	cfg, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}
	if cfg.Driver != database.DriverPostgres {
		return fmt.Errorf("SQL migrations target %s; DB_DRIVER=%s is migrated automatically at startup",
			database.DriverPostgres, cfg.Driver)
	}

	m, err := database.NewMigrator(cfg.MigrationURL())
	if err != nil {
		return err
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.Get().Warnw("closing migrator", "source_error", srcErr, "database_error", dbErr)
		}
	}()

	return cmd(m, arg)
}

func schemaUp(m *migrate.Migrate, _ string) error {
	err := m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Get().Info("financial_records schema already up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return logVersion(m, "financial_records schema migrated")
}

func schemaDown(m *migrate.Migrate, arg string) error {
	steps, err := parsePositive(arg, 1)
	if err != nil {
		return fmt.Errorf("invalid step count: %w", err)
	}
	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rolling back %d migration(s): %w", steps, err)
	}
	logger.Get().Infow("rolled back financial_records schema", "steps", steps)
	return nil
}

func schemaVersion(m *migrate.Migrate, _ string) error {
	return logVersion(m, "financial_records schema version")
}

func schemaForce(m *migrate.Migrate, arg string) error {
	if arg == "" {
		return errors.New("force needs a version")
	}
	version, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", arg, err)
	}
	if err := m.Force(version); err != nil {
		return fmt.Errorf("forcing version %d: %w", version, err)
	}
	return logVersion(m, "financial_records schema forced")
}

func logVersion(m *migrate.Migrate, msg string) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		logger.Get().Infow(msg, "version", "none")
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	logger.Get().Infow(msg, "version", version, "dirty", dirty)
	return nil
}

// parsePositive parses s as a count of at least one. Empty s yields def.
func parsePositive(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("%d is not a positive count", n)
	}
	return n, nil
}
