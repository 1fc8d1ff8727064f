package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/saeid-a/CoachOps/internal/logger"
	"github.com/spf13/cobra"
)

var (
	migrationsDir string
	steps         int
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Database migration tools",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&migrationsDir, "dir", "d", "", "Migrations directory (default: search upwards for ./migrations)")

	down := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE:  runDown,
	}
	down.Flags().IntVarP(&steps, "steps", "n", 0, "Number of migrations to rollback (0 rolls back all)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Run all pending migrations",
			RunE:  runUp,
		},
		down,
		&cobra.Command{
			Use:   "version",
			Short: "Show the current migration version",
			RunE:  runVersion,
		},
	)
	return cmd
}

func newMigrator() (*migrate.Migrate, *slog.Logger, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found")
	}
	log := logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	dbUrl := os.Getenv("DB_URL")
	if dbUrl == "" {
		return nil, nil, errors.New("DB_URL environment variable is required")
	}

	path := migrationsDir
	if path == "" {
		found, err := findMigrationsDir()
		if err != nil {
			return nil, nil, err
		}
		path = found
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve migrations path: %w", err)
	}

	m, err := migrate.New("file://"+absPath, dbUrl)
	if err != nil {
		return nil, nil, fmt.Errorf("open migrations: %w", err)
	}
	log.Info("migrations loaded", "path", absPath)
	return m, log, nil
}

func findMigrationsDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	candidates := []string{}
	current := cwd
	for i := 0; i < 6; i++ {
		candidates = append(candidates, filepath.Join(current, "migrations"))
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	if exePath, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exePath)
		candidates = append(candidates,
			filepath.Join(exeDir, "migrations"),
			filepath.Join(exeDir, "..", "migrations"),
			filepath.Join(exeDir, "..", "..", "migrations"),
		)
	}
	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && info.IsDir() {
			return candidate, nil
		}
	}
	return "", errors.New("migrations directory not found")
}

func runUp(_ *cobra.Command, _ []string) error {
	m, log, err := newMigrator()
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	log.Info("migration up successful")
	return nil
}

func runDown(_ *cobra.Command, _ []string) error {
	m, log, err := newMigrator()
	if err != nil {
		return err
	}
	defer m.Close()

	if steps > 0 {
		err = m.Steps(-steps)
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down failed: %w", err)
	}
	log.Info("migration down successful", "steps", steps)
	return nil
}

func runVersion(_ *cobra.Command, _ []string) error {
	m, log, err := newMigrator()
	if err != nil {
		return err
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Info("no migrations applied")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	log.Info("current migration version", "version", version, "dirty", dirty)
	return nil
}
