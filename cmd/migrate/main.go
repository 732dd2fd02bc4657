package main

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/assetdesk/backend/internal/infrastructure/config"
	"github.com/assetdesk/backend/internal/infrastructure/logger"
	"github.com/assetdesk/backend/internal/infrastructure/migration"
	"github.com/assetdesk/backend/migrations"
	_ "github.com/lib/pq"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type cli struct {
	migrationsPath string
	logLevel       string
	log            *zap.Logger
}

func main() {
	c := &cli{}
	root := c.rootCmd()
	err := root.Execute()
	if c.log != nil {
		_ = logger.Sync(c.log)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "assetdesk database migration tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.New(&logger.Config{
				Level:      c.logLevel,
				Format:     "console",
				Output:     "stdout",
				TimeFormat: "2006-01-02 15:04:05",
			})
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			c.log = log
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.migrationsPath, "path", "", "migrations directory (default: the migrations built into the binary)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(
		c.migratorCmd("up", "Apply all pending migrations", cobra.NoArgs,
			func(m *migration.Migrator, _ []string) error { return m.Up() }),
		c.migratorCmd("down", "Roll back all migrations", cobra.NoArgs,
			func(m *migration.Migrator, _ []string) error { return m.Down() }),
		c.migratorCmd("step <n>", "Apply n migrations (negative rolls back)", cobra.ExactArgs(1),
			func(m *migration.Migrator, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				return m.Steps(n)
			}),
		c.migratorCmd("goto <version>", "Migrate to a specific version", cobra.ExactArgs(1),
			func(m *migration.Migrator, args []string) error {
				version, err := strconv.ParseUint(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid version %q", args[0])
				}
				return m.GoTo(uint(version))
			}),
		c.migratorCmd("version", "Show the current migration version", cobra.NoArgs,
			func(m *migration.Migrator, _ []string) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				if version == 0 {
					c.log.Info("No migrations applied")
					return nil
				}
				c.log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
				return nil
			}),
		c.migratorCmd("force <version>", "Set the version without running migrations", cobra.ExactArgs(1),
			func(m *migration.Migrator, args []string) error {
				version, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q", args[0])
				}
				return m.Force(version)
			}),
		c.dropCmd(),
		c.createCmd(),
		c.listCmd(),
	)
	return root
}

// migratorCmd builds a subcommand that runs fn against the configured database
func (c *cli) migratorCmd(use, short string, args cobra.PositionalArgs, fn func(*migration.Migrator, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withMigrator(func(m *migration.Migrator) error { return fn(m, args) })
		},
	}
}

func (c *cli) dropCmd() *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Drop every database object",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("drop cancelled, pass --confirm")
			}
			return c.withMigrator(func(m *migration.Migrator) error { return m.Drop() })
		},
	}
	cmd.Flags().BoolVar(&confirm, "confirm", false, "confirm dropping all data")
	return cmd
}

func (c *cli) createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> [description]",
		Short: "Create a new migration file pair",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := ""
			if len(args) > 1 {
				description = args[1]
			}
			dir := c.migrationsPath
			if dir == "" {
				dir = "migrations"
			}
			mf, err := migration.NewCreator(afero.NewOsFs(), dir).Create(args[0], description)
			if err != nil {
				return err
			}
			c.log.Info("Migration created",
				zap.String("version", mf.Version),
				zap.String("up_file", mf.UpPath),
				zap.String("down_file", mf.DownPath),
			)
			return nil
		},
	}
}

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var fsys fs.FS = migrations.FS
			if c.migrationsPath != "" {
				fsys = os.DirFS(c.migrationsPath)
			}
			names, err := migration.ListMigrations(fsys)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func (c *cli) withMigrator(fn func(*migration.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	var m *migration.Migrator
	if c.migrationsPath != "" {
		m, err = migration.New(db, c.migrationsPath, c.log)
	} else {
		m, err = migration.NewWithFS(db, migrations.FS, c.log)
	}
	if err != nil {
		return err
	}
	defer m.Close()

	if err := fn(m); err != nil {
		c.log.Error("Migration failed", zap.Error(err))
		return err
	}
	return nil
}
