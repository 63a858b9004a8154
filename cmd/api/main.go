package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pg "dairy-farm-management/internal/adapters/storage/postgres"
	"dairy-farm-management/internal/config"
	"dairy-farm-management/internal/domain/users"
	"dairy-farm-management/internal/platform/logger"
	"dairy-farm-management/internal/platform/metrics"
	"dairy-farm-management/internal/router"

	"github.com/urfave/cli/v3"
)

func main() {
	root := &cli.Command{
		Name:  "dairy-farm",
		Usage: "Dairy farm management API and admin CLI",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			usersCommand(),
			inventoryCommand(),
		},
		// Sin subcomando => servir.
		Action: func(ctx context.Context, _ *cli.Command) error {
			return runServer(ctx, config.Load())
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "HTTP port (overrides PORT)"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := config.Load()
			if p := c.String("port"); p != "" {
				cfg.Port = p
			}
			return runServer(ctx, cfg)
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Database migrations (up, down, status)",
		Commands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "Apply pending migrations",
				Action: withDB(migrateUp),
			},
			{
				Name:   "down",
				Usage:  "Roll back the last applied migration",
				Action: withDB(migrateDown),
			},
			{
				Name:  "status",
				Usage: "Show applied and pending migrations",
				Action: withDB(func(ctx context.Context, db *sql.DB) error {
					return pg.MigrationStatus(ctx, db, os.Stdout)
				}),
			},
		},
		// "migrate" a secas equivale a "migrate up".
		Action: withDB(migrateUp),
	}
}

func migrateUp(ctx context.Context, db *sql.DB) error {
	if err := pg.Migrate(ctx, db); err != nil {
		return err
	}
	return printVersion(ctx, db)
}

func migrateDown(ctx context.Context, db *sql.DB) error {
	if err := pg.MigrateDown(ctx, db); err != nil {
		return err
	}
	return printVersion(ctx, db)
}

func printVersion(ctx context.Context, db *sql.DB) error {
	v, err := pg.MigrationVersion(ctx, db)
	if err != nil {
		return err
	}
	fmt.Printf("database at version %d\n", v)
	return nil
}

// withDB abre la base de DB_DSN para un subcomando y la cierra al terminar.
func withDB(fn func(context.Context, *sql.DB) error) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		db, err := openDB(config.Load())
		if err != nil {
			return err
		}
		defer db.Close()
		return fn(ctx, db)
	}
}

func usersCommand() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "User administration",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a user with an explicit role",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "role", Value: string(users.RoleFarmWorker), Usage: "farm_owner, farm_manager, assistant_farm_manager, team_leader or farm_worker"},
					&cli.StringFlag{Name: "first-name"},
					&cli.StringFlag{Name: "last-name"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := openDB(config.Load())
					if err != nil {
						return err
					}
					defer db.Close()

					app := router.New(router.Options{DB: db, Logger: logger.Discard()})
					u, err := app.Users.Create(ctx, users.RegisterInput{
						Email:     c.String("email"),
						Password:  c.String("password"),
						FirstName: c.String("first-name"),
						LastName:  c.String("last-name"),
					}, users.Role(c.String("role")))
					if err != nil {
						return err
					}
					fmt.Printf("created user %s (%s) with role %s\n", u.Email, u.ID, u.Role)
					return nil
				},
			},
		},
	}
}

func inventoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "inventory",
		Usage: "Inventory reports",
		Commands: []*cli.Command{
			{
				Name:  "export",
				Usage: "Write cow and milk inventory to an .xlsx file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Value: "inventory.xlsx", Usage: "output file"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := openDB(config.Load())
					if err != nil {
						return err
					}
					defer db.Close()

					f, err := os.Create(c.String("out"))
					if err != nil {
						return err
					}
					defer f.Close()

					app := router.New(router.Options{DB: db, Logger: logger.Discard()})
					if err := app.Inventory.Export(ctx, f); err != nil {
						return err
					}
					fmt.Printf("inventory written to %s\n", c.String("out"))
					return nil
				},
			},
		},
	}
}

func openDB(cfg config.AppConfig) (*sql.DB, error) {
	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN is required for this command")
	}
	return pg.Open(cfg.DBDSN)
}

func runServer(ctx context.Context, cfg config.AppConfig) error {
	lg := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	opts := router.Options{Logger: lg, SessionTTL: cfg.SessionTTL}
	if cfg.MetricsEnabled {
		opts.Metrics = metrics.New()
	}

	if cfg.DBDSN != "" {
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			return err
		}
		defer db.Close()

		if cfg.MigrateOnStart {
			if err := pg.Migrate(ctx, db); err != nil {
				return err
			}
		}
		opts.DB = db
	} else {
		lg.Warn("DB_DSN not set, using in-memory store", nil)
	}

	app := router.New(opts)

	created, err := app.Users.BootstrapOwner(ctx, cfg.BootstrapOwnerEmail, cfg.BootstrapOwnerPassword)
	if err != nil {
		return err
	}
	if created {
		lg.Info("bootstrap owner created", map[string]any{"email": cfg.BootstrapOwnerEmail})
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      app.Handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("starting server", map[string]any{"addr": srv.Addr})
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		lg.Info("shutting down", map[string]any{"signal": sig.String()})
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
