package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"mentor-scheduler/core/config"
	"mentor-scheduler/core/database"
	"mentor-scheduler/core/logger"
	"mentor-scheduler/core/server"
	"mentor-scheduler/core/worker"
	"mentor-scheduler/migrations"

	"github.com/urfave/cli/v2"
)

// @title Mentor Scheduler API
// @version 1.0
// @description Calendars, bookings and notifications for class leaders and partners

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	app := &cli.App{
		Name:  "mentor-scheduler",
		Usage: "scheduling and booking API for class leaders and partners",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "config-path",
				Usage:   "directories searched for config.yaml",
				EnvVars: []string{"APP_CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP API",
				Action: func(c *cli.Context) error {
					cfg, err := load(c)
					if err != nil {
						return err
					}
					return server.Run(c.Context, cfg)
				},
			},
			{
				Name:  "worker",
				Usage: "run the notification consumer and the completion sweep",
				Action: func(c *cli.Context) error {
					cfg, err := load(c)
					if err != nil {
						return err
					}
					return worker.Run(c.Context, cfg)
				},
			},
			{
				Name:  "migrate",
				Usage: "apply pending database migrations",
				Action: func(c *cli.Context) error {
					cfg, err := load(c)
					if err != nil {
						return err
					}
					db, err := database.Open(cfg.Database)
					if err != nil {
						return err
					}
					defer db.Close()
					return db.Migrate(c.Context, migrations.FS)
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		logger.Error("run error", err)
		stop()
		os.Exit(1)
	}
}

func load(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.StringSlice("config-path")...)
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}
