package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/jhoicas/invoice-studio-api/internal/application/billing"
	"github.com/jhoicas/invoice-studio-api/internal/application/dto"
	"github.com/jhoicas/invoice-studio-api/internal/application/notifications"
	"github.com/jhoicas/invoice-studio-api/internal/application/rendering"
	"github.com/jhoicas/invoice-studio-api/internal/domain/entity"
	infrapdf "github.com/jhoicas/invoice-studio-api/internal/infrastructure/pdf"
	"github.com/jhoicas/invoice-studio-api/internal/infrastructure/postgres"
	"github.com/jhoicas/invoice-studio-api/pkg/config"
	"github.com/jhoicas/invoice-studio-api/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "invoicectl",
		Usage: "tareas de operación de invoice-studio",
		Commands: []*cli.Command{
			migrateCommand(),
			migrationsCommand(),
			sweepCommand(),
			renderCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "aplica las migraciones pendientes",
		Action: func(c *cli.Context) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			pool, err := postgres.NewPool(c.Context, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()
			log.Info().Str("db", postgres.RedactDSN(cfg.DB.ConnectionString())).Msg("aplicando migraciones")
			applied, err := postgres.RunMigrations(c.Context, pool, log.Component("migrate"))
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Println("sin migraciones pendientes")
				return nil
			}
			for _, v := range applied {
				fmt.Println("aplicada", v)
			}
			return nil
		},
	}
}

func migrationsCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrations",
		Usage: "lista las migraciones embebidas",
		Action: func(*cli.Context) error {
			versions, err := postgres.MigrationVersions()
			if err != nil {
				return err
			}
			for _, v := range versions {
				fmt.Println(v)
			}
			return nil
		},
	}
}

func sweepCommand() *cli.Command {
	return &cli.Command{
		Name:  "sweep-overdue",
		Usage: "marca como overdue las facturas pending vencidas (una vez)",
		Action: func(c *cli.Context) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			pool, err := postgres.NewPool(c.Context, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()
			notifier := notifications.NewService(postgres.NewNotificationRepository(pool), log.Component("notifications"))
			sweeper := billing.NewOverdueSweeper(postgres.NewInvoiceRepository(pool), notifier, log.Component("overdue"))
			ctx, cancel := context.WithTimeout(c.Context, time.Minute)
			defer cancel()
			n, err := sweeper.Run(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("%d facturas marcadas como overdue\n", n)
			return nil
		},
	}
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "genera el PDF de un formulario JSON sin base de datos",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Required: true, Usage: "formulario de factura (JSON)"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "archivo PDF de salida (por defecto invoice-<número>.pdf)"},
			&cli.StringFlag{Name: "template", Aliases: []string{"t"}, Usage: "default | professional; sobrescribe la del formulario"},
			&cli.StringFlag{Name: "settings", Aliases: []string{"s"}, Usage: "personalización de plantilla (JSON)"},
		},
		Action: func(c *cli.Context) error {
			raw, err := os.ReadFile(c.String("in"))
			if err != nil {
				return err
			}
			form, err := dto.DecodeInvoiceForm(raw)
			if err != nil {
				return err
			}
			if form == nil {
				return fmt.Errorf("%s: formulario vacío", c.String("in"))
			}
			if c.IsSet("template") {
				if form.Template, err = entity.ParseTemplate(c.String("template")); err != nil {
					return err
				}
			}
			var settings *entity.TemplateSettings
			if path := c.String("settings"); path != "" {
				b, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				settings = &entity.TemplateSettings{}
				if err := json.Unmarshal(b, settings); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if err := settings.Validate(); err != nil {
					return err
				}
			}

			doc, err := rendering.BuildDocument(form, settings, nil, time.Now())
			if err != nil {
				return err
			}
			data, err := infrapdf.NewMarotoRenderer().Render(doc)
			if err != nil {
				return err
			}
			out := c.String("out")
			if out == "" {
				out = doc.Filename()
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Printf("%s (%d bytes, total %s)\n", out, len(data), doc.GrandTotal)
			return nil
		},
	}
}

func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("cargar configuración: %w", err)
	}
	return cfg, logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}), nil
}
