// Command leaguectl is the league operations CLI.
//
// Usage:
//
//	leaguectl migrate
//	leaguectl seed demo
//	leaguectl rankings --scope lifetime
//	leaguectl rankings --scope season/3
//	leaguectl rankings --scope date/2026-08-05
//	leaguectl export --out backup.xlsx
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/courtrank/league-data/internal/config"
	"github.com/courtrank/league-data/internal/db"
	"github.com/courtrank/league-data/internal/export"
	"github.com/courtrank/league-data/internal/ranking"
	"github.com/courtrank/league-data/internal/seed"
	"github.com/courtrank/league-data/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "leaguectl",
		Short: "League operations CLI",
	}

	root.AddCommand(migrateCmd())
	root.AddCommand(seedCmd())
	root.AddCommand(rankingsCmd())
	root.AddCommand(exportCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// migrate command
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			// A plain pool: the schema may not exist yet, so the prepared
			// statements db.New registers would fail here.
			pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer pool.Close()

			if err := db.Migrate(ctx, pool); err != nil {
				return err
			}
			logger.Info("Schema applied")
			return nil
		},
	}
}

// --------------------------------------------------------------------------
// seed command
// --------------------------------------------------------------------------

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert data for local development",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "demo",
		Short: "Insert a small sample league",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			st, closeFn, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			result := seed.Demo(ctx, st)
			logger.Info("Seed complete", "summary", result.Summary())
			for _, e := range result.Errors {
				logger.Warn("Seed error", "error", e)
			}
			return nil
		},
	})
	return cmd
}

// --------------------------------------------------------------------------
// rankings command
// --------------------------------------------------------------------------

func rankingsCmd() *cobra.Command {
	var selector string

	cmd := &cobra.Command{
		Use:   "rankings",
		Short: "Print a ranking table",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			scope, err := ranking.ParseScope(selector)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			st, closeFn, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			rows, err := ranking.Compute(ctx, ranking.StoreSource{Store: st},
				scope, ranking.OptionsFromConfig(cfg))
			if err != nil {
				return err
			}

			fmt.Printf("%-4s %-20s %7s %5s %7s %7s %6s %10s\n",
				"#", "Name", "Matches", "Wins", "Losses", "Points", "Win%", "Money lost")
			for i, r := range rows {
				fmt.Printf("%-4d %-20s %7d %5d %7d %7d %5d%% %10d\n",
					i+1, r.Name, r.TotalMatches, r.Wins, r.Losses, r.Points,
					r.WinPercentage, r.MoneyLost)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&selector, "scope", "lifetime",
		"ranking scope: lifetime, season/<id>, or date/<YYYY-MM-DD>")
	return cmd
}

// --------------------------------------------------------------------------
// export command
// --------------------------------------------------------------------------

func exportCmd() *cobra.Command {
	var out string
	var selector string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write an Excel backup workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			scope, err := ranking.ParseScope(selector)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			st, closeFn, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			f, err := export.Workbook(ctx, st, cfg, scope)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := f.SaveAs(out); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			logger.Info("Backup written", "path", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "league-backup.xlsx", "output file path")
	cmd.Flags().StringVar(&selector, "scope", "lifetime",
		"ranking scope for the Rankings sheet")
	return cmd
}

// --------------------------------------------------------------------------
// helpers
// --------------------------------------------------------------------------

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func openStore(ctx context.Context) (*store.Store, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	pool, err := db.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return store.New(pool), pool.Close, nil
}
