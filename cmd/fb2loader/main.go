package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
	"github.com/shishobooks/fb2catalog/pkg/config"
	"github.com/shishobooks/fb2catalog/pkg/database"
	"github.com/shishobooks/fb2catalog/pkg/ingest"
	"github.com/shishobooks/fb2catalog/pkg/migrations"
	"github.com/shishobooks/fb2catalog/pkg/version"
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	app := &cli.App{
		Name:      "fb2loader",
		Usage:     "load FB2 archives into the catalog",
		ArgsUsage: "ARCHIVE.ZIP...",
		Version:   version.Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "rescan",
				Usage: "walk archives that are already marked as loaded",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the summaries as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("at least one archive is required", 2)
			}

			cfg, err := config.New()
			if err != nil {
				return errors.WithStack(err)
			}

			db, err := database.New(cfg)
			if err != nil {
				return errors.WithStack(err)
			}
			defer db.Close()

			ctx := log.WithContext(c.Context)
			if err := migrate(ctx, log, db); err != nil {
				return errors.WithStack(err)
			}

			driver := ingest.New(cfg, db)
			opts := ingest.Options{Rescan: c.Bool("rescan")}

			summaries := make([]*ingest.Summary, 0, c.NArg())
			for _, path := range c.Args().Slice() {
				summary, err := driver.Load(ctx, path, opts)
				if err != nil {
					return errors.Wrapf(err, "failed to load %s", path)
				}
				summaries = append(summaries, summary)

				if !c.Bool("json") {
					if err := summary.Print(os.Stdout); err != nil {
						return errors.WithStack(err)
					}
				}
			}

			if c.Bool("json") {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return errors.WithStack(enc.Encode(summaries))
			}
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Err(err).Error("load failed")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func migrate(ctx context.Context, log logger.Logger, db *bun.DB) error {
	group, err := migrations.BringUpToDate(ctx, db)
	if err != nil {
		return errors.WithStack(err)
	}
	if group.ID != 0 {
		log.Info("migrated to new group", logger.Data{"group_id": group.ID, "migration_names": group.Migrations.String()})
	}
	return nil
}
