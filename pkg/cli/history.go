package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/mchmarny/rocauc/pkg/data"
	"github.com/mchmarny/rocauc/pkg/score"
	"github.com/urfave/cli/v3"
)

const (
	historyLimitFlagName = "limit"
	yesFlagName          = "yes"
)

func newHistoryCmd() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect or clear the local run history",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List recorded runs, newest first",
				Action: cmdHistoryList,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  historyLimitFlagName,
						Usage: fmt.Sprintf("Number of most recent runs to list (default: %d)", data.RunListLimitDefault),
						Value: data.RunListLimitDefault,
					},
				},
			},
			{
				Name:   "reset",
				Usage:  "Delete all recorded runs",
				Action: cmdHistoryReset,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    yesFlagName,
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
				},
			},
		},
	}
}

func recordRun(cfg *appConfig, command string, res *score.Result) error {
	if err := data.Init(cfg.DBPath); err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}

	db, err := data.GetDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	run := &data.Run{
		Command:     command,
		Reference:   res.Reference,
		Predictions: res.Predictions,
		Mode:        string(res.Mode),
		Count:       res.Count,
		Positives:   res.Positives,
		Negatives:   res.Negatives,
		AUC:         res.AUC,
	}
	if err := data.SaveRun(db, run); err != nil {
		return err
	}

	slog.Debug("run recorded", "id", run.ID, "path", cfg.DBPath)
	return nil
}

func cmdHistoryList(_ context.Context, cmd *cli.Command) error {
	cfg, err := getConfig(cmd)
	if err != nil {
		return err
	}

	if err := data.Init(cfg.DBPath); err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	db, err := data.GetDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	runs, err := data.ListRuns(db, cmd.Int(historyLimitFlagName))
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}

	state, err := data.GetDataState(db)
	if err != nil {
		return fmt.Errorf("reading history state: %w", err)
	}
	slog.Debug("history state", "runs", state["runs"], "schema_version", state["schema_version"])

	if cfg.Format != formatText {
		return encode(cmd.Root().Writer, cfg.Format, runs)
	}

	w := cmd.Root().Writer
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tCOMMAND\tMODE\tCOUNT\tAUC")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Command, r.Mode, r.Count, formatFloat(r.AUC))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "\n%d of %d runs (schema v%d)\n", len(runs), state["runs"], state["schema_version"])
	return err
}

func cmdHistoryReset(_ context.Context, cmd *cli.Command) error {
	cfg, err := getConfig(cmd)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer

	if !cmd.Bool(yesFlagName) {
		fmt.Fprintf(w, "This will permanently delete all runs in %s\n", cfg.DBPath)
		fmt.Fprint(w, "Are you sure? [y/N]: ")

		answer, err := bufio.NewReader(cmd.Root().Reader).ReadString('\n')
		if err != nil && answer == "" {
			return fmt.Errorf("reading input: %w", err)
		}

		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Fprintln(w, "Aborted.")
			return nil
		}
	}

	if err := data.Init(cfg.DBPath); err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	db, err := data.GetDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	n, err := data.DeleteRuns(db)
	if err != nil {
		return fmt.Errorf("deleting runs: %w", err)
	}

	slog.Info("run history cleared", "path", cfg.DBPath, "deleted", n)
	fmt.Fprintln(w, "Reset complete.")
	return nil
}
