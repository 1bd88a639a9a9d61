package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mchmarny/rocauc/pkg/score"
	"github.com/urfave/cli/v3"
)

const (
	predictionsFlagName = "predictions"
	curveFlagName       = "curve"
	countFlagName       = "count"
)

func newPredictionsFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     predictionsFlagName,
		Aliases:  []string{"p"},
		Usage:    "Predictions CSV with id and score columns, path or URL",
		Required: true,
	}
}

func newCheckCmd() *cli.Command {
	return &cli.Command{
		Name:   "check",
		Usage:  "Score the training set target column against the reference (default action)",
		Action: cmdCheck,
	}
}

func newScoreCmd() *cli.Command {
	return &cli.Command{
		Name:    "score",
		Aliases: []string{"s"},
		Usage:   "Score a predictions file against the reference",
		UsageText: `rocauc score --predictions submission.csv
   rocauc --score-column prob score -p submission.csv --curve --format json`,
		Action: cmdScore,
		Flags: []cli.Flag{
			newPredictionsFlag(),
			&cli.BoolFlag{
				Name:  curveFlagName,
				Usage: "Include ROC curve points in json/yaml output",
			},
		},
	}
}

func newBaselineCmd() *cli.Command {
	return &cli.Command{
		Name:   "baseline",
		Usage:  "Score constant zero predictions over the first N reference rows",
		Action: cmdBaseline,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  countFlagName,
				Usage: fmt.Sprintf("Number of reference rows in the baseline (default: %d)", score.DefaultSampleSize),
				Value: score.DefaultSampleSize,
			},
		},
	}
}

func newCurveCmd() *cli.Command {
	return &cli.Command{
		Name:   "curve",
		Usage:  "Print the ROC curve of a predictions file as CSV (or json/yaml)",
		Action: cmdCurve,
		Flags: []cli.Flag{
			newPredictionsFlag(),
		},
	}
}

func cmdCheck(ctx context.Context, cmd *cli.Command) error {
	cfg, err := getConfig(cmd)
	if err != nil {
		return err
	}

	slog.Debug("self-check", "train", cfg.Train, "reference", cfg.Reference, "mode", cfg.Options.Mode)
	res, err := score.SelfCheck(ctx, cfg.Train, cfg.Reference, cfg.Options)
	if err != nil {
		return fmt.Errorf("self-check failed: %w", err)
	}

	return finish(cmd, cfg, "check", res)
}

func cmdScore(ctx context.Context, cmd *cli.Command) error {
	cfg, err := getConfig(cmd)
	if err != nil {
		return err
	}

	opts := cfg.Options
	opts.Curve = cmd.Bool(curveFlagName)

	res, err := score.ScoreFile(ctx, cmd.String(predictionsFlagName), cfg.Reference, opts)
	if err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}

	return finish(cmd, cfg, "score", res)
}

func cmdBaseline(ctx context.Context, cmd *cli.Command) error {
	cfg, err := getConfig(cmd)
	if err != nil {
		return err
	}

	n := cmd.Int(countFlagName)
	if n <= 0 {
		return fmt.Errorf("count must be positive, got %d", n)
	}

	req := score.Defaults(n, cfg.Reference)
	req.Options.Reference = cfg.Options.Reference

	res, err := score.Score(ctx, req)
	if err != nil {
		return fmt.Errorf("baseline failed: %w", err)
	}

	return finish(cmd, cfg, "baseline", res)
}

func cmdCurve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := getConfig(cmd)
	if err != nil {
		return err
	}

	opts := cfg.Options
	opts.Curve = true

	res, err := score.ScoreFile(ctx, cmd.String(predictionsFlagName), cfg.Reference, opts)
	if err != nil {
		return fmt.Errorf("curve failed: %w", err)
	}

	if cfg.Format == formatText {
		return writeCurveCSV(cmd.Root().Writer, res.Curve)
	}
	return encode(cmd.Root().Writer, cfg.Format, res.Curve)
}

// finish records the run when history is enabled and prints the result.
func finish(cmd *cli.Command, cfg *appConfig, name string, res *score.Result) error {
	if cfg.History {
		if err := recordRun(cfg, name, res); err != nil {
			slog.Error("failed to record run", "error", err)
		}
	}
	return writeResult(cmd.Root().Writer, cfg.Format, res)
}
