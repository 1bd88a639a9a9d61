package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mchmarny/rocauc/pkg/config"
	"github.com/mchmarny/rocauc/pkg/data"
	"github.com/mchmarny/rocauc/pkg/dataset"
	"github.com/mchmarny/rocauc/pkg/logging"
	"github.com/mchmarny/rocauc/pkg/score"
	"github.com/urfave/cli/v3"
)

const (
	appName      = "rocauc"
	appConfigKey = "app-config"

	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

const (
	debugFlagName        = "debug"
	configDirFlagName    = "config"
	referenceFlagName    = "reference"
	trainFlagName        = "train"
	idColumnFlagName     = "id-column"
	targetColumnFlagName = "target-column"
	scoreColumnFlagName  = "score-column"
	modeFlagName         = "mode"
	formatFlagName       = "format"
	historyFlagName      = "history"
	dbFilePathFlagName   = "db"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""
)

// globalFlags returns new instances on every call, flag values live in
// the flag structs and must not leak between app runs.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  debugFlagName,
			Usage: "Prints verbose logs (optional, default: false)",
		},
		&cli.StringFlag{
			Name:  configDirFlagName,
			Usage: fmt.Sprintf("Directory holding %s (default: $HOME/.%s)", config.FileName, appName),
		},
		&cli.StringFlag{
			Name:    referenceFlagName,
			Aliases: []string{"r"},
			Usage:   fmt.Sprintf("Reference solutions CSV, path or URL (default: %s)", config.ReferenceDefault),
			Sources: cli.EnvVars("ROCAUC_REFERENCE"),
		},
		&cli.StringFlag{
			Name:    trainFlagName,
			Usage:   fmt.Sprintf("Training CSV used by the self-check, path or URL (default: %s)", config.TrainDefault),
			Sources: cli.EnvVars("ROCAUC_TRAIN"),
		},
		&cli.StringFlag{
			Name:  idColumnFlagName,
			Usage: fmt.Sprintf("Identifier column name (default: %s)", config.IDColumnDefault),
		},
		&cli.StringFlag{
			Name:  targetColumnFlagName,
			Usage: fmt.Sprintf("Ground truth label column name (default: %s)", config.TargetDefault),
		},
		&cli.StringFlag{
			Name:  scoreColumnFlagName,
			Usage: fmt.Sprintf("Prediction column name in predictions files (default: %s)", config.TargetDefault),
		},
		&cli.StringFlag{
			Name:    modeFlagName,
			Usage:   fmt.Sprintf("How identifiers select reference rows [%s, %s] (default: %s)", score.ModeID, score.ModePosition, config.ModeDefault),
			Sources: cli.EnvVars("ROCAUC_MODE"),
		},
		&cli.StringFlag{
			Name:  formatFlagName,
			Usage: fmt.Sprintf("Output format [%s, %s, %s] (default: %s)", formatText, formatJSON, formatYAML, config.FormatDefault),
		},
		&cli.BoolFlag{
			Name:  historyFlagName,
			Usage: "Record the result in the local run history",
		},
		&cli.StringFlag{
			Name:  dbFilePathFlagName,
			Usage: fmt.Sprintf("Path to the run history Sqlite file (default: $HOME/.%s/%s)", appName, data.DataFileName),
		},
	}
}

// Execute creates and runs the CLI application.
func Execute() {
	initLogging(false)

	app := newApp()
	if err := app.Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	*config.Config
	DBPath  string
	Options score.Options
}

// getConfig resolves the config once per run. It is called from the
// executing command so flags given after a subcommand name are seen too.
func getConfig(cmd *cli.Command) (*appConfig, error) {
	if cfg, ok := cmd.Root().Metadata[appConfigKey].(*appConfig); ok {
		return cfg, nil
	}

	if cmd.Bool(debugFlagName) {
		initLogging(true)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	cmd.Root().Metadata[appConfigKey] = cfg
	return cfg, nil
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:                  appName,
		Version:               fmt.Sprintf("%s (%s - %s)", version, commit, date),
		EnableShellCompletion: true,
		HideHelpCommand:       true,
		Usage:                 "ROC AUC of predictions against a reference solutions file",
		UsageText: `rocauc                                         # self-check: train.csv target vs cheat_solutions.csv
   rocauc score --predictions submission.csv      # score a submission file
   rocauc baseline --count 15000                  # constant-zero baseline over the first N rows
   rocauc --mode id --format json                 # join identifiers on id values, JSON output`,
		Metadata: map[string]any{},
		Writer:   os.Stdout,
		Reader:   os.Stdin,
		Flags:    globalFlags(),
		Commands: []*cli.Command{
			newCheckCmd(),
			newScoreCmd(),
			newBaselineCmd(),
			newCurveCmd(),
			newHistoryCmd(),
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool(debugFlagName) {
				initLogging(true)
			}
			return ctx, nil
		},
		Action: cmdCheck,
	}
}

func loadConfig(cmd *cli.Command) (*appConfig, error) {
	dir := cmd.String(configDirFlagName)
	if dir == "" {
		dir = getHomeDir()
	}

	c, err := config.ReadOrCreate(dir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	overrides := map[string]*string{
		referenceFlagName:    &c.Reference,
		trainFlagName:        &c.Train,
		idColumnFlagName:     &c.IDColumn,
		targetColumnFlagName: &c.TargetColumn,
		scoreColumnFlagName:  &c.ScoreColumn,
		modeFlagName:         &c.Mode,
		formatFlagName:       &c.Format,
	}
	for name, field := range overrides {
		if cmd.IsSet(name) {
			*field = cmd.String(name)
		}
	}
	if cmd.IsSet(historyFlagName) {
		c.History = cmd.Bool(historyFlagName)
	}

	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if c.Format == "yml" {
		c.Format = formatYAML
	}
	switch c.Format {
	case formatText, formatJSON, formatYAML:
	default:
		return nil, fmt.Errorf("invalid format %q", c.Format)
	}

	mode, err := score.ParseMode(c.Mode)
	if err != nil {
		return nil, err
	}

	dbPath := cmd.String(dbFilePathFlagName)
	if dbPath == "" {
		dbPath = filepath.Join(dir, data.DataFileName)
	}

	return &appConfig{
		Config: c,
		DBPath: dbPath,
		Options: score.Options{
			Mode:        mode,
			Reference:   dataset.Columns{ID: c.IDColumn, Target: c.TargetColumn},
			Predictions: dataset.Columns{ID: c.IDColumn, Target: c.ScoreColumn},
		},
	}, nil
}

func initLogging(debug bool) {
	level := "info"
	if debug {
		level = "debug"
	}
	logging.SetDefaultCLILogger(level)
}

func getHomeDir() string {
	dir, _, err := config.GetOrCreateHomeDir(appName)
	if err != nil {
		slog.Debug("error getting home dir, using current dir instead", "error", err)
		return "."
	}
	return dir
}
