package score

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mchmarny/rocauc/pkg/dataset"
	"github.com/mchmarny/rocauc/pkg/metric"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultSampleSize is the size of the baseline request.
	DefaultSampleSize = 15000

	ModeID       Mode = "id"
	ModePosition Mode = "position"
)

// Mode selects how identifiers resolve to reference rows.
type Mode string

var Modes = []Mode{ModeID, ModePosition}

// ParseMode converts a string into a Mode. Empty defaults to ModePosition.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModePosition:
		return ModePosition, nil
	case ModeID:
		return ModeID, nil
	default:
		return "", fmt.Errorf("invalid mode %q, expected one of %v", s, Modes)
	}
}

// Options control column names, selection mode and curve output.
type Options struct {
	Mode        Mode
	Reference   dataset.Columns
	Predictions dataset.Columns
	Curve       bool
}

// DefaultOptions returns positional selection over id/target columns.
func DefaultOptions() Options {
	return Options{
		Mode:        ModePosition,
		Reference:   dataset.DefaultColumns(),
		Predictions: dataset.DefaultColumns(),
	}
}

func (o Options) withDefaults() Options {
	def := dataset.DefaultColumns()
	if o.Reference.ID == "" {
		o.Reference.ID = def.ID
	}
	if o.Reference.Target == "" {
		o.Reference.Target = def.Target
	}
	if o.Predictions.ID == "" {
		o.Predictions.ID = def.ID
	}
	if o.Predictions.Target == "" {
		o.Predictions.Target = def.Target
	}
	return o
}

// Request is a single scoring call. Predictions and Identifiers are
// parallel and must have the same length.
type Request struct {
	Predictions []float64
	Identifiers []string
	Reference   string
	Options     Options
}

// Result is the outcome of a scoring call.
type Result struct {
	AUC         float64        `json:"auc" yaml:"auc"`
	Mode        Mode           `json:"mode" yaml:"mode"`
	Reference   string         `json:"reference" yaml:"reference"`
	Predictions string         `json:"predictions,omitempty" yaml:"predictions,omitempty"`
	Count       int            `json:"count" yaml:"count"`
	Positives   int            `json:"positives" yaml:"positives"`
	Negatives   int            `json:"negatives" yaml:"negatives"`
	Curve       []metric.Point `json:"curve,omitempty" yaml:"curve,omitempty"`
}

// Defaults returns a new baseline request: n constant zero predictions
// for row positions 0..n-1. Every call allocates fresh slices.
func Defaults(n int, reference string) *Request {
	return &Request{
		Predictions: make([]float64, n),
		Identifiers: dataset.Positions(n),
		Reference:   reference,
		Options:     DefaultOptions(),
	}
}

// Score loads the reference set, sorts it by id, selects the targets for
// the request identifiers and returns their ROC AUC against predictions.
func Score(ctx context.Context, req *Request) (*Result, error) {
	if req == nil {
		return nil, errors.New("request required")
	}
	if len(req.Predictions) != len(req.Identifiers) {
		return nil, fmt.Errorf("%w: %d predictions, %d identifiers",
			metric.ErrLengthMismatch, len(req.Predictions), len(req.Identifiers))
	}

	opts := req.Options.withDefaults()

	ref, err := dataset.Load(ctx, req.Reference, opts.Reference)
	if err != nil {
		return nil, fmt.Errorf("error loading reference: %w", err)
	}

	return evaluate(ref, req.Predictions, req.Identifiers, opts)
}

// SelfCheck scores the training set target column against the reference
// using the training ids. When both files agree the result is 1.0.
func SelfCheck(ctx context.Context, train, reference string, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	return scorePair(ctx, train, opts.Reference, reference, opts)
}

// ScoreFile scores a predictions file against the reference.
func ScoreFile(ctx context.Context, predictions, reference string, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	return scorePair(ctx, predictions, opts.Predictions, reference, opts)
}

func scorePair(ctx context.Context, predictions string, predCols dataset.Columns, reference string, opts Options) (*Result, error) {
	var pred, ref *dataset.Set

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := dataset.Load(gctx, predictions, predCols)
		if err != nil {
			return fmt.Errorf("error loading predictions: %w", err)
		}
		pred = s
		return nil
	})
	g.Go(func() error {
		s, err := dataset.Load(gctx, reference, opts.Reference)
		if err != nil {
			return fmt.Errorf("error loading reference: %w", err)
		}
		ref = s
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pred.Sort()

	res, err := evaluate(ref, pred.Targets(), pred.IDs(), opts)
	if err != nil {
		return nil, err
	}
	res.Predictions = predictions
	return res, nil
}

func evaluate(ref *dataset.Set, predictions []float64, ids []string, opts Options) (*Result, error) {
	if len(predictions) != len(ids) {
		return nil, fmt.Errorf("%w: %d predictions, %d identifiers",
			metric.ErrLengthMismatch, len(predictions), len(ids))
	}

	mode, err := ParseMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}

	ref.Sort()

	dense := ref.IsDense()

	var labels []float64
	switch mode {
	case ModeID:
		if !dense {
			slog.Warn("reference ids are not a dense 0..n-1 range, id values do not match row positions",
				"reference", ref.Source, "rows", ref.Len())
		}
		labels, err = ref.SelectByID(ids)
	default:
		if !dense {
			slog.Warn("reference ids are not a dense 0..n-1 range, positions do not match id values",
				"reference", ref.Source, "rows", ref.Len())
		}
		positions, perr := dataset.ParsePositions(ids)
		if perr != nil {
			return nil, perr
		}
		labels, err = ref.SelectByPosition(positions)
	}
	if err != nil {
		return nil, fmt.Errorf("error selecting reference rows: %w", err)
	}

	auc, counts, err := metric.Evaluate(labels, predictions)
	if err != nil {
		return nil, err
	}

	res := &Result{
		AUC:       auc,
		Mode:      mode,
		Reference: ref.Source,
		Count:     len(labels),
		Positives: counts.Positives,
		Negatives: counts.Negatives,
	}

	if opts.Curve {
		if res.Curve, err = metric.Curve(labels, predictions); err != nil {
			return nil, err
		}
	}

	slog.Debug("scored", "auc", auc, "count", res.Count, "mode", mode)
	return res, nil
}
