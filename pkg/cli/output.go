package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/mchmarny/rocauc/pkg/metric"
	"github.com/mchmarny/rocauc/pkg/score"
	"gopkg.in/yaml.v3"
)

func encode(w io.Writer, format string, v any) error {
	if format == formatYAML {
		e := yaml.NewEncoder(w)
		if err := e.Encode(v); err != nil {
			return fmt.Errorf("error encoding yaml: %w", err)
		}
		return e.Close()
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	if err := e.Encode(v); err != nil {
		return fmt.Errorf("error encoding json: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// writeResult prints the bare AUC in text format, the full result otherwise.
func writeResult(w io.Writer, format string, res *score.Result) error {
	if format == formatText {
		_, err := fmt.Fprintln(w, formatFloat(res.AUC))
		return err
	}
	return encode(w, format, res)
}

func writeCurveCSV(w io.Writer, points []metric.Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"threshold", "fpr", "tpr"}); err != nil {
		return fmt.Errorf("error writing curve header: %w", err)
	}
	for _, p := range points {
		if err := cw.Write([]string{formatFloat(p.Threshold), formatFloat(p.FPR), formatFloat(p.TPR)}); err != nil {
			return fmt.Errorf("error writing curve point: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
