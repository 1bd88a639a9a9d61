package metric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestROCAUC(t *testing.T) {
	tests := []struct {
		name   string
		labels []float64
		scores []float64
		want   float64
	}{
		{"perfect", []float64{0, 1}, []float64{0.1, 0.9}, 1.0},
		{"inverted", []float64{0, 1}, []float64{0.9, 0.1}, 0.0},
		{"labels as scores", []float64{0, 1, 1, 0, 1, 0}, []float64{0, 1, 1, 0, 1, 0}, 1.0},
		{"complement", []float64{0, 1, 1, 0, 1, 0}, []float64{1, 0, 0, 1, 0, 1}, 0.0},
		{"constant", []float64{0, 1, 1, 0, 0}, []float64{0, 0, 0, 0, 0}, 0.5},
		{"partial", []float64{0, 0, 1, 1}, []float64{0.1, 0.4, 0.35, 0.8}, 0.75},
		{"tie across classes", []float64{0, 1, 0, 1}, []float64{0.2, 0.5, 0.5, 0.9}, 0.875},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ROCAUC(tt.labels, tt.scores)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestROCAUC_Errors(t *testing.T) {
	tests := []struct {
		name   string
		labels []float64
		scores []float64
		want   error
	}{
		{"empty", nil, nil, ErrNoSamples},
		{"length", []float64{0, 1}, []float64{0.5}, ErrLengthMismatch},
		{"all positive", []float64{1, 1, 1}, []float64{0.1, 0.2, 0.3}, ErrSingleClass},
		{"all negative", []float64{0, 0}, []float64{0.1, 0.2}, ErrSingleClass},
		{"non binary", []float64{0, 2}, []float64{0.1, 0.2}, ErrInvalidLabel},
		{"nan", []float64{0, 1}, []float64{math.NaN(), 0.2}, ErrInvalidScore},
		{"inf", []float64{0, 1}, []float64{0.1, math.Inf(1)}, ErrInvalidScore},
		{"negative inf", []float64{0, 1}, []float64{math.Inf(-1), 0.2}, ErrInvalidScore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ROCAUC(tt.labels, tt.scores)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEvaluate(t *testing.T) {
	auc, c, err := Evaluate([]float64{0, 0, 1, 1, 1}, []float64{0.1, 0.4, 0.35, 0.8, 0.9})
	require.NoError(t, err)
	assert.InDelta(t, 5.0/6.0, auc, 1e-12)
	assert.Equal(t, ClassCounts{Positives: 3, Negatives: 2}, c)

	_, _, err = Evaluate([]float64{0, 1}, []float64{0.1})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestROCAUC_MonotonicTransform(t *testing.T) {
	labels := []float64{0, 1, 0, 1, 1, 0, 0, 1}
	scores := []float64{0.3, 0.6, 0.1, 0.2, 0.9, 0.6, 0.45, 0.7}

	base, err := ROCAUC(labels, scores)
	require.NoError(t, err)

	transformed := make([]float64, len(scores))
	for i, s := range scores {
		transformed[i] = math.Exp(3*s) - 7
	}

	got, err := ROCAUC(labels, transformed)
	require.NoError(t, err)
	assert.InDelta(t, base, got, 1e-12)
}

func TestROCAUC_PermutationInvariant(t *testing.T) {
	labels := []float64{0, 1, 0, 1, 1}
	scores := []float64{0.3, 0.6, 0.7, 0.2, 0.9}

	base, err := ROCAUC(labels, scores)
	require.NoError(t, err)

	labels[0], labels[3] = labels[3], labels[0]
	scores[0], scores[3] = scores[3], scores[0]

	got, err := ROCAUC(labels, scores)
	require.NoError(t, err)
	assert.InDelta(t, base, got, 1e-12)
}

func TestMidRanks(t *testing.T) {
	got := midRanks([]float64{0.5, 0.1, 0.5, 0.9})
	assert.Equal(t, []float64{2.5, 1, 2.5, 4}, got)
}
