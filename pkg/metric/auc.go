package metric

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	ErrNoSamples      = errors.New("no samples")
	ErrLengthMismatch = errors.New("labels and scores length mismatch")
	ErrInvalidLabel   = errors.New("label must be 0 or 1")
	ErrInvalidScore   = errors.New("score must be a finite number")
	ErrSingleClass    = errors.New("only one class present in labels, ROC AUC is undefined")
)

// ClassCounts holds the number of positive and negative labels.
type ClassCounts struct {
	Positives int `json:"positives" yaml:"positives"`
	Negatives int `json:"negatives" yaml:"negatives"`
}

// Validate checks labels and scores and counts the two classes.
func Validate(labels, scores []float64) (ClassCounts, error) {
	var c ClassCounts
	if len(labels) != len(scores) {
		return c, fmt.Errorf("%w: %d labels, %d scores", ErrLengthMismatch, len(labels), len(scores))
	}
	if len(labels) == 0 {
		return c, ErrNoSamples
	}

	for i, l := range labels {
		switch l {
		case 1:
			c.Positives++
		case 0:
			c.Negatives++
		default:
			return c, fmt.Errorf("%w: %v at %d", ErrInvalidLabel, l, i)
		}
		if math.IsNaN(scores[i]) || math.IsInf(scores[i], 0) {
			return c, fmt.Errorf("%w: %v at %d", ErrInvalidScore, scores[i], i)
		}
	}

	if c.Positives == 0 || c.Negatives == 0 {
		return c, fmt.Errorf("%w (positives: %d, negatives: %d)", ErrSingleClass, c.Positives, c.Negatives)
	}

	return c, nil
}

// ROCAUC returns the area under the ROC curve: the probability that a
// random positive sample is scored above a random negative one, with
// ties counted as one half.
func ROCAUC(labels, scores []float64) (float64, error) {
	auc, _, err := Evaluate(labels, scores)
	return auc, err
}

// Evaluate validates the input once and returns the ROC AUC together
// with the class counts.
func Evaluate(labels, scores []float64) (float64, ClassCounts, error) {
	c, err := Validate(labels, scores)
	if err != nil {
		return 0, c, err
	}
	return rocauc(labels, scores, c), c, nil
}

func rocauc(labels, scores []float64, c ClassCounts) float64 {
	ranks := midRanks(scores)

	var posRankSum float64
	for i, l := range labels {
		if l == 1 {
			posRankSum += ranks[i]
		}
	}

	p := float64(c.Positives)
	n := float64(c.Negatives)
	u := posRankSum - p*(p+1)/2

	return u / (p * n)
}

// midRanks assigns 1-based ranks in ascending score order, tied scores
// share the average of the ranks they span.
func midRanks(scores []float64) []float64 {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmpFloat(scores[a], scores[b])
	})

	ranks := make([]float64, len(scores))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && scores[idx[j+1]] == scores[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
