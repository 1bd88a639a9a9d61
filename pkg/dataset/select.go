package dataset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrOutOfRange  = errors.New("position out of range")
	ErrUnknownID   = errors.New("unknown id")
	ErrDuplicateID = errors.New("duplicate id")
)

// SelectByPosition returns the targets at the given zero-based row
// positions, in the order given.
func (s *Set) SelectByPosition(positions []int) ([]float64, error) {
	list := make([]float64, len(positions))
	for i, p := range positions {
		if p < 0 || p >= len(s.Records) {
			return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, p, len(s.Records))
		}
		list[i] = s.Records[p].Target
	}
	return list, nil
}

// SelectByID returns the targets of the records matching ids, in the
// order given. Reference ids must be unique.
func (s *Set) SelectByID(ids []string) ([]float64, error) {
	index := make(map[string]int, len(s.Records))
	for i, r := range s.Records {
		if _, ok := index[r.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
		index[r.ID] = i
	}

	list := make([]float64, len(ids))
	for i, id := range ids {
		p, ok := index[strings.TrimSpace(id)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownID, id)
		}
		list[i] = s.Records[p].Target
	}
	return list, nil
}

// ParsePositions converts identifiers into integer row positions.
func ParsePositions(ids []string) ([]int, error) {
	list := make([]int, len(ids))
	for i, id := range ids {
		p, err := strconv.Atoi(strings.TrimSpace(id))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a row position", ErrOutOfRange, id)
		}
		list[i] = p
	}
	return list, nil
}

// Positions returns the identifiers 0..n-1 as strings.
func Positions(n int) []string {
	list := make([]string, n)
	for i := range list {
		list[i] = strconv.Itoa(i)
	}
	return list
}
