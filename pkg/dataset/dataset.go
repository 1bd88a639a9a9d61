package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/mchmarny/rocauc/pkg/net"
)

const (
	IDColumnDefault     = "id"
	TargetColumnDefault = "target"

	utf8BOM = "\ufeff"
)

var (
	ErrMalformed     = errors.New("malformed csv")
	ErrMissingColumn = errors.New("missing column")
)

// Columns names the identifier and value columns of a CSV file.
type Columns struct {
	ID     string `json:"id" yaml:"id"`
	Target string `json:"target" yaml:"target"`
}

// DefaultColumns returns the id/target column pair.
func DefaultColumns() Columns {
	return Columns{
		ID:     IDColumnDefault,
		Target: TargetColumnDefault,
	}
}

// Record is a single row: identifier and its value.
type Record struct {
	ID     string  `json:"id" yaml:"id"`
	Target float64 `json:"target" yaml:"target"`

	num int64
}

// Set is an ordered, read-only table of records.
type Set struct {
	Source  string
	Records []Record

	// numeric is set when every id parses as an integer.
	numeric bool
}

// Load reads a set from a local path or an http(s) URL.
func Load(ctx context.Context, source string, cols Columns) (*Set, error) {
	if source == "" {
		return nil, errors.New("data source required")
	}

	path := source
	if net.IsRemote(source) {
		p, cleanup, err := net.DownloadTemp(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("error downloading %s: %w", source, err)
		}
		defer cleanup()
		path = p
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", source, err)
	}
	defer f.Close()

	s, err := Read(f, cols)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", source, err)
	}
	s.Source = source

	slog.Debug("loaded dataset", "source", source, "rows", len(s.Records))
	return s, nil
}

// Read parses CSV content with a header row.
func Read(r io.Reader, cols Columns) (*Set, error) {
	if cols.ID == "" || cols.Target == "" {
		return nil, errors.New("id and target column names required")
	}

	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMalformed)
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	idCol, targetCol := -1, -1
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))
		switch h {
		case cols.ID:
			idCol = i
		case cols.Target:
			targetCol = i
		}
	}
	if idCol < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, cols.ID)
	}
	if targetCol < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, cols.Target)
	}

	s := &Set{
		Records: make([]Record, 0),
		numeric: true,
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		line, _ := cr.FieldPos(0)

		id := strings.TrimSpace(row[idCol])
		v, err := strconv.ParseFloat(strings.TrimSpace(row[targetCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid %s value %q", ErrMalformed, line, cols.Target, row[targetCol])
		}

		rec := Record{ID: id, Target: v}
		if s.numeric {
			n, err := strconv.ParseInt(id, 10, 64)
			if err != nil {
				s.numeric = false
			}
			rec.num = n
		}
		s.Records = append(s.Records, rec)
	}

	return s, nil
}

// Len returns the number of records.
func (s *Set) Len() int {
	return len(s.Records)
}

// Sort orders records by id ascending. The sort is stable. Integer ids
// sort numerically, anything else lexicographically.
func (s *Set) Sort() {
	if s.numeric {
		slices.SortStableFunc(s.Records, func(a, b Record) int {
			switch {
			case a.num < b.num:
				return -1
			case a.num > b.num:
				return 1
			default:
				return 0
			}
		})
		return
	}
	slices.SortStableFunc(s.Records, func(a, b Record) int {
		return strings.Compare(a.ID, b.ID)
	})
}

// IDs returns the record identifiers in current order.
func (s *Set) IDs() []string {
	list := make([]string, len(s.Records))
	for i, r := range s.Records {
		list[i] = r.ID
	}
	return list
}

// Targets returns the record values in current order.
func (s *Set) Targets() []float64 {
	list := make([]float64, len(s.Records))
	for i, r := range s.Records {
		list[i] = r.Target
	}
	return list
}

// IsDense reports whether the ids in current order are exactly 0..n-1,
// the only case where row position and id value coincide.
func (s *Set) IsDense() bool {
	if !s.numeric {
		return false
	}
	for i, r := range s.Records {
		if r.num != int64(i) {
			return false
		}
	}
	return true
}
