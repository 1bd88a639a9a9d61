package dataset

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0600))
	return p
}

func TestRead(t *testing.T) {
	s, err := Read(strings.NewReader("id,feature,target\n2,a,1\n0,b,0\n1,c,1\n"), DefaultColumns())
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"2", "0", "1"}, s.IDs())
	assert.Equal(t, []float64{1, 0, 1}, s.Targets())
}

func TestRead_CustomColumns(t *testing.T) {
	s, err := Read(strings.NewReader("key,prob\nx,0.25\ny,0.75\n"), Columns{ID: "key", Target: "prob"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.75}, s.Targets())
}

func TestRead_BOMHeader(t *testing.T) {
	s, err := Read(strings.NewReader("\ufeffid,target\n1,0\n"), DefaultColumns())
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"empty", "", ErrMalformed},
		{"missing id", "key,target\n1,0\n", ErrMissingColumn},
		{"missing target", "id,label\n1,0\n", ErrMissingColumn},
		{"bad target", "id,target\n1,yes\n", ErrMalformed},
		{"field count", "id,target\n1,0,3\n", ErrMalformed},
		{"bare quote", "id,target\n\"1,0\n", ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.content), DefaultColumns())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSort_Numeric(t *testing.T) {
	s, err := Read(strings.NewReader("id,target\n10,1\n2,0\n1,1\n"), DefaultColumns())
	require.NoError(t, err)
	s.Sort()
	assert.Equal(t, []string{"1", "2", "10"}, s.IDs())
	assert.Equal(t, []float64{1, 0, 1}, s.Targets())
}

func TestSort_Lexicographic(t *testing.T) {
	s, err := Read(strings.NewReader("id,target\nb,1\n10,0\na,1\n"), DefaultColumns())
	require.NoError(t, err)
	s.Sort()
	assert.Equal(t, []string{"10", "a", "b"}, s.IDs())
}

func TestSort_Stable(t *testing.T) {
	s, err := Read(strings.NewReader("id,target\n1,1\n0,0\n1,0\n"), DefaultColumns())
	require.NoError(t, err)
	s.Sort()
	assert.Equal(t, []float64{0, 1, 0}, s.Targets())
}

func TestIsDense(t *testing.T) {
	dense, err := Read(strings.NewReader("id,target\n1,1\n0,0\n2,0\n"), DefaultColumns())
	require.NoError(t, err)
	dense.Sort()
	assert.True(t, dense.IsDense())

	sparse, err := Read(strings.NewReader("id,target\n1,0\n2,1\n"), DefaultColumns())
	require.NoError(t, err)
	sparse.Sort()
	assert.False(t, sparse.IsDense())
}

func TestLoad(t *testing.T) {
	p := writeCSV(t, "cheat_solutions.csv", "id,target\n1,0\n0,1\n")
	s, err := Load(context.Background(), p, DefaultColumns())
	require.NoError(t, err)
	assert.Equal(t, p, s.Source)
	assert.Equal(t, 2, s.Len())
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), DefaultColumns())
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoad_EmptySource(t *testing.T) {
	_, err := Load(context.Background(), "", DefaultColumns())
	assert.Error(t, err)
}

func TestLoad_Remote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("id,target\n0,0\n1,1\n"))
	}))
	defer srv.Close()

	s, err := Load(context.Background(), srv.URL+"/cheat_solutions.csv", DefaultColumns())
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, s.Targets())
}
