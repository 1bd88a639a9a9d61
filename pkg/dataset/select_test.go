package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortedSet(t *testing.T, content string) *Set {
	t.Helper()
	s, err := Read(strings.NewReader(content), DefaultColumns())
	require.NoError(t, err)
	s.Sort()
	return s
}

func TestSelectByPosition(t *testing.T) {
	s := sortedSet(t, "id,target\n2,1\n1,0\n3,1\n")

	got, err := s.SelectByPosition([]int{2, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0}, got)

	_, err = s.SelectByPosition([]int{3})
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = s.SelectByPosition([]int{-1})
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestSelectByID(t *testing.T) {
	s := sortedSet(t, "id,target\n20,1\n10,0\n30,1\n")

	got, err := s.SelectByID([]string{"30", "10"})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0}, got)

	_, err = s.SelectByID([]string{"0"})
	assert.ErrorIs(t, err, ErrUnknownID)
}

func TestSelectByID_Duplicate(t *testing.T) {
	s := sortedSet(t, "id,target\n1,1\n1,0\n")
	_, err := s.SelectByID([]string{"1"})
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestSelect_SparseIDsDiverge(t *testing.T) {
	s := sortedSet(t, "id,target\n1,0\n2,1\n")

	byPos, err := s.SelectByPosition([]int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, byPos)

	_, err = s.SelectByID([]string{"0", "1"})
	assert.ErrorIs(t, err, ErrUnknownID)
}

func TestParsePositions(t *testing.T) {
	got, err := ParsePositions([]string{"0", " 3", "1"})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3, 1}, got)

	_, err = ParsePositions([]string{"a"})
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestPositions(t *testing.T) {
	assert.Equal(t, []string{"0", "1", "2"}, Positions(3))
	assert.Empty(t, Positions(0))
}
