package segment

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkSegments(t *testing.T, data []byte, workers int, segments []Segment) {
	t.Helper()
	require.LessOrEqual(t, len(segments), max(workers, 1))
	if len(data) == 0 {
		require.Empty(t, segments)
		return
	}
	require.NotEmpty(t, segments)
	assert.Equal(t, 0, segments[0].Start)
	assert.Equal(t, len(data), segments[len(segments)-1].End)
	for i, s := range segments {
		require.Less(t, s.Start, s.End, "segment %d is empty", i)
		if i > 0 {
			require.Equal(t, segments[i-1].End, s.Start, "gap or overlap before segment %d", i)
			require.Equal(t, byte('\n'), data[s.Start-1], "segment %d starts mid-record", i)
		}
	}
}

func TestSplit(t *testing.T) {
	data := []byte("a;1\nbb;2\nccc;3\ndddd;4\n")
	tests := []struct {
		name    string
		workers int
		want    []Segment
	}{
		{"one worker", 1, []Segment{{0, 22}}},
		{"zero workers", 0, []Segment{{0, 22}}},
		{"two workers", 2, []Segment{{0, 15}, {15, 22}}},
		{"three workers", 3, []Segment{{0, 9}, {9, 15}, {15, 22}}},
		{"more workers than records", 50, []Segment{{0, 4}, {4, 9}, {9, 15}, {15, 22}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(data, tt.workers, '\n')
			assert.Equal(t, tt.want, got)
			checkSegments(t, data, tt.workers, got)
		})
	}
}

func TestSplitEdgeCases(t *testing.T) {
	assert.Empty(t, Split(nil, 4, '\n'))
	assert.Empty(t, Split([]byte{}, 4, '\n'))

	noTerminator := []byte("just one record;1.0")
	assert.Equal(t, []Segment{{0, len(noTerminator)}}, Split(noTerminator, 8, '\n'))

	trailing := []byte("a;1\nb;2")
	got := Split(trailing, 2, '\n')
	checkSegments(t, trailing, 2, got)
	assert.Equal(t, []Segment{{0, 4}, {4, 7}}, got)

	onlyTerminators := []byte("\n\n\n\n")
	got = Split(onlyTerminators, 3, '\n')
	checkSegments(t, onlyTerminators, 3, got)
}

func TestSplitRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for iter := 0; iter < 500; iter++ {
		n := rng.Intn(400)
		data := make([]byte, n)
		density := rng.Intn(20) + 1
		for i := range data {
			if rng.Intn(density) == 0 {
				data[i] = '\n'
			} else {
				data[i] = 'a' + byte(rng.Intn(26))
			}
		}
		workers := rng.Intn(40) + 1
		checkSegments(t, data, workers, Split(data, workers, '\n'))
	}
}

func TestSegmentBytes(t *testing.T) {
	data := []byte("x;1\ny;2\n")
	s := Segment{Start: 4, End: 8}
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, []byte("y;2\n"), s.Bytes(data))
}
