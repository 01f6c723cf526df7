package record

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineWriter(t *testing.T) {
	var buf bytes.Buffer
	lw := NewLineWriter(&buf)
	ctx := context.Background()

	require.NoError(t, lw.Write(ctx, Record{Frame: 0, Seconds: 0, Value: 1}))
	require.NoError(t, lw.Write(ctx, Record{Frame: 1, Seconds: 0.25, Value: -3.25}))
	lw.Precision = 2
	require.NoError(t, lw.Write(ctx, Record{Frame: 2, Seconds: 12.5, Value: 101.326}))

	assert.Equal(t, "0,0.000,1\n1,0.250,-3.25\n2,12.500,101.33\n", buf.String())
}

type errSink struct{ err error }

func (e errSink) Write(context.Context, Record) error { return e.err }

func TestMulti(t *testing.T) {
	var a, b bytes.Buffer
	m := Multi{NewLineWriter(&a), NewLineWriter(&b)}
	require.NoError(t, m.Write(context.Background(), Record{Frame: 3, Seconds: 1, Value: 2}))
	assert.Equal(t, a.String(), b.String())
	assert.Equal(t, "3,1.000,2\n", a.String())

	boom := errors.New("boom")
	m = Multi{errSink{boom}, NewLineWriter(&a)}
	assert.ErrorIs(t, m.Write(context.Background(), Record{}), boom)
	assert.Contains(t, a.String(), "0,0.000,0\n", "later sinks still receive the record")
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readings.db")
	s, err := OpenStore(path)
	require.NoError(t, err)

	ctx := context.Background()
	t0 := time.UnixMilli(1_700_000_000_000)
	in := []Record{
		{RunID: "run-a", Frame: 0, Seconds: 0, Channel: 0, Raw: 100, Value: 1.0, Time: t0},
		{RunID: "run-a", Frame: 1, Seconds: 0.1, Channel: 0, Raw: -8, Value: -0.08, Time: t0.Add(100 * time.Millisecond)},
		{RunID: "run-b", Frame: 0, Seconds: 0, Channel: 1, Raw: 2047, Value: 6.144, Time: t0},
	}
	for _, r := range in {
		require.NoError(t, s.Write(ctx, r))
	}

	got, err := s.Run(ctx, "run-a")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range got {
		assert.Equal(t, in[i].Frame, got[i].Frame)
		assert.Equal(t, in[i].Raw, got[i].Raw)
		assert.InDelta(t, in[i].Value, got[i].Value, 1e-12)
		assert.InDelta(t, in[i].Seconds, got[i].Seconds, 1e-12)
		assert.True(t, in[i].Time.Equal(got[i].Time))
	}

	// Reopening keeps existing rows.
	require.NoError(t, s.Close())
	s, err = OpenStore(path)
	require.NoError(t, err)
	defer s.Close()
	got, err = s.Run(ctx, "run-b")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Channel)
}

func TestStoreClose(t *testing.T) {
	s, err := OpenStore(filepath.Join(t.TempDir(), "readings.db"))
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.Error(t, s.Write(context.Background(), Record{RunID: "run-c"}), "closed store must not accept writes")
}
