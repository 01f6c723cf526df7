package i2cx

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqBus fails the test if transactions from two sequences interleave.
type seqBus struct {
	mu      sync.Mutex
	owner   uint16
	inSeq   int
	overlap atomic.Bool
	txs     int
}

func (b *seqBus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.txs++
	if b.inSeq > 0 && b.owner != addr {
		b.overlap.Store(true)
	}
	return nil
}

func (b *seqBus) begin(addr uint16) {
	b.mu.Lock()
	if b.inSeq != 0 {
		b.overlap.Store(true)
	}
	b.owner = addr
	b.inSeq++
	b.mu.Unlock()
}

func (b *seqBus) end() {
	b.mu.Lock()
	b.inSeq--
	b.mu.Unlock()
}

func TestSharedDoSerialisesSequences(t *testing.T) {
	bus := &seqBus{}
	s := NewShared(bus)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		addr := uint16(0x48 + i%4)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 20; n++ {
				err := s.Do(ctx, func() error {
					bus.begin(addr)
					defer bus.end()
					for k := 0; k < 5; k++ {
						if err := s.Tx(addr, []byte{0x01}, make([]byte, 2)); err != nil {
							return err
						}
					}
					return nil
				})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
	assert.False(t, bus.overlap.Load(), "sequences interleaved")
	assert.Equal(t, 8*20*5, bus.txs)
}

func TestSharedDoPropagatesError(t *testing.T) {
	s := NewShared(&seqBus{})
	want := errors.New("boom")
	err := s.Do(context.Background(), func() error { return want })
	assert.ErrorIs(t, err, want)
}

func TestSharedDoHonoursContext(t *testing.T) {
	s := NewShared(&seqBus{})
	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = s.Do(context.Background(), func() error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	ran := false
	err := s.Do(ctx, func() error { ran = true; return nil })
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, ran)

	ok, err := s.TryDo(func() error { ran = true; return nil })
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.False(t, ran)

	close(release)
	require.Eventually(t, func() bool {
		ok, _ := s.TryDo(func() error { return nil })
		return ok
	}, time.Second, time.Millisecond)
}
