package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestQueue(t *testing.T) {
	t.Run("fifo", func(t *testing.T) {
		tx, rx := New[int]()
		for i := range 100 {
			require.NoError(t, tx.Send(i))
		}
		require.Equal(t, 100, rx.Len())

		for i := range 100 {
			got, ok := rx.Recv()
			require.True(t, ok)
			require.Equal(t, i, got)
		}
		require.Zero(t, rx.Len())
	})

	t.Run("buffered items survive close", func(t *testing.T) {
		tx, rx := New[string]()
		require.NoError(t, tx.Send("a"))
		require.NoError(t, tx.Send("b"))
		require.NoError(t, tx.Close())

		got, ok := rx.Recv()
		require.True(t, ok)
		assert.Equal(t, "a", got)

		got, ok = rx.Recv()
		require.True(t, ok)
		assert.Equal(t, "b", got)

		got, ok = rx.Recv()
		require.False(t, ok)
		assert.Empty(t, got)
	})

	t.Run("send after close", func(t *testing.T) {
		tx, _ := New[int]()
		require.NoError(t, tx.Close())
		require.ErrorIs(t, tx.Send(1), ErrClosed)
	})

	t.Run("double close", func(t *testing.T) {
		tx, _ := New[int]()
		require.NoError(t, tx.Close())
		require.ErrorIs(t, tx.Close(), ErrClosed)
	})

	t.Run("recv blocks until send", func(t *testing.T) {
		tx, rx := New[int]()
		got := make(chan int)
		go func() {
			v, _ := rx.Recv()
			got <- v
		}()

		select {
		case <-got:
			t.Fatal("recv returned before any send")
		case <-time.After(20 * time.Millisecond):
		}

		require.NoError(t, tx.Send(7))
		assert.Equal(t, 7, <-got)
	})

	t.Run("close wakes every receiver", func(t *testing.T) {
		const receivers = 8
		tx, rx := New[int]()
		wg := sync.WaitGroup{}
		wg.Add(receivers)
		for range receivers {
			go func() {
				defer wg.Done()
				_, ok := rx.Recv()
				assert.False(t, ok)
			}()
		}

		time.Sleep(10 * time.Millisecond)
		require.NoError(t, tx.Close())
		wg.Wait()
	})
}

func TestConcurrentReceiversGetEachItemOnce(t *testing.T) {
	const (
		items     = 10_000
		receivers = 8
	)
	tx, rx := New[int]()

	var mu sync.Mutex
	seen := make(map[int]int, items)

	wg := sync.WaitGroup{}
	wg.Add(receivers)
	for range receivers {
		go func() {
			defer wg.Done()
			for {
				v, ok := rx.Recv()
				if !ok {
					return
				}
				mu.Lock()
				seen[v]++
				mu.Unlock()
			}
		}()
	}

	for i := range items {
		require.NoError(t, tx.Send(i))
	}
	require.NoError(t, tx.Close())
	wg.Wait()

	require.Len(t, seen, items)
	for k, c := range seen {
		if c != 1 {
			t.Errorf("item %d received %d times", k, c)
		}
	}
}
