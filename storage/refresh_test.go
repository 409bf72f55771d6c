// Copyright 2024 The go-equa Authors
// This file is part of the go-equa library.

package storage

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

// blockingReader counts ReadStorage calls and, on the very first call,
// blocks until release is closed. Combined with entered, this lets the
// test hold the first underlying read open until every concurrent
// Refresh caller has had a chance to join the same singleflight group,
// so the collapse assertion below isn't a race against goroutine
// scheduling.
type blockingReader struct {
	inner   Reader
	calls   atomic.Int64
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newBlockingReader(inner Reader) *blockingReader {
	return &blockingReader{inner: inner, entered: make(chan struct{}), release: make(chan struct{})}
}

func (c *blockingReader) ReadStorage(contract common.Address, slot common.Hash) (common.Hash, bool, error) {
	c.calls.Add(1)
	c.once.Do(func() {
		close(c.entered)
		<-c.release
	})
	return c.inner.ReadStorage(contract, slot)
}

func TestSignerListRefresherCollapsesConcurrentCallers(t *testing.T) {
	signers := []common.Address{
		common.HexToAddress("0x1111111111111111111111111111111111111111"),
		common.HexToAddress("0x2222222222222222222222222222222222222222"),
	}
	blocking := newBlockingReader(NewGenesisReader(seedRegistry(signers...)))
	refresher := NewSignerListRefresher(blocking)

	const callers = 32
	var wg sync.WaitGroup
	results := make([][]common.Address, callers)
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			got, ok := refresher.Refresh(signerRegistryAddr)
			require.True(t, ok)
			results[i] = got
		}(i)
	}

	<-blocking.entered // the first read is now blocked inside ReadStorage
	time.Sleep(20 * time.Millisecond) // give the other 31 goroutines time to join the in-flight call
	close(blocking.release)
	wg.Wait()

	for _, got := range results {
		require.Equal(t, signers, got)
	}
	// Only the single in-flight read's calls should have landed on the
	// underlying reader (1 count read + 1 per signer); every other
	// caller was collapsed into it by singleflight rather than issuing
	// its own read_signer_count/read_signer_at sequence.
	require.Equal(t, int64(1+len(signers)), blocking.calls.Load())
}
