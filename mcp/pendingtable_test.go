package mcp

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"
)

// TestPendingTableCorrelation pins spec invariant 7: every response
// delivered to a caller carries the id that caller registered, and no
// caller ever observes another caller's response, even when many
// requests are in flight concurrently.
func TestPendingTableCorrelation(t *testing.T) {
	table := newPendingTable()

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)

	ids := make([]int64, n)
	chans := make([]chan *Response, n)
	for i := 0; i < n; i++ {
		ids[i], chans[i] = table.register()
	}

	// Deliver responses in reverse order to rule out any ordering
	// assumption in the correlation logic.
	for i := n - 1; i >= 0; i-- {
		id := ids[i]
		go func(id int64) {
			table.deliver(&Response{JSONRPC: "2.0", ID: &id, Result: mustJSON(id)})
		}(id)
	}

	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			raw, err := awaitResponse(ctx, table, ids[i], chans[i])
			if err != nil {
				t.Errorf("await id %d: %v", ids[i], err)
				return
			}
			var got int64
			if err := json.Unmarshal(raw, &got); err != nil {
				t.Errorf("decode result for id %d: %v", ids[i], err)
				return
			}
			if got != ids[i] {
				t.Errorf("caller registered id %d but observed response for id %d", ids[i], got)
			}
		}(i)
	}

	wg.Wait()
}

// TestPendingTableForgetOnTimeout confirms a caller whose deadline
// expires before any response arrives gets KindTimeout, and the waiter
// entry is removed so a late delivery cannot be claimed by a future
// registrant of the same id space.
func TestPendingTableForgetOnTimeout(t *testing.T) {
	table := newPendingTable()
	id, ch := table.register()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := awaitResponse(ctx, table, id, ch)
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}

	table.mu.Lock()
	_, stillPending := table.waiters[id]
	table.mu.Unlock()
	if stillPending {
		t.Fatal("expired waiter entry was not removed")
	}
}

// TestPendingTableCloseAllAbortsWaiters confirms closeAll wakes every
// still-pending waiter rather than leaving it blocked forever.
func TestPendingTableCloseAllAbortsWaiters(t *testing.T) {
	table := newPendingTable()
	_, ch1 := table.register()
	_, ch2 := table.register()

	table.closeAll()

	select {
	case _, ok := <-ch1:
		if ok {
			t.Fatal("expected channel to be closed, not delivered to")
		}
	case <-time.After(time.Second):
		t.Fatal("ch1 was not closed")
	}
	select {
	case _, ok := <-ch2:
		if ok {
			t.Fatal("expected channel to be closed, not delivered to")
		}
	case <-time.After(time.Second):
		t.Fatal("ch2 was not closed")
	}
}
