package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisense-ai/agribot/internal/generation"
	"github.com/agrisense-ai/agribot/internal/observability"
)

func nilOpener(context.Context) generation.Conversation { return nil }

type stubConv struct{}

func (*stubConv) Send(context.Context, string) (string, error) { return "", nil }

func TestAcquire_MintsAndReuses(t *testing.T) {
	s := NewStore(observability.Nop(), nilOpener, Config{})

	first := s.Acquire(context.Background(), "")
	require.NotEmpty(t, first.ID)
	assert.Equal(t, 1, s.Len())

	again := s.Acquire(context.Background(), first.ID)
	assert.Same(t, first, again)
	assert.Equal(t, 1, s.Len())

	other := s.Acquire(context.Background(), "")
	assert.NotEqual(t, first.ID, other.ID)
	assert.Equal(t, 2, s.Len())
}

func TestAcquire_UnknownIDIsAdopted(t *testing.T) {
	s := NewStore(observability.Nop(), nilOpener, Config{})

	sess := s.Acquire(context.Background(), "client-chosen")
	assert.Equal(t, "client-chosen", sess.ID)
	assert.Equal(t, 1, s.Len())
}

func TestAcquire_ExpiredSessionIsReplaced(t *testing.T) {
	s := NewStore(observability.Nop(), nilOpener, Config{TTL: 10 * time.Minute})

	first := s.Acquire(context.Background(), "")
	first.lastSeen = time.Now().Add(-time.Hour)

	fresh := s.Acquire(context.Background(), first.ID)
	assert.Equal(t, first.ID, fresh.ID)
	assert.NotSame(t, first, fresh)
}

func TestSweep(t *testing.T) {
	s := NewStore(observability.Nop(), nilOpener, Config{TTL: 10 * time.Minute})

	stale := s.Acquire(context.Background(), "stale")
	stale.lastSeen = time.Now().Add(-time.Hour)
	s.Acquire(context.Background(), "live")

	removed := s.sweep(time.Now())
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, s.Len())

	live := s.Acquire(context.Background(), "live")
	assert.Equal(t, "live", live.ID)
}

func TestAcquire_CapEvictsOldest(t *testing.T) {
	s := NewStore(observability.Nop(), nilOpener, Config{MaxSessions: 2})

	oldest := s.Acquire(context.Background(), "a")
	oldest.lastSeen = time.Now().Add(-time.Minute)
	s.Acquire(context.Background(), "b")

	s.Acquire(context.Background(), "c")
	assert.Equal(t, 2, s.Len())

	// "a" was evicted, so acquiring it again creates a fresh session.
	revived := s.Acquire(context.Background(), "a")
	assert.NotSame(t, oldest, revived)
}

func TestAcquire_ConcurrentSameIDSeesOpenedConversation(t *testing.T) {
	conv := &stubConv{}
	slowOpen := func(context.Context) generation.Conversation {
		time.Sleep(50 * time.Millisecond)
		return conv
	}
	s := NewStore(observability.Nop(), slowOpen, Config{})

	var wg sync.WaitGroup
	got := make([]generation.Conversation, 2)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess := s.Acquire(context.Background(), "shared")
			// Callers always lock the session before touching Conv;
			// the second acquirer must see the fully opened one.
			sess.Lock()
			got[i] = sess.Conv
			sess.Unlock()
		}(i)
	}
	wg.Wait()

	assert.Same(t, conv, got[0])
	assert.Same(t, conv, got[1])
	assert.Equal(t, 1, s.Len())
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := NewStore(observability.Nop(), nilOpener, Config{SweepInterval: time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
