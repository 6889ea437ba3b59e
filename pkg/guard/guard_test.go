package guard

import (
	"sync"
	"testing"
)

func TestTryAcquire_SecondAcquireDropped(t *testing.T) {
	g := New()

	release, ok := g.TryAcquire("owner-1", KindSaveSettings)
	if !ok {
		t.Fatal("expected first acquire to succeed")
	}

	// Any kind is excluded while the token is held, not just the same one.
	if _, ok := g.TryAcquire("owner-1", KindSaveSettings); ok {
		t.Error("expected reentrant acquire to be dropped")
	}
	if _, ok := g.TryAcquire("owner-1", KindAddSlot); ok {
		t.Error("expected cross-kind acquire to be dropped")
	}

	release()

	if _, ok := g.TryAcquire("owner-1", KindAddSlot); !ok {
		t.Error("expected acquire after release to succeed")
	}
}

func TestTryAcquire_OwnersAreIndependent(t *testing.T) {
	g := New()

	if _, ok := g.TryAcquire("owner-1", KindSaveSettings); !ok {
		t.Fatal("expected first owner to acquire")
	}
	if _, ok := g.TryAcquire("owner-2", KindSaveSettings); !ok {
		t.Error("expected a different owner to acquire independently")
	}
}

func TestRelease_Idempotent(t *testing.T) {
	g := New()

	release1, _ := g.TryAcquire("owner-1", KindSaveSettings)
	release1()
	release2, ok := g.TryAcquire("owner-1", KindEditSlot)
	if !ok {
		t.Fatal("expected reacquire after release")
	}

	// Releasing the stale first token again must not free the second
	// holder's token.
	release1()
	if _, ok := g.TryAcquire("owner-1", KindDeleteSlot); ok {
		t.Error("stale release freed a token it no longer owned")
	}
	release2()
}

func TestHolding(t *testing.T) {
	g := New()

	if _, ok := g.Holding("owner-1"); ok {
		t.Error("expected no holder initially")
	}

	release, _ := g.TryAcquire("owner-1", KindEditSlot)
	if kind, ok := g.Holding("owner-1"); !ok || kind != KindEditSlot {
		t.Errorf("expected edit_slot holder, got %q ok=%v", kind, ok)
	}

	release()
	if _, ok := g.Holding("owner-1"); ok {
		t.Error("expected no holder after release")
	}
}

func TestTryAcquire_ExactlyOneWinnerUnderContention(t *testing.T) {
	g := New()

	const goroutines = 32
	var wg sync.WaitGroup
	wins := make(chan func(), goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if release, ok := g.TryAcquire("owner-1", KindSaveSettings); ok {
				wins <- release
			}
		}()
	}
	wg.Wait()
	close(wins)

	var releases []func()
	for r := range wins {
		releases = append(releases, r)
	}
	if len(releases) != 1 {
		t.Fatalf("expected exactly one winner, got %d", len(releases))
	}
	releases[0]()
}
