package lspclient

import "testing"

func TestTokenCancelClosesDoneOnce(t *testing.T) {
	src := NewCancellationTokenSource()
	token := src.Token()

	if token.IsCancellationRequested() {
		t.Fatal("fresh token reports cancelled")
	}

	src.Cancel()
	src.Cancel() // second cancel is a no-op

	select {
	case <-token.Done():
	default:
		t.Fatal("Done channel not closed after cancel")
	}
	if !token.IsCancellationRequested() {
		t.Fatal("token does not report cancelled")
	}
}

func TestTokenCallbacks(t *testing.T) {
	src := NewCancellationTokenSource()
	token := src.Token()

	var fired []string
	remove := token.OnCancellation(func() { fired = append(fired, "removed") })
	token.OnCancellation(func() { fired = append(fired, "kept") })
	remove()

	src.Cancel()

	if len(fired) != 1 || fired[0] != "kept" {
		t.Fatalf("expected only the kept callback to fire, got %v", fired)
	}

	// Late registration on a cancelled token fires immediately.
	ran := false
	token.OnCancellation(func() { ran = true })
	if !ran {
		t.Fatal("callback on cancelled token did not fire immediately")
	}
}

func TestDisposeDetachesToken(t *testing.T) {
	src := NewCancellationTokenSource()
	token := src.Token()

	src.Dispose()
	if src.Token() != nil {
		t.Fatal("disposed source still hands out its token")
	}

	// Cancel after dispose must not fire the detached token.
	src.Cancel()
	if token.IsCancellationRequested() {
		t.Fatal("detached token was cancelled through a disposed source")
	}
}

func TestTokenSlotSupersedes(t *testing.T) {
	var slot tokenSlot

	first := slot.reset()
	second := slot.reset()

	if !first.IsCancellationRequested() {
		t.Fatal("superseded token was not cancelled")
	}
	if second.IsCancellationRequested() {
		t.Fatal("fresh token is already cancelled")
	}

	slot.cancel()
	if !second.IsCancellationRequested() {
		t.Fatal("slot cancel did not reach the current token")
	}
}

func TestTokenSlotReleaseDoesNotCancel(t *testing.T) {
	var slot tokenSlot
	token := slot.reset()
	slot.release()
	if token.IsCancellationRequested() {
		t.Fatal("release cancelled the token")
	}
}
