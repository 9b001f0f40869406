package snapshot

import (
	"context"
	"sync"

	"github.com/Frith-Labs/frith-vaults-dapp/internal/amount"
)

// PreviewFunc fetches the remote estimate for one input amount.
type PreviewFunc func(ctx context.Context, in amount.Scaled) (amount.Scaled, error)

// PreviewTracker pairs a user's current input amount with the remote
// preview resolved for it. Results are keyed by the exact input they were
// requested for: an estimate that comes back after the user has already
// typed a different amount is discarded, never displayed.
type PreviewTracker struct {
	mu         sync.Mutex
	currentKey string
	result     *amount.Scaled
}

func NewPreviewTracker() *PreviewTracker {
	return &PreviewTracker{}
}

// SetInput records the amount the user currently has typed. Changing the
// input clears any previously resolved preview.
func (t *PreviewTracker) SetInput(in amount.Scaled) {
	key := in.String()
	t.mu.Lock()
	defer t.mu.Unlock()
	if key != t.currentKey {
		t.currentKey = key
		t.result = nil
	}
}

// Deliver hands back a resolved preview for the input it was requested
// with. It reports whether the result was kept; a result for a superseded
// input is dropped.
func (t *PreviewTracker) Deliver(forInput, result amount.Scaled) bool {
	key := forInput.String()
	t.mu.Lock()
	defer t.mu.Unlock()
	if key != t.currentKey {
		return false
	}
	stored := result
	t.result = &stored
	return true
}

// Result returns the preview for the current input, nil while unresolved.
func (t *PreviewTracker) Result() *amount.Scaled {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result
}

// Resolve fetches the preview for in and delivers it through the stale
// check. A zero input resolves locally to zero at the fetch's scale
// without a remote round-trip.
func (t *PreviewTracker) Resolve(ctx context.Context, in amount.Scaled, fetch PreviewFunc) (*amount.Scaled, error) {
	t.SetInput(in)

	if in.IsZero() {
		return nil, nil
	}

	result, err := fetch(ctx, in)
	if err != nil {
		return nil, err
	}
	if !t.Deliver(in, result) {
		return nil, nil
	}
	return t.Result(), nil
}
