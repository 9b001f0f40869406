package snapshot

import (
	"context"
	"errors"
	"testing"

	"github.com/Frith-Labs/frith-vaults-dapp/internal/amount"
)

const previewDecimals = 6

func scaled(raw uint64) amount.Scaled {
	return amount.FromUint64(raw, previewDecimals)
}

func TestPreviewTrackerDeliversForCurrentInput(t *testing.T) {
	tracker := NewPreviewTracker()
	input := scaled(100_000000)

	tracker.SetInput(input)
	if !tracker.Deliver(input, scaled(95_000000)) {
		t.Fatal("result for the current input must be kept")
	}

	result := tracker.Result()
	if result == nil {
		t.Fatal("expected resolved preview")
	}
	if result.String() != "95000000" {
		t.Errorf("unexpected preview: %s", result.String())
	}
}

func TestPreviewTrackerDiscardsStaleResult(t *testing.T) {
	tracker := NewPreviewTracker()
	first := scaled(100_000000)
	second := scaled(200_000000)

	// The request for the first amount is in flight when the user types a
	// new amount. Its late result must never surface.
	tracker.SetInput(first)
	tracker.SetInput(second)

	if tracker.Deliver(first, scaled(95_000000)) {
		t.Error("result for a superseded input must be dropped")
	}
	if tracker.Result() != nil {
		t.Error("stale result must not be stored")
	}

	if !tracker.Deliver(second, scaled(190_000000)) {
		t.Fatal("result for the current input must be kept")
	}
	if got := tracker.Result(); got == nil || got.String() != "190000000" {
		t.Errorf("expected preview for second input, got %v", got)
	}
}

func TestPreviewTrackerInputChangeClearsResult(t *testing.T) {
	tracker := NewPreviewTracker()
	input := scaled(100_000000)

	tracker.SetInput(input)
	tracker.Deliver(input, scaled(95_000000))
	tracker.SetInput(scaled(300_000000))

	if tracker.Result() != nil {
		t.Error("changing the input must clear the resolved preview")
	}
}

func TestPreviewTrackerSameInputKeepsResult(t *testing.T) {
	tracker := NewPreviewTracker()
	input := scaled(100_000000)

	tracker.SetInput(input)
	tracker.Deliver(input, scaled(95_000000))
	tracker.SetInput(scaled(100_000000))

	if tracker.Result() == nil {
		t.Error("re-setting the same input must not clear the preview")
	}
}

func TestResolveZeroInputSkipsFetch(t *testing.T) {
	tracker := NewPreviewTracker()
	calls := 0

	result, err := tracker.Resolve(context.Background(), amount.Zero(previewDecimals), func(ctx context.Context, in amount.Scaled) (amount.Scaled, error) {
		calls++
		return in, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Error("zero input resolves to no preview")
	}
	if calls != 0 {
		t.Errorf("zero input must not hit the network, got %d calls", calls)
	}
}

func TestResolveFetchError(t *testing.T) {
	tracker := NewPreviewTracker()
	fetchErr := errors.New("rpc timeout")

	result, err := tracker.Resolve(context.Background(), scaled(100_000000), func(ctx context.Context, in amount.Scaled) (amount.Scaled, error) {
		return amount.Scaled{}, fetchErr
	})
	if !errors.Is(err, fetchErr) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if result != nil {
		t.Error("failed resolution must not produce a preview")
	}
	if tracker.Result() != nil {
		t.Error("failed resolution must not store a preview")
	}
}

func TestResolveHappyPath(t *testing.T) {
	tracker := NewPreviewTracker()

	result, err := tracker.Resolve(context.Background(), scaled(100_000000), func(ctx context.Context, in amount.Scaled) (amount.Scaled, error) {
		return scaled(95_000000), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || result.String() != "95000000" {
		t.Errorf("unexpected preview: %v", result)
	}
}
