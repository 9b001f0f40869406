package policy

import (
	"reflect"
	"testing"

	"github.com/Frith-Labs/frith-vaults-dapp/internal/amount"
	"github.com/Frith-Labs/frith-vaults-dapp/internal/models"
)

const testDecimals = 6

func testLimits() models.PolicyLimits {
	return models.PolicyLimits{
		DepositCap:         amount.FromUint64(100000, testDecimals),
		AvailableToDeposit: amount.FromUint64(5000, testDecimals),
		MinDepositTx:       amount.FromUint64(100, testDecimals),
		MaxDepositTx:       amount.FromUint64(10000, testDecimals),
		MinWithdrawTx:      amount.FromUint64(100, testDecimals),
		MaxWithdrawTx:      amount.FromUint64(10000, testDecimals),
		Paused:             false,
	}
}

func assets(raw uint64) amount.Scaled {
	return amount.FromUint64(raw, testDecimals)
}

func TestValidateDeposit(t *testing.T) {
	tests := []struct {
		name      string
		requested uint64
		want      []Violation
	}{
		{"below minimum", 50, []Violation{BelowMinimum}},
		{"over capacity within per-tx maximum", 6000, []Violation{ExceedsAvailableCapacity}},
		{"allowed", 500, nil},
		{"at minimum", 100, nil},
		{"at maximum but over capacity", 10000, []Violation{ExceedsAvailableCapacity}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateDeposit(DepositIntent{RequestedAssets: assets(tt.requested)}, testLimits())
			if !reflect.DeepEqual(result.Violations, tt.want) {
				t.Errorf("violations = %v, want %v", result.Violations, tt.want)
			}
			if result.Allowed != (len(tt.want) == 0) {
				t.Errorf("Allowed = %v with violations %v", result.Allowed, result.Violations)
			}
		})
	}
}

func TestValidateDepositReportsEveryViolation(t *testing.T) {
	// With a per-tx maximum below the remaining capacity, one amount can
	// break both constraints at once; both must be reported, not just the
	// first one found.
	limits := testLimits()
	limits.MaxDepositTx = assets(1000)

	result := ValidateDeposit(DepositIntent{RequestedAssets: assets(6000)}, limits)
	want := []Violation{AboveMaximum, ExceedsAvailableCapacity}
	if !reflect.DeepEqual(result.Violations, want) {
		t.Errorf("violations = %v, want %v", result.Violations, want)
	}
	if result.Allowed {
		t.Error("violating intent must not be allowed")
	}
}

func TestValidateDepositPausedAlwaysReported(t *testing.T) {
	limits := testLimits()
	limits.Paused = true

	for _, requested := range []uint64{0, 50, 500, 6000} {
		result := ValidateDeposit(DepositIntent{RequestedAssets: assets(requested)}, limits)
		found := false
		for _, v := range result.Violations {
			if v == VaultPaused {
				found = true
			}
		}
		if !found {
			t.Errorf("requested=%d: VaultPaused missing from %v", requested, result.Violations)
		}
		if result.Allowed {
			t.Errorf("requested=%d: paused vault must never allow", requested)
		}
	}
}

func TestValidateDepositZeroIntentIsNeutral(t *testing.T) {
	result := ValidateDeposit(DepositIntent{RequestedAssets: assets(0)}, testLimits())
	if len(result.Violations) != 0 {
		t.Errorf("zero intent must not trigger amount violations, got %v", result.Violations)
	}
	if !result.Allowed {
		t.Error("zero intent has no violations, so Allowed must be true")
	}

	// Act-ability is a separate gate: no amount means nothing to submit.
	limits := testLimits()
	if ok, reason := CanSubmitDeposit(DepositIntent{RequestedAssets: assets(0)}, &limits); ok || reason == "" {
		t.Errorf("zero intent must not be submittable, got ok=%v reason=%q", ok, reason)
	}
}

func TestValidateDepositIdempotent(t *testing.T) {
	intent := DepositIntent{RequestedAssets: assets(6000)}
	first := ValidateDeposit(intent, testLimits())
	second := ValidateDeposit(intent, testLimits())
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced %v then %v", first, second)
	}
}

func TestValidateRedeem(t *testing.T) {
	preview := func(raw uint64) *amount.Scaled {
		p := assets(raw)
		return &p
	}
	shares := func(raw uint64) amount.Scaled {
		return amount.FromUint64(raw, testDecimals)
	}

	tests := []struct {
		name    string
		shares  uint64
		preview *amount.Scaled
		paused  bool
		want    []Violation
	}{
		{"proceeds below minimum", 10, preview(50), false, []Violation{BelowMinimum}},
		{"proceeds above maximum", 10, preview(20000), false, []Violation{AboveMaximum}},
		{"proceeds in range", 10, preview(500), false, nil},
		{"no preview yet skips range checks", 10, nil, false, nil},
		{"paused with no preview", 10, nil, true, []Violation{VaultPaused}},
		{"zero shares ignore preview", 0, preview(50), false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limits := testLimits()
			limits.Paused = tt.paused
			result := ValidateRedeem(RedeemIntent{RequestedShares: shares(tt.shares), PreviewAssets: tt.preview}, limits)
			if !reflect.DeepEqual(result.Violations, tt.want) {
				t.Errorf("violations = %v, want %v", result.Violations, tt.want)
			}
		})
	}
}

func TestCanSubmitRedeemRequiresPreview(t *testing.T) {
	limits := testLimits()

	// Validation says nothing is wrong while the preview is unresolved,
	// but the submit gate must stay closed until it lands.
	intent := RedeemIntent{RequestedShares: amount.FromUint64(10, testDecimals)}
	if result := ValidateRedeem(intent, limits); !result.Allowed {
		t.Fatalf("unresolved preview should not be a violation, got %v", result.Violations)
	}
	if ok, _ := CanSubmitRedeem(intent, &limits); ok {
		t.Error("redeem must not be submittable before the preview resolves")
	}

	resolved := amount.FromUint64(500, testDecimals)
	intent.PreviewAssets = &resolved
	if ok, reason := CanSubmitRedeem(intent, &limits); !ok {
		t.Errorf("resolved in-range preview should be submittable, got %q", reason)
	}
}

func TestCanSubmitWithUnknownLimits(t *testing.T) {
	intent := DepositIntent{RequestedAssets: assets(500)}
	if ok, _ := CanSubmitDeposit(intent, nil); ok {
		t.Error("unknown limits must fail safe to disabled")
	}
	redeemIntent := RedeemIntent{RequestedShares: amount.FromUint64(10, testDecimals)}
	if ok, _ := CanSubmitRedeem(redeemIntent, nil); ok {
		t.Error("unknown limits must fail safe to disabled")
	}
}
