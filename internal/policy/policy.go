/**
 * Copyright 2025-present Frith Labs
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package policy mirrors the vault contract's own gating rules on the
// client side so doomed transactions are caught before they are signed.
// The contract remains the authority; these checks only decide whether an
// action is offered and which constraint to explain to the user.
package policy

import (
	"fmt"

	"github.com/Frith-Labs/frith-vaults-dapp/internal/amount"
	"github.com/Frith-Labs/frith-vaults-dapp/internal/models"
)

// Violation identifies one policy constraint an intent breaks.
type Violation string

const (
	VaultPaused              Violation = "VAULT_PAUSED"
	BelowMinimum             Violation = "BELOW_MINIMUM"
	AboveMaximum             Violation = "ABOVE_MAXIMUM"
	ExceedsAvailableCapacity Violation = "EXCEEDS_AVAILABLE_CAPACITY"
)

// DepositIntent is a pending deposit request. PreviewShares stays nil
// until the vault's previewDeposit call resolves; the preview is an
// estimate, never authoritative until the transaction is mined.
type DepositIntent struct {
	RequestedAssets amount.Scaled
	PreviewShares   *amount.Scaled
}

// RedeemIntent is a pending redemption request, same shape as deposits.
type RedeemIntent struct {
	RequestedShares amount.Scaled
	PreviewAssets   *amount.Scaled
}

// Result is the outcome of checking an intent against the limits.
// Allowed is true exactly when Violations is empty.
type Result struct {
	Allowed    bool
	Violations []Violation
}

func resultOf(violations []Violation) Result {
	return Result{Allowed: len(violations) == 0, Violations: violations}
}

// ValidateDeposit evaluates every deposit predicate independently and
// reports all violations, not just the first. A zero-valued intent is "no
// request yet": it never trips the amount checks, though the pause flag is
// always reported. Pure function of its inputs.
func ValidateDeposit(intent DepositIntent, limits models.PolicyLimits) Result {
	var violations []Violation

	if limits.Paused {
		violations = append(violations, VaultPaused)
	}

	requested := intent.RequestedAssets
	if !requested.IsZero() {
		if below, err := requested.Cmp(limits.MinDepositTx); err == nil && below < 0 {
			violations = append(violations, BelowMinimum)
		}
		if above, err := requested.Cmp(limits.MaxDepositTx); err == nil && above > 0 {
			violations = append(violations, AboveMaximum)
		}
		if over, err := requested.Cmp(limits.AvailableToDeposit); err == nil && over > 0 {
			violations = append(violations, ExceedsAvailableCapacity)
		}
	}

	return resultOf(violations)
}

// ValidateRedeem mirrors ValidateDeposit. The vault denominates its
// withdraw limits in the asset, not in shares, so the min/max checks run
// against the previewed asset amount. While the preview is still
// unresolved those checks are skipped ("unknown", not a violation); the
// separate submit gate keeps the action disabled until the preview lands.
func ValidateRedeem(intent RedeemIntent, limits models.PolicyLimits) Result {
	var violations []Violation

	if limits.Paused {
		violations = append(violations, VaultPaused)
	}

	if intent.PreviewAssets != nil && !intent.RequestedShares.IsZero() {
		previewed := *intent.PreviewAssets
		if below, err := previewed.Cmp(limits.MinWithdrawTx); err == nil && below < 0 {
			violations = append(violations, BelowMinimum)
		}
		if above, err := previewed.Cmp(limits.MaxWithdrawTx); err == nil && above > 0 {
			violations = append(violations, AboveMaximum)
		}
	}

	return resultOf(violations)
}

// CanSubmitDeposit is the act-ability gate, orthogonal to validation: it
// answers "is there anything well-formed to submit", with a human-readable
// reason when there is not. Unknown core fields fail safe to disabled.
func CanSubmitDeposit(intent DepositIntent, limits *models.PolicyLimits) (bool, string) {
	if limits == nil {
		return false, "vault limits have not loaded yet"
	}
	if intent.RequestedAssets.IsZero() {
		return false, "enter an amount to deposit"
	}
	result := ValidateDeposit(intent, *limits)
	if !result.Allowed {
		return false, DescribeDeposit(result.Violations[0], *limits)
	}
	return true, ""
}

// CanSubmitRedeem additionally requires a resolved preview, so the button
// cannot briefly enable on stale violation state while an estimate is
// still in flight.
func CanSubmitRedeem(intent RedeemIntent, limits *models.PolicyLimits) (bool, string) {
	if limits == nil {
		return false, "vault limits have not loaded yet"
	}
	if intent.RequestedShares.IsZero() {
		return false, "enter a share amount to redeem"
	}
	if intent.PreviewAssets == nil {
		return false, "waiting for the redemption estimate"
	}
	result := ValidateRedeem(intent, *limits)
	if !result.Allowed {
		return false, DescribeRedeem(result.Violations[0], *limits)
	}
	return true, ""
}

// DescribeDeposit turns a deposit violation into inline guidance text.
func DescribeDeposit(v Violation, limits models.PolicyLimits) string {
	switch v {
	case VaultPaused:
		return "the vault is paused"
	case BelowMinimum:
		return fmt.Sprintf("amount is below the minimum deposit of %s", amount.Format(limits.MinDepositTx, 6))
	case AboveMaximum:
		return fmt.Sprintf("amount is above the maximum deposit of %s", amount.Format(limits.MaxDepositTx, 6))
	case ExceedsAvailableCapacity:
		return fmt.Sprintf("amount exceeds the vault's remaining capacity of %s", amount.Format(limits.AvailableToDeposit, 6))
	}
	return string(v)
}

// DescribeRedeem turns a redeem violation into inline guidance text.
func DescribeRedeem(v Violation, limits models.PolicyLimits) string {
	switch v {
	case VaultPaused:
		return "the vault is paused"
	case BelowMinimum:
		return fmt.Sprintf("estimated proceeds are below the minimum withdrawal of %s", amount.Format(limits.MinWithdrawTx, 6))
	case AboveMaximum:
		return fmt.Sprintf("estimated proceeds are above the maximum withdrawal of %s", amount.Format(limits.MaxWithdrawTx, 6))
	}
	return string(v)
}
