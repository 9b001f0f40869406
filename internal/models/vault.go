package models

import (
	"time"

	"github.com/Frith-Labs/frith-vaults-dapp/internal/amount"
)

// VaultMetadata describes the vault share token and its underlying asset.
// Fetched once on startup and treated as immutable afterwards.
type VaultMetadata struct {
	Name          string
	Symbol        string
	ShareDecimals uint8
	AssetAddress  string
	AssetSymbol   string
	AssetDecimals uint8
}

// PolicyLimits is a read-only snapshot of the vault's operating
// constraints. All amount fields are denominated in the underlying asset;
// cooldowns are seconds. Snapshots are replaced wholesale by the refresh
// cycle, never mutated in place.
type PolicyLimits struct {
	DepositCap         amount.Scaled
	AvailableToDeposit amount.Scaled
	MinDepositTx       amount.Scaled
	MaxDepositTx       amount.Scaled
	MinWithdrawTx      amount.Scaled
	MaxWithdrawTx      amount.Scaled
	DepositCooldown    uint64
	WithdrawCooldown   uint64
	Paused             bool
}

// AccountState is the connected account's view of the vault. Pointer
// fields distinguish "not loaded yet" from a genuine zero.
type AccountState struct {
	AssetBalance   *amount.Scaled
	MaxRedeem      *amount.Scaled
	Allowance      *amount.Scaled
	LastDepositAt  *time.Time
	LastWithdrawAt *time.Time
}

// VaultTotals are peripheral display figures. A missing value disables
// nothing; it only renders as a placeholder.
type VaultTotals struct {
	TotalAssets    *amount.Scaled
	TotalSupply    *amount.Scaled
	OffchainAssets *amount.Scaled
}
