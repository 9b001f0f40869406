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

package vault

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/Frith-Labs/frith-vaults-dapp/internal/amount"
	"github.com/Frith-Labs/frith-vaults-dapp/internal/models"
)

// All reads are point-in-time views of chain state. Callers must treat
// previews and conversions as estimates: the vault may accrue yield or
// change state between a read and a later transaction.

func (c *Client) call(ctx context.Context, to common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("unable to pack %s: %w", method, err)
	}

	out, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call to %s failed: %w", method, err)
	}

	values, err := parsed.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("unable to decode %s result: %w", method, err)
	}
	return values, nil
}

func (c *Client) callBig(ctx context.Context, to common.Address, parsed abi.ABI, method string, args ...interface{}) (*big.Int, error) {
	values, err := c.call(ctx, to, parsed, method, args...)
	if err != nil {
		return nil, err
	}
	result, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s returned unexpected type %T", method, values[0])
	}
	return result, nil
}

func (c *Client) callString(ctx context.Context, to common.Address, parsed abi.ABI, method string) (string, error) {
	values, err := c.call(ctx, to, parsed, method)
	if err != nil {
		return "", err
	}
	result, ok := values[0].(string)
	if !ok {
		return "", fmt.Errorf("%s returned unexpected type %T", method, values[0])
	}
	return result, nil
}

func (c *Client) callUint8(ctx context.Context, to common.Address, parsed abi.ABI, method string) (uint8, error) {
	values, err := c.call(ctx, to, parsed, method)
	if err != nil {
		return 0, err
	}
	result, ok := values[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("%s returned unexpected type %T", method, values[0])
	}
	return result, nil
}

func (c *Client) callBool(ctx context.Context, to common.Address, parsed abi.ABI, method string) (bool, error) {
	values, err := c.call(ctx, to, parsed, method)
	if err != nil {
		return false, err
	}
	result, ok := values[0].(bool)
	if !ok {
		return false, fmt.Errorf("%s returned unexpected type %T", method, values[0])
	}
	return result, nil
}

func (c *Client) callAddress(ctx context.Context, to common.Address, parsed abi.ABI, method string) (common.Address, error) {
	values, err := c.call(ctx, to, parsed, method)
	if err != nil {
		return common.Address{}, err
	}
	result, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%s returned unexpected type %T", method, values[0])
	}
	return result, nil
}

func (c *Client) vaultAsset(ctx context.Context, method string, args ...interface{}) (amount.Scaled, error) {
	meta, err := c.requireMetadata()
	if err != nil {
		return amount.Scaled{}, err
	}
	raw, err := c.callBig(ctx, c.VaultAddress, vaultABI, method, args...)
	if err != nil {
		return amount.Scaled{}, err
	}
	return amount.FromBig(raw, meta.AssetDecimals), nil
}

func (c *Client) vaultShares(ctx context.Context, method string, args ...interface{}) (amount.Scaled, error) {
	meta, err := c.requireMetadata()
	if err != nil {
		return amount.Scaled{}, err
	}
	raw, err := c.callBig(ctx, c.VaultAddress, vaultABI, method, args...)
	if err != nil {
		return amount.Scaled{}, err
	}
	return amount.FromBig(raw, meta.ShareDecimals), nil
}

// TotalAssets is the vault's asset-denominated TVL.
func (c *Client) TotalAssets(ctx context.Context) (amount.Scaled, error) {
	return c.vaultAsset(ctx, "totalAssets")
}

// TotalSupply is the outstanding share supply.
func (c *Client) TotalSupply(ctx context.Context) (amount.Scaled, error) {
	return c.vaultShares(ctx, "totalSupply")
}

// OffchainAssets is the portion of TVL deployed off-chain.
func (c *Client) OffchainAssets(ctx context.Context) (amount.Scaled, error) {
	return c.vaultAsset(ctx, "offchainAssets")
}

// ConvertToAssets applies the current share price to a share amount.
func (c *Client) ConvertToAssets(ctx context.Context, shares amount.Scaled) (amount.Scaled, error) {
	return c.vaultAsset(ctx, "convertToAssets", shares.Raw)
}

// ConvertToShares applies the current share price to an asset amount.
func (c *Client) ConvertToShares(ctx context.Context, assets amount.Scaled) (amount.Scaled, error) {
	return c.vaultShares(ctx, "convertToShares", assets.Raw)
}

// PreviewDeposit estimates the shares minted for an asset deposit. A zero
// amount never goes over the wire; there is no intent to preview yet.
func (c *Client) PreviewDeposit(ctx context.Context, assets amount.Scaled) (amount.Scaled, error) {
	meta, err := c.requireMetadata()
	if err != nil {
		return amount.Scaled{}, err
	}
	if assets.IsZero() {
		return amount.Zero(meta.ShareDecimals), nil
	}
	return c.vaultShares(ctx, "previewDeposit", assets.Raw)
}

// PreviewRedeem estimates the assets returned for a share redemption,
// with the same zero short-circuit as PreviewDeposit.
func (c *Client) PreviewRedeem(ctx context.Context, shares amount.Scaled) (amount.Scaled, error) {
	meta, err := c.requireMetadata()
	if err != nil {
		return amount.Scaled{}, err
	}
	if shares.IsZero() {
		return amount.Zero(meta.AssetDecimals), nil
	}
	return c.vaultAsset(ctx, "previewRedeem", shares.Raw)
}

// MaxRedeem is the largest share amount the owner may currently redeem.
func (c *Client) MaxRedeem(ctx context.Context, owner common.Address) (amount.Scaled, error) {
	return c.vaultShares(ctx, "maxRedeem", owner)
}

// PolicyLimits reads the full policy snapshot in one pass. Any failing
// field fails the snapshot; callers treat that as "limits not loaded" and
// keep actions disabled.
func (c *Client) PolicyLimits(ctx context.Context) (*models.PolicyLimits, error) {
	paused, err := c.callBool(ctx, c.VaultAddress, vaultABI, "isPaused")
	if err != nil {
		return nil, err
	}

	limits := &models.PolicyLimits{Paused: paused}

	assetFields := []struct {
		method string
		target *amount.Scaled
	}{
		{"depositCap", &limits.DepositCap},
		{"availableToDeposit", &limits.AvailableToDeposit},
		{"minDepositTx", &limits.MinDepositTx},
		{"maxDepositTx", &limits.MaxDepositTx},
		{"minWithdrawTx", &limits.MinWithdrawTx},
		{"maxWithdrawTx", &limits.MaxWithdrawTx},
	}
	for _, field := range assetFields {
		value, err := c.vaultAsset(ctx, field.method)
		if err != nil {
			return nil, err
		}
		*field.target = value
	}

	cooldownFields := []struct {
		method string
		target *uint64
	}{
		{"depositCooldown", &limits.DepositCooldown},
		{"withdrawCooldown", &limits.WithdrawCooldown},
	}
	for _, field := range cooldownFields {
		value, err := c.callBig(ctx, c.VaultAddress, vaultABI, field.method)
		if err != nil {
			return nil, err
		}
		*field.target = value.Uint64()
	}

	return limits, nil
}

// LastDepositAt is the account's most recent deposit timestamp, nil when
// the account has never deposited.
func (c *Client) LastDepositAt(ctx context.Context, account common.Address) (*time.Time, error) {
	return c.callTimestamp(ctx, "lastDepositAt", account)
}

// LastWithdrawAt is the account's most recent withdrawal timestamp.
func (c *Client) LastWithdrawAt(ctx context.Context, account common.Address) (*time.Time, error) {
	return c.callTimestamp(ctx, "lastWithdrawAt", account)
}

func (c *Client) callTimestamp(ctx context.Context, method string, account common.Address) (*time.Time, error) {
	raw, err := c.callBig(ctx, c.VaultAddress, vaultABI, method, account)
	if err != nil {
		return nil, err
	}
	if raw.Sign() == 0 {
		return nil, nil
	}
	ts := time.Unix(int64(raw.Uint64()), 0).UTC()
	return &ts, nil
}

// AssetBalance is the account's balance of the underlying token.
func (c *Client) AssetBalance(ctx context.Context, account common.Address) (amount.Scaled, error) {
	meta, err := c.requireMetadata()
	if err != nil {
		return amount.Scaled{}, err
	}
	asset, err := c.assetAddress()
	if err != nil {
		return amount.Scaled{}, err
	}
	raw, err := c.callBig(ctx, asset, erc20ABI, "balanceOf", account)
	if err != nil {
		return amount.Scaled{}, err
	}
	return amount.FromBig(raw, meta.AssetDecimals), nil
}

// Allowance is how much of the owner's asset balance the vault may pull.
func (c *Client) Allowance(ctx context.Context, owner common.Address) (amount.Scaled, error) {
	meta, err := c.requireMetadata()
	if err != nil {
		return amount.Scaled{}, err
	}
	asset, err := c.assetAddress()
	if err != nil {
		return amount.Scaled{}, err
	}
	raw, err := c.callBig(ctx, asset, erc20ABI, "allowance", owner, c.VaultAddress)
	if err != nil {
		return amount.Scaled{}, err
	}
	return amount.FromBig(raw, meta.AssetDecimals), nil
}
