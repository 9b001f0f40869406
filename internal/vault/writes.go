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
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/Frith-Labs/frith-vaults-dapp/internal/amount"
)

// ErrReverted means the transaction was mined but the contract rejected
// it. The client never retries; the user re-initiates.
var ErrReverted = errors.New("transaction reverted on-chain")

const (
	defaultReceiptPoll    = 2 * time.Second
	defaultReceiptTimeout = 3 * time.Minute
)

func (c *Client) sendTransaction(ctx context.Context, to common.Address, parsed abi.ABI, method string, args ...interface{}) (common.Hash, error) {
	if c.key == nil {
		return common.Hash{}, errors.New("no signing key configured")
	}

	from := gethcrypto.PubkeyToAddress(c.key.PublicKey)

	data, err := parsed.Pack(method, args...)
	if err != nil {
		return common.Hash{}, fmt.Errorf("unable to pack %s: %w", method, err)
	}

	nonce, err := c.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("unable to fetch nonce: %w", err)
	}

	gasPrice, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("unable to fetch gas price: %w", err)
	}

	gasLimit, err := c.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:     from,
		To:       &to,
		GasPrice: gasPrice,
		Data:     data,
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("gas estimation failed for %s: %w", method, err)
	}

	tx := gethtypes.NewTx(&gethtypes.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signed, err := gethtypes.SignTx(tx, gethtypes.LatestSignerForChainID(c.ChainID), c.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("unable to sign %s: %w", method, err)
	}

	if err := c.backend.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("unable to broadcast %s: %w", method, err)
	}

	zap.L().Info("Broadcast transaction",
		zap.String("method", method),
		zap.String("tx_hash", signed.Hash().Hex()),
		zap.Uint64("nonce", nonce))

	return signed.Hash(), nil
}

// Approve grants the vault an allowance over the underlying asset.
func (c *Client) Approve(ctx context.Context, value amount.Scaled) (common.Hash, error) {
	asset, err := c.assetAddress()
	if err != nil {
		return common.Hash{}, err
	}
	return c.sendTransaction(ctx, asset, erc20ABI, "approve", c.VaultAddress, value.Raw)
}

// Deposit sends assets to the vault, minting shares to the receiver.
func (c *Client) Deposit(ctx context.Context, assets amount.Scaled, receiver common.Address) (common.Hash, error) {
	return c.sendTransaction(ctx, c.VaultAddress, vaultABI, "deposit", assets.Raw, receiver)
}

// Redeem burns the owner's shares, sending assets to the receiver.
func (c *Client) Redeem(ctx context.Context, shares amount.Scaled, receiver, owner common.Address) (common.Hash, error) {
	return c.sendTransaction(ctx, c.VaultAddress, vaultABI, "redeem", shares.Raw, receiver, owner)
}

// WaitMined blocks until the transaction is accepted on-chain, then
// checks whether it succeeded. "Submitted" is not enough for sequencing:
// the deposit step must only start after the approval's receipt confirms.
func (c *Client) WaitMined(ctx context.Context, txHash common.Hash) error {
	poll := c.receiptPoll
	if poll <= 0 {
		poll = defaultReceiptPoll
	}
	timeout := c.receiptTimeout
	if timeout <= 0 {
		timeout = defaultReceiptTimeout
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		receipt, err := c.backend.TransactionReceipt(waitCtx, txHash)
		if err == nil {
			if receipt.Status != gethtypes.ReceiptStatusSuccessful {
				return fmt.Errorf("%w: %s", ErrReverted, txHash.Hex())
			}
			return nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return fmt.Errorf("unable to query receipt for %s: %w", txHash.Hex(), err)
		}

		select {
		case <-waitCtx.Done():
			return fmt.Errorf("timed out waiting for %s: %w", txHash.Hex(), waitCtx.Err())
		case <-ticker.C:
		}
	}
}
