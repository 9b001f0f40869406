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

// Package vault is the client for the on-chain vault contract and its
// underlying asset token. All accounting and policy enforcement lives on
// the contract; this package only issues the fixed read/write interface
// against it over JSON-RPC.
package vault

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/net/http2"

	"github.com/Frith-Labs/frith-vaults-dapp/internal/models"
)

// ErrWrongNetwork is returned when the RPC endpoint answers for a chain
// other than the one the vault is deployed on. Switching networks is the
// operator's call; the client only detects and reports the mismatch.
var ErrWrongNetwork = errors.New("connected to the wrong network")

// Backend is the subset of the Ethereum RPC surface the client uses.
// *ethclient.Client satisfies it; tests substitute a fake.
type Backend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *gethtypes.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*gethtypes.Receipt, error)
}

// Client talks to one vault deployment on one network.
type Client struct {
	VaultAddress common.Address `validate:"required"`
	ChainID      *big.Int       `validate:"required"`

	backend Backend
	key     *ecdsa.PrivateKey

	// Filled by LoadMetadata; reads that need a decimal scale or the
	// asset address require it to have run first.
	meta *models.VaultMetadata

	receiptPoll    time.Duration
	receiptTimeout time.Duration
}

type Option func(*Client)

// WithBackend substitutes the RPC backend, used by tests.
func WithBackend(backend Backend) Option {
	return func(c *Client) {
		c.backend = backend
	}
}

// WithSignerKey arms the client for write operations. Read-only commands
// leave it unset.
func WithSignerKey(key *ecdsa.PrivateKey) Option {
	return func(c *Client) {
		c.key = key
	}
}

// NewClient dials the configured RPC endpoint and verifies it answers for
// the expected chain before returning.
func NewClient(ctx context.Context, cfg models.ChainConfig, options ...Option) (*Client, error) {
	if !common.IsHexAddress(cfg.VaultAddress) {
		return nil, fmt.Errorf("invalid vault address: %q", cfg.VaultAddress)
	}

	c := &Client{
		VaultAddress:   common.HexToAddress(cfg.VaultAddress),
		ChainID:        big.NewInt(cfg.ChainID),
		receiptPoll:    cfg.ReceiptPoll,
		receiptTimeout: cfg.ReceiptTimeout,
	}
	for _, option := range options {
		option(c)
	}

	if c.backend == nil {
		backend, err := dial(ctx, cfg.RPCURL)
		if err != nil {
			return nil, err
		}
		c.backend = backend
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := c.VerifyNetwork(ctx); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Client) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid vault client: %w", err)
	}
	if c.backend == nil {
		return errors.New("invalid vault client: no backend")
	}
	return nil
}

func dial(ctx context.Context, rpcURL string) (*ethclient.Client, error) {
	if rpcURL == "" {
		return nil, errors.New("rpc url is required")
	}

	httpClient, err := createCustomHttpClient()
	if err != nil {
		return nil, fmt.Errorf("unable to create custom http client: %w", err)
	}

	rpcClient, err := rpc.DialOptions(ctx, rpcURL, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to dial rpc endpoint: %w", err)
	}

	return ethclient.NewClient(rpcClient), nil
}

func createCustomHttpClient() (*http.Client, error) {
	tr := &http.Transport{
		ResponseHeaderTimeout: 30 * time.Second,
		Proxy:                 http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
			Timeout:   15 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConnsPerHost:   5,
		ExpectContinueTimeout: 5 * time.Second,
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		return nil, err
	}

	return &http.Client{
		Transport: tr,
		Timeout:   60 * time.Second,
	}, nil
}

// VerifyNetwork surfaces a chain id mismatch between the RPC endpoint and
// the configured network.
func (c *Client) VerifyNetwork(ctx context.Context) error {
	chainID, err := c.backend.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("unable to query chain id: %w", err)
	}
	if chainID.Cmp(c.ChainID) != 0 {
		return fmt.Errorf("%w: expected chain %s, endpoint reports %s",
			ErrWrongNetwork, c.ChainID.String(), chainID.String())
	}
	return nil
}

// CanWrite reports whether the client holds a signing key.
func (c *Client) CanWrite() bool {
	return c.key != nil
}

// SignerAddress is the address of the armed signing key.
func (c *Client) SignerAddress() (common.Address, error) {
	if c.key == nil {
		return common.Address{}, errors.New("no signing key configured")
	}
	return gethcrypto.PubkeyToAddress(c.key.PublicKey), nil
}

// LoadMetadata fetches the vault and asset token descriptors. Must run
// before any scale-aware read or write.
func (c *Client) LoadMetadata(ctx context.Context) (*models.VaultMetadata, error) {
	name, err := c.callString(ctx, c.VaultAddress, vaultABI, "name")
	if err != nil {
		return nil, fmt.Errorf("unable to read vault name: %w", err)
	}
	symbol, err := c.callString(ctx, c.VaultAddress, vaultABI, "symbol")
	if err != nil {
		return nil, fmt.Errorf("unable to read vault symbol: %w", err)
	}
	shareDecimals, err := c.callUint8(ctx, c.VaultAddress, vaultABI, "decimals")
	if err != nil {
		return nil, fmt.Errorf("unable to read vault decimals: %w", err)
	}
	assetAddr, err := c.callAddress(ctx, c.VaultAddress, vaultABI, "asset")
	if err != nil {
		return nil, fmt.Errorf("unable to read vault asset: %w", err)
	}
	assetSymbol, err := c.callString(ctx, assetAddr, erc20ABI, "symbol")
	if err != nil {
		return nil, fmt.Errorf("unable to read asset symbol: %w", err)
	}
	assetDecimals, err := c.callUint8(ctx, assetAddr, erc20ABI, "decimals")
	if err != nil {
		return nil, fmt.Errorf("unable to read asset decimals: %w", err)
	}

	c.meta = &models.VaultMetadata{
		Name:          name,
		Symbol:        symbol,
		ShareDecimals: shareDecimals,
		AssetAddress:  assetAddr.Hex(),
		AssetSymbol:   assetSymbol,
		AssetDecimals: assetDecimals,
	}

	zap.L().Info("Loaded vault metadata",
		zap.String("name", name),
		zap.String("symbol", symbol),
		zap.String("asset", assetSymbol),
		zap.Uint8("asset_decimals", assetDecimals))

	return c.meta, nil
}

// Metadata returns the cached descriptors, or nil before LoadMetadata.
func (c *Client) Metadata() *models.VaultMetadata {
	return c.meta
}

func (c *Client) requireMetadata() (*models.VaultMetadata, error) {
	if c.meta == nil {
		return nil, errors.New("vault metadata not loaded")
	}
	return c.meta, nil
}

func (c *Client) assetAddress() (common.Address, error) {
	meta, err := c.requireMetadata()
	if err != nil {
		return common.Address{}, err
	}
	return common.HexToAddress(meta.AssetAddress), nil
}
