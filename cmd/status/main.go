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

package main

import (
	"context"
	"flag"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/Frith-Labs/frith-vaults-dapp/internal/amount"
	appcommon "github.com/Frith-Labs/frith-vaults-dapp/internal/common"
	"github.com/Frith-Labs/frith-vaults-dapp/internal/config"
	"github.com/Frith-Labs/frith-vaults-dapp/internal/models"
	"github.com/Frith-Labs/frith-vaults-dapp/internal/snapshot"
)

const displayFractionDigits = 6

func printLimits(limits *models.PolicyLimits, assetSymbol string) {
	if limits == nil {
		fmt.Printf("│  Policy limits: %s (not loaded; actions disabled)\n", amount.Placeholder)
		return
	}

	state := "active"
	if limits.Paused {
		state = "PAUSED"
	}

	fmt.Printf("│  State          : %s\n", state)
	fmt.Printf("│  Deposit cap    : %20s %s\n", amount.Format(limits.DepositCap, displayFractionDigits), assetSymbol)
	fmt.Printf("│  Available      : %20s %s\n", amount.Format(limits.AvailableToDeposit, displayFractionDigits), assetSymbol)
	fmt.Printf("│  Deposit range  : %s – %s %s\n",
		amount.Format(limits.MinDepositTx, displayFractionDigits),
		amount.Format(limits.MaxDepositTx, displayFractionDigits), assetSymbol)
	fmt.Printf("│  Withdraw range : %s – %s %s\n",
		amount.Format(limits.MinWithdrawTx, displayFractionDigits),
		amount.Format(limits.MaxWithdrawTx, displayFractionDigits), assetSymbol)
	fmt.Printf("│  Cooldowns      : deposit %ds, withdraw %ds\n",
		limits.DepositCooldown, limits.WithdrawCooldown)
}

func printTotals(totals models.VaultTotals, assetSymbol, shareSymbol string) {
	fmt.Printf("│  Total assets   : %20s %s\n", amount.FormatOptional(totals.TotalAssets, displayFractionDigits), assetSymbol)
	fmt.Printf("│  Total supply   : %20s %s\n", amount.FormatOptional(totals.TotalSupply, displayFractionDigits), shareSymbol)
	fmt.Printf("│  Off-chain      : %20s %s\n", amount.FormatOptional(totals.OffchainAssets, displayFractionDigits), assetSymbol)
}

func printAccount(state *models.AccountState, limits *models.PolicyLimits, assetSymbol, shareSymbol string) {
	fmt.Printf("│  Asset balance  : %20s %s\n", amount.FormatOptional(state.AssetBalance, displayFractionDigits), assetSymbol)
	fmt.Printf("│  Redeemable     : %20s %s\n", amount.FormatOptional(state.MaxRedeem, displayFractionDigits), shareSymbol)
	fmt.Printf("│  Allowance      : %20s %s\n", amount.FormatOptional(state.Allowance, displayFractionDigits), assetSymbol)

	if limits != nil {
		now := time.Now()
		if remaining := snapshot.CooldownRemaining(state.LastDepositAt, limits.DepositCooldown, now); remaining > 0 {
			fmt.Printf("│  Deposit cooldown active for another %s\n", remaining.Round(time.Second))
		}
		if remaining := snapshot.CooldownRemaining(state.LastWithdrawAt, limits.WithdrawCooldown, now); remaining > 0 {
			fmt.Printf("│  Withdraw cooldown active for another %s\n", remaining.Round(time.Second))
		}
	}
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := appcommon.InitializeLogger()
	defer loggerCleanup()

	accountFlag := flag.String("account", "", "Account address to show balances for (optional)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	var account *common.Address
	if *accountFlag != "" {
		if !common.IsHexAddress(*accountFlag) {
			logger.Fatal("Invalid account address", zap.String("account", *accountFlag))
		}
		parsed := common.HexToAddress(*accountFlag)
		account = &parsed
	}

	services, err := appcommon.InitializeServices(ctx, cfg, false)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	meta := services.Vault.Metadata()

	// Best-effort registry label; the vault works without one.
	registryName := ""
	if vaults, err := appcommon.LoadVaultRegistry(cfg.Chain.VaultsFile); err == nil {
		if entry := appcommon.FindVaultByAddress(vaults, cfg.Chain.VaultAddress); entry != nil {
			registryName = fmt.Sprintf(" [%s on %s]", entry.Name, entry.Network)
		}
	}

	watcher := snapshot.NewWatcher(snapshot.WatcherConfig{
		Client:       services.Vault,
		Account:      account,
		PollInterval: cfg.Snapshot.PollInterval,
		TTL:          cfg.Snapshot.TTL,
	})
	snap := watcher.Refresh(ctx)

	appcommon.PrintHeader("VAULT STATUS REPORT", appcommon.DefaultWidth)

	fmt.Printf("\n┌─ Vault: %s (%s)%s\n", meta.Name, meta.Symbol, registryName)
	fmt.Printf("│  Contract: %s (chain %d)\n", cfg.Chain.VaultAddress, cfg.Chain.ChainID)
	fmt.Printf("│  Asset: %s (%d decimals)\n", meta.AssetSymbol, meta.AssetDecimals)
	appcommon.PrintBoxSeparator(78)
	printLimits(snap.Limits, meta.AssetSymbol)
	appcommon.PrintBoxSeparator(78)
	printTotals(snap.Totals, meta.AssetSymbol, meta.Symbol)

	// Current share price, derived by converting one whole share.
	oneShare := amount.FromBig(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(meta.ShareDecimals)), nil), meta.ShareDecimals)
	if price, err := services.Vault.ConvertToAssets(ctx, oneShare); err == nil {
		fmt.Printf("│  Share price    : %20s %s per %s\n",
			amount.Format(price, displayFractionDigits), meta.AssetSymbol, meta.Symbol)
	} else {
		fmt.Printf("│  Share price    : %20s\n", amount.Placeholder)
	}

	if snap.Account != nil {
		appcommon.PrintBoxSeparator(78)
		fmt.Printf("│  Account: %s\n", account.Hex())
		printAccount(snap.Account, snap.Limits, meta.AssetSymbol, meta.Symbol)
	}
	fmt.Println("└" + "─")

	appcommon.PrintFooter(fmt.Sprintf("Snapshot taken at %s", snap.FetchedAt.Format("2006-01-02 15:04:05")), appcommon.DefaultWidth)

	logger.Info("Status query completed")
}
