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
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/Frith-Labs/frith-vaults-dapp/internal/amount"
	appcommon "github.com/Frith-Labs/frith-vaults-dapp/internal/common"
	"github.com/Frith-Labs/frith-vaults-dapp/internal/config"
	"github.com/Frith-Labs/frith-vaults-dapp/internal/snapshot"
)

func main() {
	accountFlag := flag.String("account", "", "Account address to track balances for (optional)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	_, loggerCleanup := appcommon.InitializeLogger()
	defer loggerCleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	zap.L().Info("Starting vault watcher")

	var account *common.Address
	if *accountFlag != "" {
		if !common.IsHexAddress(*accountFlag) {
			zap.L().Fatal("Invalid account address", zap.String("account", *accountFlag))
		}
		parsed := common.HexToAddress(*accountFlag)
		account = &parsed
	}

	services, err := appcommon.InitializeServices(ctx, cfg, false)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	meta := services.Vault.Metadata()

	watcher := snapshot.NewWatcher(snapshot.WatcherConfig{
		Client:          services.Vault,
		Account:         account,
		PollInterval:    cfg.Snapshot.PollInterval,
		TTL:             cfg.Snapshot.TTL,
		CleanupInterval: cfg.Snapshot.CleanupInterval,
		OnUpdate: func(snap *snapshot.VaultSnapshot) {
			state := "?"
			if snap.Limits != nil {
				if snap.Limits.Paused {
					state = "PAUSED"
				} else {
					state = "active"
				}
			}
			line := fmt.Sprintf("[%s] %s %s | tvl %s %s | available %s %s",
				snap.FetchedAt.Format("15:04:05"),
				meta.Symbol, state,
				amount.FormatOptional(snap.Totals.TotalAssets, 2), meta.AssetSymbol,
				availableText(snap), meta.AssetSymbol)
			if snap.Account != nil {
				line += fmt.Sprintf(" | balance %s %s",
					amount.FormatOptional(snap.Account.AssetBalance, 2), meta.AssetSymbol)
			}
			fmt.Println(line)
		},
	})

	watcher.Start(ctx)

	zap.L().Info("Vault watcher running",
		zap.String("vault", cfg.Chain.VaultAddress),
		zap.Duration("poll_interval", cfg.Snapshot.PollInterval))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zap.L().Info("Shutdown signal received")
	watcher.Stop()
}

func availableText(snap *snapshot.VaultSnapshot) string {
	if snap.Limits == nil {
		return amount.Placeholder
	}
	return amount.Format(snap.Limits.AvailableToDeposit, 2)
}
