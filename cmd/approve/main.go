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

	"go.uber.org/zap"

	"github.com/Frith-Labs/frith-vaults-dapp/internal/amount"
	appcommon "github.com/Frith-Labs/frith-vaults-dapp/internal/common"
	"github.com/Frith-Labs/frith-vaults-dapp/internal/config"
	"github.com/Frith-Labs/frith-vaults-dapp/internal/submit"
)

func main() {
	ctx := context.Background()

	logger, loggerCleanup := appcommon.InitializeLogger()
	defer loggerCleanup()

	amountFlag := flag.String("amount", "", "Asset allowance to grant the vault (required)")
	flag.Parse()

	if *amountFlag == "" {
		logger.Fatal("Required flag: --amount")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	services, err := appcommon.InitializeServices(ctx, cfg, true)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	meta := services.Vault.Metadata()
	owner, err := services.Vault.SignerAddress()
	if err != nil {
		logger.Fatal("No signer configured", zap.Error(err))
	}

	value := amount.ParseDecimal(*amountFlag, meta.AssetDecimals)
	if value.IsZero() {
		logger.Fatal("Nothing to approve: amount is empty, malformed, or zero",
			zap.String("input", *amountFlag))
	}

	current, err := services.Vault.Allowance(ctx, owner)
	if err == nil {
		fmt.Printf("Current allowance: %s %s\n", amount.Format(current, 6), meta.AssetSymbol)
	}

	appcommon.PrintHeader("APPROVE ALLOWANCE", appcommon.DefaultWidth)
	fmt.Printf("│  Vault  : %s (%s)\n", meta.Name, meta.Symbol)
	fmt.Printf("│  Amount : %s %s\n", amount.Format(value, 6), meta.AssetSymbol)
	fmt.Printf("└  Owner  : %s\n", owner.Hex())

	sequencer := submit.NewSequencer(services.Vault, services.Journal, owner)
	outcome := sequencer.RunApprove(ctx, value)

	for i, hash := range outcome.TxHashes {
		fmt.Printf("Transaction %d: %s\n", i+1, hash.Hex())
	}

	if !outcome.Settled() {
		appcommon.PrintFooter("APPROVAL FAILED", appcommon.DefaultWidth)
		logger.Fatal("Approval failed",
			zap.String("submission_id", outcome.SubmissionId),
			zap.Error(outcome.Err))
	}

	appcommon.PrintFooter("APPROVAL SETTLED", appcommon.DefaultWidth)
	logger.Info("Approval settled",
		zap.String("submission_id", outcome.SubmissionId),
		zap.String("amount", value.String()))
}
