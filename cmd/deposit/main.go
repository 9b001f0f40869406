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

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/Frith-Labs/frith-vaults-dapp/internal/amount"
	appcommon "github.com/Frith-Labs/frith-vaults-dapp/internal/common"
	"github.com/Frith-Labs/frith-vaults-dapp/internal/config"
	"github.com/Frith-Labs/frith-vaults-dapp/internal/policy"
	"github.com/Frith-Labs/frith-vaults-dapp/internal/snapshot"
	"github.com/Frith-Labs/frith-vaults-dapp/internal/submit"
)

type depositRequest struct {
	amountText string
	receiver   string
}

func parseAndValidateFlags() (*depositRequest, error) {
	amountFlag := flag.String("amount", "", "Asset amount to deposit (required)")
	receiverFlag := flag.String("receiver", "", "Share receiver address (default: signer)")
	flag.Parse()

	if *amountFlag == "" {
		return nil, fmt.Errorf("required flag: --amount")
	}
	if *receiverFlag != "" && !common.IsHexAddress(*receiverFlag) {
		return nil, fmt.Errorf("invalid receiver address: %q", *receiverFlag)
	}

	return &depositRequest{
		amountText: *amountFlag,
		receiver:   *receiverFlag,
	}, nil
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := appcommon.InitializeLogger()
	defer loggerCleanup()

	request, err := parseAndValidateFlags()
	if err != nil {
		logger.Fatal("Invalid arguments", zap.Error(err))
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

	receiver := owner
	if request.receiver != "" {
		receiver = common.HexToAddress(request.receiver)
	}

	requested := amount.ParseDecimal(request.amountText, meta.AssetDecimals)
	if requested.IsZero() {
		logger.Fatal("Nothing to deposit: amount is empty, malformed, or zero",
			zap.String("input", request.amountText))
	}

	// Point-in-time estimate of the shares minted; final proceeds are
	// whatever the contract mints when the transaction lands.
	tracker := snapshot.NewPreviewTracker()
	previewShares, err := tracker.Resolve(ctx, requested, services.Vault.PreviewDeposit)
	if err != nil {
		logger.Warn("Deposit preview unavailable", zap.Error(err))
	}

	limits, err := services.Vault.PolicyLimits(ctx)
	if err != nil {
		logger.Fatal("Vault limits not loaded; refusing to submit blind", zap.Error(err))
	}

	intent := policy.DepositIntent{RequestedAssets: requested, PreviewShares: previewShares}
	result := policy.ValidateDeposit(intent, *limits)
	if !result.Allowed {
		appcommon.PrintHeader("DEPOSIT BLOCKED BY VAULT POLICY", appcommon.DefaultWidth)
		for i, violation := range result.Violations {
			fmt.Printf("%s %s\n", appcommon.BoxPrefix(i == len(result.Violations)-1), policy.DescribeDeposit(violation, *limits))
		}
		logger.Fatal("Deposit does not satisfy vault policy",
			zap.Int("violations", len(result.Violations)))
	}

	appcommon.PrintHeader("DEPOSIT", appcommon.DefaultWidth)
	fmt.Printf("│  Vault    : %s (%s)\n", meta.Name, meta.Symbol)
	fmt.Printf("│  Amount   : %s %s\n", amount.Format(requested, 6), meta.AssetSymbol)
	fmt.Printf("│  Estimated: %s %s\n", amount.FormatOptional(previewShares, 6), meta.Symbol)
	fmt.Printf("└  Receiver : %s\n", receiver.Hex())

	sequencer := submit.NewSequencer(services.Vault, services.Journal, owner)
	outcome := sequencer.RunDeposit(ctx, requested, receiver)

	for i, hash := range outcome.TxHashes {
		fmt.Printf("Transaction %d: %s\n", i+1, hash.Hex())
	}

	if !outcome.Settled() {
		appcommon.PrintFooter("DEPOSIT FAILED: nothing will be retried automatically; re-run to resume", appcommon.DefaultWidth)
		logger.Fatal("Deposit sequence failed",
			zap.String("submission_id", outcome.SubmissionId),
			zap.Error(outcome.Err))
	}

	appcommon.PrintFooter("DEPOSIT SETTLED", appcommon.DefaultWidth)
	logger.Info("Deposit settled",
		zap.String("submission_id", outcome.SubmissionId),
		zap.String("amount", requested.String()))
}
