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

type redeemRequest struct {
	sharesText string
	receiver   string
}

func parseAndValidateFlags() (*redeemRequest, error) {
	sharesFlag := flag.String("shares", "", "Share amount to redeem (required)")
	receiverFlag := flag.String("receiver", "", "Asset receiver address (default: signer)")
	flag.Parse()

	if *sharesFlag == "" {
		return nil, fmt.Errorf("required flag: --shares")
	}
	if *receiverFlag != "" && !common.IsHexAddress(*receiverFlag) {
		return nil, fmt.Errorf("invalid receiver address: %q", *receiverFlag)
	}

	return &redeemRequest{
		sharesText: *sharesFlag,
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

	requested := amount.ParseDecimal(request.sharesText, meta.ShareDecimals)
	if requested.IsZero() {
		logger.Fatal("Nothing to redeem: share amount is empty, malformed, or zero",
			zap.String("input", request.sharesText))
	}

	maxRedeem, err := services.Vault.MaxRedeem(ctx, owner)
	if err == nil {
		if over, cmpErr := requested.Cmp(maxRedeem); cmpErr == nil && over > 0 {
			logger.Fatal("Requested shares exceed redeemable balance",
				zap.String("requested", requested.String()),
				zap.String("redeemable", maxRedeem.String()))
		}
	}

	// The vault's withdraw limits are asset-denominated, so validation
	// needs the previewed proceeds. Without a resolved preview the action
	// stays blocked; never submit on an unknown estimate.
	tracker := snapshot.NewPreviewTracker()
	previewAssets, err := tracker.Resolve(ctx, requested, services.Vault.PreviewRedeem)
	if err != nil {
		logger.Fatal("Redeem preview unavailable; cannot validate against withdraw limits", zap.Error(err))
	}

	limits, err := services.Vault.PolicyLimits(ctx)
	if err != nil {
		logger.Fatal("Vault limits not loaded; refusing to submit blind", zap.Error(err))
	}

	intent := policy.RedeemIntent{RequestedShares: requested, PreviewAssets: previewAssets}
	if ok, reason := policy.CanSubmitRedeem(intent, limits); !ok {
		appcommon.PrintHeader("REDEEM BLOCKED BY VAULT POLICY", appcommon.DefaultWidth)
		fmt.Printf("%s %s\n", appcommon.BoxPrefix(true), reason)
		logger.Fatal("Redeem does not satisfy vault policy", zap.String("reason", reason))
	}

	appcommon.PrintHeader("REDEEM", appcommon.DefaultWidth)
	fmt.Printf("│  Vault    : %s (%s)\n", meta.Name, meta.Symbol)
	fmt.Printf("│  Shares   : %s %s\n", amount.Format(requested, 6), meta.Symbol)
	fmt.Printf("│  Estimated: %s %s\n", amount.FormatOptional(previewAssets, 6), meta.AssetSymbol)
	fmt.Printf("└  Receiver : %s\n", receiver.Hex())

	sequencer := submit.NewSequencer(services.Vault, services.Journal, owner)
	outcome := sequencer.RunRedeem(ctx, requested, receiver)

	for i, hash := range outcome.TxHashes {
		fmt.Printf("Transaction %d: %s\n", i+1, hash.Hex())
	}

	if !outcome.Settled() {
		appcommon.PrintFooter("REDEEM FAILED: nothing will be retried automatically; re-run to resume", appcommon.DefaultWidth)
		logger.Fatal("Redeem sequence failed",
			zap.String("submission_id", outcome.SubmissionId),
			zap.Error(outcome.Err))
	}

	appcommon.PrintFooter("REDEEM SETTLED", appcommon.DefaultWidth)
	logger.Info("Redeem settled",
		zap.String("submission_id", outcome.SubmissionId),
		zap.String("shares", requested.String()))
}
