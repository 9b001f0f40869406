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

	appcommon "github.com/Frith-Labs/frith-vaults-dapp/internal/common"
	"github.com/Frith-Labs/frith-vaults-dapp/internal/config"
	"github.com/Frith-Labs/frith-vaults-dapp/internal/journal"
	"github.com/Frith-Labs/frith-vaults-dapp/internal/models"
)

func printSubmission(sub models.Submission, isLast bool) {
	fmt.Printf("%s %-8s %-18s %-8s tx: %s (%s)\n",
		appcommon.BoxPrefix(isLast),
		sub.Kind,
		sub.Step,
		sub.Status,
		appcommon.FormatTxHash(sub.TxHash),
		sub.CreatedAt.Format("2006-01-02 15:04:05"))
	if sub.Error != "" {
		fmt.Printf("%s error: %s\n", appcommon.BoxDetailPrefix(isLast), sub.Error)
	}
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := appcommon.InitializeLogger()
	defer loggerCleanup()

	limitFlag := flag.Int("limit", 25, "Maximum submissions to show")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// The journal is local; no network connection needed to read it.
	journalService, err := journal.NewService(ctx, cfg.Journal)
	if err != nil {
		logger.Fatal("Failed to open journal", zap.Error(err))
	}
	defer journalService.Close()

	submissions, err := journalService.ListSubmissions(ctx, *limitFlag)
	if err != nil {
		logger.Fatal("Failed to list submissions", zap.Error(err))
	}

	appcommon.PrintHeader("SUBMISSION HISTORY", appcommon.DefaultWidth)

	if len(submissions) == 0 {
		fmt.Println("No submissions recorded yet.")
	}
	for i, sub := range submissions {
		printSubmission(sub, i == len(submissions)-1)
	}

	appcommon.PrintFooter(fmt.Sprintf("SUMMARY: %d submissions", len(submissions)), appcommon.DefaultWidth)
}
