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

// Package submit sequences user transactions against the vault. Deposits
// are a two-step flow: the vault can only pull assets it has an allowance
// for, so an approval may have to confirm on-chain before the deposit is
// sent. Nothing here ever retries on its own; a failed sequence is
// surfaced and the user re-initiates. Because the allowance is re-checked
// at the start of every attempt, re-running after a partial failure
// naturally skips an approval step that already succeeded.
package submit

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Frith-Labs/frith-vaults-dapp/internal/amount"
	"github.com/Frith-Labs/frith-vaults-dapp/internal/journal"
)

// Step identifies where a submission sequence currently stands.
type Step string

const (
	StepIdle             Step = "IDLE"
	StepAwaitingApproval Step = "AWAITING_APPROVAL"
	StepAwaitingDeposit  Step = "AWAITING_DEPOSIT"
	StepAwaitingRedeem   Step = "AWAITING_REDEEM"
	StepSettled          Step = "SETTLED"
	StepFailed           Step = "FAILED"
)

// VaultWriter is the slice of the vault client the sequencer drives.
type VaultWriter interface {
	Allowance(ctx context.Context, owner common.Address) (amount.Scaled, error)
	Approve(ctx context.Context, value amount.Scaled) (common.Hash, error)
	Deposit(ctx context.Context, assets amount.Scaled, receiver common.Address) (common.Hash, error)
	Redeem(ctx context.Context, shares amount.Scaled, receiver, owner common.Address) (common.Hash, error)
	WaitMined(ctx context.Context, txHash common.Hash) error
}

// Outcome reports how a sequence went. Steps lists every state the
// sequence passed through, in order, ending in Settled or Failed.
type Outcome struct {
	SubmissionId string
	Steps        []Step
	TxHashes     []common.Hash
	Err          error
}

func (o *Outcome) Settled() bool {
	return len(o.Steps) > 0 && o.Steps[len(o.Steps)-1] == StepSettled
}

// Sequencer runs submission sequences for one signing account.
type Sequencer struct {
	writer  VaultWriter
	journal journal.Store
	owner   common.Address
}

func NewSequencer(writer VaultWriter, store journal.Store, owner common.Address) *Sequencer {
	return &Sequencer{writer: writer, journal: store, owner: owner}
}

func (s *Sequencer) enter(ctx context.Context, outcome *Outcome, step Step) {
	outcome.Steps = append(outcome.Steps, step)
	s.journalUpdate(ctx, journal.UpdateParams{Id: outcome.SubmissionId, Step: string(step)})
}

func (s *Sequencer) fail(ctx context.Context, outcome *Outcome, err error) *Outcome {
	outcome.Steps = append(outcome.Steps, StepFailed)
	outcome.Err = err
	s.journalUpdate(ctx, journal.UpdateParams{
		Id:     outcome.SubmissionId,
		Step:   string(StepFailed),
		Status: journal.StatusFailed,
		Error:  err.Error(),
	})
	zap.L().Error("Submission failed",
		zap.String("submission_id", outcome.SubmissionId),
		zap.Error(err))
	return outcome
}

func (s *Sequencer) settle(ctx context.Context, outcome *Outcome) *Outcome {
	outcome.Steps = append(outcome.Steps, StepSettled)
	s.journalUpdate(ctx, journal.UpdateParams{
		Id:     outcome.SubmissionId,
		Step:   string(StepSettled),
		Status: journal.StatusSettled,
	})
	return outcome
}

// The journal is diagnostics only; a journal write failure must never
// fail or block the sequence itself.
func (s *Sequencer) journalRecord(ctx context.Context, params journal.RecordParams) {
	if s.journal == nil {
		return
	}
	if err := s.journal.RecordSubmission(ctx, params); err != nil {
		zap.L().Warn("Failed to journal submission", zap.String("submission_id", params.Id), zap.Error(err))
	}
}

func (s *Sequencer) journalUpdate(ctx context.Context, params journal.UpdateParams) {
	if s.journal == nil {
		return
	}
	if err := s.journal.UpdateSubmission(ctx, params); err != nil {
		zap.L().Warn("Failed to journal submission update", zap.String("submission_id", params.Id), zap.Error(err))
	}
}

// RunDeposit executes the deposit sequence for the given asset amount.
// The approval step runs only when the current allowance cannot cover the
// request, and the deposit is never broadcast before the approval's
// acceptance is observed on-chain.
func (s *Sequencer) RunDeposit(ctx context.Context, assets amount.Scaled, receiver common.Address) *Outcome {
	outcome := &Outcome{SubmissionId: uuid.NewString(), Steps: []Step{StepIdle}}
	s.journalRecord(ctx, journal.RecordParams{
		Id:     outcome.SubmissionId,
		Kind:   journal.KindDeposit,
		Step:   string(StepIdle),
		Amount: assets.String(),
	})

	allowance, err := s.writer.Allowance(ctx, s.owner)
	if err != nil {
		return s.fail(ctx, outcome, fmt.Errorf("unable to check allowance: %w", err))
	}

	covered, err := allowance.Cmp(assets)
	if err != nil {
		return s.fail(ctx, outcome, fmt.Errorf("unable to compare allowance: %w", err))
	}

	if covered < 0 {
		s.enter(ctx, outcome, StepAwaitingApproval)

		txHash, err := s.writer.Approve(ctx, assets)
		if err != nil {
			return s.fail(ctx, outcome, fmt.Errorf("approval rejected: %w", err))
		}
		outcome.TxHashes = append(outcome.TxHashes, txHash)
		s.journalUpdate(ctx, journal.UpdateParams{Id: outcome.SubmissionId, TxHash: txHash.Hex()})

		if err := s.writer.WaitMined(ctx, txHash); err != nil {
			return s.fail(ctx, outcome, fmt.Errorf("approval not accepted: %w", err))
		}

		zap.L().Info("Allowance approved",
			zap.String("submission_id", outcome.SubmissionId),
			zap.String("tx_hash", txHash.Hex()))
	}

	s.enter(ctx, outcome, StepAwaitingDeposit)

	txHash, err := s.writer.Deposit(ctx, assets, receiver)
	if err != nil {
		return s.fail(ctx, outcome, fmt.Errorf("deposit rejected: %w", err))
	}
	outcome.TxHashes = append(outcome.TxHashes, txHash)
	s.journalUpdate(ctx, journal.UpdateParams{Id: outcome.SubmissionId, TxHash: txHash.Hex()})

	if err := s.writer.WaitMined(ctx, txHash); err != nil {
		return s.fail(ctx, outcome, fmt.Errorf("deposit not accepted: %w", err))
	}

	zap.L().Info("Deposit settled",
		zap.String("submission_id", outcome.SubmissionId),
		zap.String("tx_hash", txHash.Hex()))

	return s.settle(ctx, outcome)
}

// RunRedeem executes the single-step redeem sequence.
func (s *Sequencer) RunRedeem(ctx context.Context, shares amount.Scaled, receiver common.Address) *Outcome {
	outcome := &Outcome{SubmissionId: uuid.NewString(), Steps: []Step{StepIdle}}
	s.journalRecord(ctx, journal.RecordParams{
		Id:     outcome.SubmissionId,
		Kind:   journal.KindRedeem,
		Step:   string(StepIdle),
		Amount: shares.String(),
	})

	s.enter(ctx, outcome, StepAwaitingRedeem)

	txHash, err := s.writer.Redeem(ctx, shares, receiver, s.owner)
	if err != nil {
		return s.fail(ctx, outcome, fmt.Errorf("redeem rejected: %w", err))
	}
	outcome.TxHashes = append(outcome.TxHashes, txHash)
	s.journalUpdate(ctx, journal.UpdateParams{Id: outcome.SubmissionId, TxHash: txHash.Hex()})

	if err := s.writer.WaitMined(ctx, txHash); err != nil {
		return s.fail(ctx, outcome, fmt.Errorf("redeem not accepted: %w", err))
	}

	zap.L().Info("Redeem settled",
		zap.String("submission_id", outcome.SubmissionId),
		zap.String("tx_hash", txHash.Hex()))

	return s.settle(ctx, outcome)
}

// RunApprove grants a standalone allowance outside the deposit sequence.
func (s *Sequencer) RunApprove(ctx context.Context, value amount.Scaled) *Outcome {
	outcome := &Outcome{SubmissionId: uuid.NewString(), Steps: []Step{StepIdle}}
	s.journalRecord(ctx, journal.RecordParams{
		Id:     outcome.SubmissionId,
		Kind:   journal.KindApprove,
		Step:   string(StepIdle),
		Amount: value.String(),
	})

	s.enter(ctx, outcome, StepAwaitingApproval)

	txHash, err := s.writer.Approve(ctx, value)
	if err != nil {
		return s.fail(ctx, outcome, fmt.Errorf("approval rejected: %w", err))
	}
	outcome.TxHashes = append(outcome.TxHashes, txHash)
	s.journalUpdate(ctx, journal.UpdateParams{Id: outcome.SubmissionId, TxHash: txHash.Hex()})

	if err := s.writer.WaitMined(ctx, txHash); err != nil {
		return s.fail(ctx, outcome, fmt.Errorf("approval not accepted: %w", err))
	}

	return s.settle(ctx, outcome)
}
