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

package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/Frith-Labs/frith-vaults-dapp/internal/amount"
	"github.com/Frith-Labs/frith-vaults-dapp/internal/models"
	"github.com/Frith-Labs/frith-vaults-dapp/internal/vault"
)

// VaultSnapshot is one refresh cycle's view of the vault. Nil fields mean
// "not loaded": peripheral figures render as placeholders, while missing
// policy limits keep actions disabled (unknown fails safe).
type VaultSnapshot struct {
	Limits    *models.PolicyLimits
	Totals    models.VaultTotals
	Account   *models.AccountState
	FetchedAt time.Time
}

// WatcherConfig contains configuration for Watcher.
type WatcherConfig struct {
	Client          *vault.Client
	Account         *common.Address // nil when no wallet is connected
	PollInterval    time.Duration
	TTL             time.Duration
	CleanupInterval time.Duration
	OnUpdate        func(*VaultSnapshot)
}

// Watcher periodically re-reads the vault and hands fresh snapshots to
// its subscriber. It is the only writer of snapshot state; everything
// else just reads what it publishes.
type Watcher struct {
	client          *vault.Client
	account         *common.Address
	cache           *Cache
	pollInterval    time.Duration
	cleanupInterval time.Duration
	onUpdate        func(*VaultSnapshot)

	mu     sync.RWMutex
	latest *VaultSnapshot

	stopChan chan struct{}
	doneChan chan struct{}
}

func NewWatcher(cfg WatcherConfig) *Watcher {
	return &Watcher{
		client:          cfg.Client,
		account:         cfg.Account,
		cache:           NewCache(cfg.TTL),
		pollInterval:    cfg.PollInterval,
		cleanupInterval: cfg.CleanupInterval,
		onUpdate:        cfg.OnUpdate,
		stopChan:        make(chan struct{}),
		doneChan:        make(chan struct{}),
	}
}

// Start begins polling. The first refresh runs immediately.
func (w *Watcher) Start(ctx context.Context) {
	zap.L().Info("Starting vault watcher",
		zap.Duration("poll_interval", w.pollInterval))
	go w.pollLoop(ctx)
}

// Stop gracefully stops the watcher.
func (w *Watcher) Stop() {
	close(w.stopChan)
	<-w.doneChan
	zap.L().Info("Vault watcher stopped")
}

// Latest returns the most recent snapshot, nil before the first refresh.
func (w *Watcher) Latest() *VaultSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.latest
}

// InvalidateAll forces every field to refetch on the next cycle, used
// after a confirmed transaction moves balances and limits.
func (w *Watcher) InvalidateAll() {
	w.cache.InvalidateAll()
}

func (w *Watcher) pollLoop(ctx context.Context) {
	defer close(w.doneChan)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	cleanupInterval := w.cleanupInterval
	if cleanupInterval <= 0 {
		cleanupInterval = 15 * time.Minute
	}
	cleanup := time.NewTicker(cleanupInterval)
	defer cleanup.Stop()

	w.refresh(ctx)

	for {
		select {
		case <-ticker.C:
			w.refresh(ctx)
		case <-cleanup.C:
			// Expired entries are only replaced on read; drop everything
			// periodically so one-off argument keys don't accumulate.
			w.cache.InvalidateAll()
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) refresh(ctx context.Context) {
	snap := w.Refresh(ctx)
	w.mu.Lock()
	w.latest = snap
	w.mu.Unlock()
	if w.onUpdate != nil {
		w.onUpdate(snap)
	}
}

// Refresh reads every snapshot field, issuing independent reads
// concurrently. A failed read leaves its field nil and is logged; one
// failing field never takes the rest of the snapshot down with it.
func (w *Watcher) Refresh(ctx context.Context) *VaultSnapshot {
	snap := &VaultSnapshot{FetchedAt: time.Now()}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		value, err := w.cache.Get(ctx, "policyLimits", "", func(ctx context.Context) (interface{}, error) {
			return w.client.PolicyLimits(ctx)
		})
		if err != nil {
			zap.L().Warn("Failed to refresh policy limits", zap.Error(err))
			return
		}
		snap.Limits = value.(*models.PolicyLimits)
	}()

	totalFields := []struct {
		op     string
		fetch  func(context.Context) (amount.Scaled, error)
		target **amount.Scaled
	}{
		{"totalAssets", w.client.TotalAssets, &snap.Totals.TotalAssets},
		{"totalSupply", w.client.TotalSupply, &snap.Totals.TotalSupply},
		{"offchainAssets", w.client.OffchainAssets, &snap.Totals.OffchainAssets},
	}
	for _, field := range totalFields {
		wg.Add(1)
		go func(op string, fetch func(context.Context) (amount.Scaled, error), target **amount.Scaled) {
			defer wg.Done()
			value, err := w.cache.Get(ctx, op, "", func(ctx context.Context) (interface{}, error) {
				return fetch(ctx)
			})
			if err != nil {
				zap.L().Warn("Failed to refresh vault total", zap.String("op", op), zap.Error(err))
				return
			}
			scaled := value.(amount.Scaled)
			*target = &scaled
		}(field.op, field.fetch, field.target)
	}

	if w.account != nil {
		account := *w.account
		state := &models.AccountState{}
		snap.Account = state

		accountAmounts := []struct {
			op     string
			fetch  func(context.Context, common.Address) (amount.Scaled, error)
			target **amount.Scaled
		}{
			{"assetBalance", w.client.AssetBalance, &state.AssetBalance},
			{"maxRedeem", w.client.MaxRedeem, &state.MaxRedeem},
			{"allowance", w.client.Allowance, &state.Allowance},
		}
		for _, field := range accountAmounts {
			wg.Add(1)
			go func(op string, fetch func(context.Context, common.Address) (amount.Scaled, error), target **amount.Scaled) {
				defer wg.Done()
				value, err := w.cache.Get(ctx, op, account.Hex(), func(ctx context.Context) (interface{}, error) {
					return fetch(ctx, account)
				})
				if err != nil {
					zap.L().Warn("Failed to refresh account field", zap.String("op", op), zap.Error(err))
					return
				}
				scaled := value.(amount.Scaled)
				*target = &scaled
			}(field.op, field.fetch, field.target)
		}

		accountTimes := []struct {
			op     string
			fetch  func(context.Context, common.Address) (*time.Time, error)
			target **time.Time
		}{
			{"lastDepositAt", w.client.LastDepositAt, &state.LastDepositAt},
			{"lastWithdrawAt", w.client.LastWithdrawAt, &state.LastWithdrawAt},
		}
		for _, field := range accountTimes {
			wg.Add(1)
			go func(op string, fetch func(context.Context, common.Address) (*time.Time, error), target **time.Time) {
				defer wg.Done()
				value, err := w.cache.Get(ctx, op, account.Hex(), func(ctx context.Context) (interface{}, error) {
					return fetch(ctx, account)
				})
				if err != nil {
					zap.L().Warn("Failed to refresh account field", zap.String("op", op), zap.Error(err))
					return
				}
				*target = value.(*time.Time)
			}(field.op, field.fetch, field.target)
		}
	}

	wg.Wait()
	return snap
}

// CooldownRemaining derives how long an account must still wait before
// its next action, given its last action timestamp and a cooldown in
// seconds. Enforcement stays on-chain; this only feeds inline guidance.
func CooldownRemaining(last *time.Time, cooldownSeconds uint64, now time.Time) time.Duration {
	if last == nil || cooldownSeconds == 0 {
		return 0
	}
	until := last.Add(time.Duration(cooldownSeconds) * time.Second)
	if remaining := until.Sub(now); remaining > 0 {
		return remaining
	}
	return 0
}
