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

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Frith-Labs/frith-vaults-dapp/internal/models"
)

// Hoodi is the designated test network for Frith vault deployments.
const defaultChainID = 560048

func Load() (*models.Config, error) {
	requestTimeout, err := getEnvDuration("VAULT_REQUEST_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	receiptPoll, err := getEnvDuration("VAULT_RECEIPT_POLL", 2*time.Second)
	if err != nil {
		return nil, err
	}

	receiptTimeout, err := getEnvDuration("VAULT_RECEIPT_TIMEOUT", 3*time.Minute)
	if err != nil {
		return nil, err
	}

	pollInterval, err := getEnvDuration("SNAPSHOT_POLL_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, err
	}

	ttl, err := getEnvDuration("SNAPSHOT_TTL", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cleanupInterval, err := getEnvDuration("SNAPSHOT_CLEANUP_INTERVAL", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxLifetime, err := getEnvDuration("JOURNAL_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("JOURNAL_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("JOURNAL_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	return &models.Config{
		Chain: models.ChainConfig{
			RPCURL:         getEnvString("VAULT_RPC_URL", ""),
			ChainID:        int64(getEnvInt("VAULT_CHAIN_ID", defaultChainID)),
			VaultAddress:   getEnvString("VAULT_ADDRESS", ""),
			VaultsFile:     getEnvString("VAULTS_FILE", "vaults.yaml"),
			RequestTimeout: requestTimeout,
			ReceiptPoll:    receiptPoll,
			ReceiptTimeout: receiptTimeout,
		},
		Snapshot: models.SnapshotConfig{
			PollInterval:    pollInterval,
			TTL:             ttl,
			CleanupInterval: cleanupInterval,
		},
		Journal: models.JournalConfig{
			Path:            getEnvString("JOURNAL_PATH", "submissions.db"),
			MaxOpenConns:    getEnvInt("JOURNAL_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("JOURNAL_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
		},
	}, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
