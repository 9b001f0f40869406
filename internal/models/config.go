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

package models

import "time"

// Config is the top-level application configuration
type Config struct {
	Chain    ChainConfig
	Snapshot SnapshotConfig
	Journal  JournalConfig
}

// ChainConfig holds settings for the RPC connection to the vault's network
type ChainConfig struct {
	RPCURL         string
	ChainID        int64
	VaultAddress   string
	VaultsFile     string
	RequestTimeout time.Duration
	ReceiptPoll    time.Duration
	ReceiptTimeout time.Duration
}

// SnapshotConfig holds vault snapshot refresh settings
type SnapshotConfig struct {
	PollInterval    time.Duration
	TTL             time.Duration
	CleanupInterval time.Duration
}

// JournalConfig holds settings for the local submission journal database
type JournalConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}
