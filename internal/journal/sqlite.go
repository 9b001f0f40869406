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

package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/Frith-Labs/frith-vaults-dapp/internal/models"
)

// Compile-time check: *Service must satisfy Store.
var _ Store = (*Service)(nil)

// Service is the SQLite-backed journal.
type Service struct {
	db *sql.DB
}

func NewService(ctx context.Context, cfg models.JournalConfig) (*Service, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("journal path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening submission journal", zap.String("file", cfg.Path))
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000")
	if err != nil {
		return nil, fmt.Errorf("unable to open journal database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping journal database: %w", err)
	}

	service := &Service{db: db}
	if err := service.InitSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to initialize journal schema: %w", err)
	}

	return service, nil
}

// NewServiceWithDB wraps an existing connection, used by tests.
func NewServiceWithDB(db *sql.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close journal database", zap.Error(err))
	}
}

func (s *Service) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		step TEXT NOT NULL,
		status TEXT NOT NULL,
		amount TEXT NOT NULL,
		tx_hash TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_submissions_created_at ON submissions(created_at);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("unable to create submissions table: %w", err)
	}
	return nil
}

func (s *Service) RecordSubmission(ctx context.Context, params RecordParams) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (id, kind, step, status, amount) VALUES (?, ?, ?, ?, ?)`,
		params.Id, params.Kind, params.Step, StatusPending, params.Amount)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicateSubmission
		}
		return fmt.Errorf("unable to record submission: %w", err)
	}
	return nil
}

func (s *Service) UpdateSubmission(ctx context.Context, params UpdateParams) error {
	setClauses := []string{"updated_at = ?"}
	args := []interface{}{time.Now().UTC()}

	if params.Step != "" {
		setClauses = append(setClauses, "step = ?")
		args = append(args, params.Step)
	}
	if params.Status != "" {
		setClauses = append(setClauses, "status = ?")
		args = append(args, params.Status)
	}
	if params.TxHash != "" {
		setClauses = append(setClauses, "tx_hash = ?")
		args = append(args, params.TxHash)
	}
	if params.Error != "" {
		setClauses = append(setClauses, "error = ?")
		args = append(args, params.Error)
	}
	args = append(args, params.Id)

	query := "UPDATE submissions SET " + strings.Join(setClauses, ", ") + " WHERE id = ?"
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("unable to update submission: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to check update result: %w", err)
	}
	if affected == 0 {
		return ErrSubmissionNotFound
	}
	return nil
}

func (s *Service) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, step, status, amount, tx_hash, error, created_at, updated_at
		 FROM submissions WHERE id = ?`, id)

	var sub models.Submission
	err := row.Scan(&sub.Id, &sub.Kind, &sub.Step, &sub.Status, &sub.Amount,
		&sub.TxHash, &sub.Error, &sub.CreatedAt, &sub.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load submission: %w", err)
	}
	return &sub, nil
}

func (s *Service) ListSubmissions(ctx context.Context, limit int) ([]models.Submission, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, step, status, amount, tx_hash, error, created_at, updated_at
		 FROM submissions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("unable to list submissions: %w", err)
	}
	defer rows.Close()

	var submissions []models.Submission
	for rows.Next() {
		var sub models.Submission
		if err := rows.Scan(&sub.Id, &sub.Kind, &sub.Step, &sub.Status, &sub.Amount,
			&sub.TxHash, &sub.Error, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
			return nil, fmt.Errorf("unable to scan submission: %w", err)
		}
		submissions = append(submissions, sub)
	}
	return submissions, rows.Err()
}
