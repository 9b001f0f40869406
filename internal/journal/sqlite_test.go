package journal

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestService(t *testing.T) *Service {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	service := NewServiceWithDB(db)
	if err := service.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}
	return service
}

func TestRecordAndGetSubmission(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	params := RecordParams{
		Id:     "sub-1",
		Kind:   KindDeposit,
		Step:   "IDLE",
		Amount: "100000000",
	}
	if err := service.RecordSubmission(ctx, params); err != nil {
		t.Fatalf("RecordSubmission failed: %v", err)
	}

	sub, err := service.GetSubmission(ctx, "sub-1")
	if err != nil {
		t.Fatalf("GetSubmission failed: %v", err)
	}
	if sub.Kind != KindDeposit {
		t.Errorf("unexpected kind: %s", sub.Kind)
	}
	if sub.Status != StatusPending {
		t.Errorf("new submissions start pending, got %s", sub.Status)
	}
	if sub.Amount != "100000000" {
		t.Errorf("unexpected amount: %s", sub.Amount)
	}
	if sub.TxHash != "" || sub.Error != "" {
		t.Errorf("new submissions carry no hash or error, got %q/%q", sub.TxHash, sub.Error)
	}
}

func TestRecordDuplicateSubmission(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	params := RecordParams{Id: "sub-1", Kind: KindDeposit, Step: "IDLE", Amount: "1"}
	if err := service.RecordSubmission(ctx, params); err != nil {
		t.Fatalf("first record failed: %v", err)
	}
	if err := service.RecordSubmission(ctx, params); !errors.Is(err, ErrDuplicateSubmission) {
		t.Errorf("expected ErrDuplicateSubmission, got %v", err)
	}
}

func TestUpdateSubmission(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	if err := service.RecordSubmission(ctx, RecordParams{
		Id: "sub-1", Kind: KindRedeem, Step: "IDLE", Amount: "50",
	}); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	err := service.UpdateSubmission(ctx, UpdateParams{
		Id:     "sub-1",
		Step:   "AWAITING_REDEEM",
		TxHash: "0xeeee",
	})
	if err != nil {
		t.Fatalf("UpdateSubmission failed: %v", err)
	}

	sub, err := service.GetSubmission(ctx, "sub-1")
	if err != nil {
		t.Fatalf("GetSubmission failed: %v", err)
	}
	if sub.Step != "AWAITING_REDEEM" {
		t.Errorf("unexpected step: %s", sub.Step)
	}
	if sub.TxHash != "0xeeee" {
		t.Errorf("unexpected tx hash: %s", sub.TxHash)
	}
	if sub.Status != StatusPending {
		t.Errorf("untouched fields must survive partial updates, got status %s", sub.Status)
	}

	err = service.UpdateSubmission(ctx, UpdateParams{Id: "sub-1", Status: StatusSettled})
	if err != nil {
		t.Fatalf("status update failed: %v", err)
	}
	sub, _ = service.GetSubmission(ctx, "sub-1")
	if sub.Status != StatusSettled {
		t.Errorf("unexpected status: %s", sub.Status)
	}
}

func TestUpdateUnknownSubmission(t *testing.T) {
	service := setupTestService(t)

	err := service.UpdateSubmission(context.Background(), UpdateParams{Id: "missing", Status: StatusFailed})
	if !errors.Is(err, ErrSubmissionNotFound) {
		t.Errorf("expected ErrSubmissionNotFound, got %v", err)
	}
}

func TestGetUnknownSubmission(t *testing.T) {
	service := setupTestService(t)

	_, err := service.GetSubmission(context.Background(), "missing")
	if !errors.Is(err, ErrSubmissionNotFound) {
		t.Errorf("expected ErrSubmissionNotFound, got %v", err)
	}
}

func TestListSubmissions(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	ids := []string{"sub-1", "sub-2", "sub-3"}
	for _, id := range ids {
		if err := service.RecordSubmission(ctx, RecordParams{
			Id: id, Kind: KindApprove, Step: "IDLE", Amount: "1",
		}); err != nil {
			t.Fatalf("record %s failed: %v", id, err)
		}
	}

	subs, err := service.ListSubmissions(ctx, 10)
	if err != nil {
		t.Fatalf("ListSubmissions failed: %v", err)
	}
	if len(subs) != 3 {
		t.Fatalf("expected 3 submissions, got %d", len(subs))
	}

	limited, err := service.ListSubmissions(ctx, 2)
	if err != nil {
		t.Fatalf("limited list failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 submissions with limit, got %d", len(limited))
	}
}

func TestListSubmissionsEmpty(t *testing.T) {
	service := setupTestService(t)

	subs, err := service.ListSubmissions(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListSubmissions failed: %v", err)
	}
	if len(subs) != 0 {
		t.Errorf("expected empty list, got %d", len(subs))
	}
}
