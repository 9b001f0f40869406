package journal

import (
	"context"
	"errors"

	"github.com/Frith-Labs/frith-vaults-dapp/internal/models"
)

// Sentinel errors shared across backend implementations.
var (
	ErrSubmissionNotFound  = errors.New("no submission found for id")
	ErrDuplicateSubmission = errors.New("duplicate submission id")
)

// Submission kinds.
const (
	KindDeposit = "DEPOSIT"
	KindRedeem  = "REDEEM"
	KindApprove = "APPROVE"
)

// Submission statuses.
const (
	StatusPending = "PENDING"
	StatusSettled = "SETTLED"
	StatusFailed  = "FAILED"
)

// RecordParams captures a new submission at the moment the user initiates
// it.
type RecordParams struct {
	Id     string
	Kind   string
	Step   string
	Amount string
}

// UpdateParams advances a recorded submission through its lifecycle.
// Empty fields are left unchanged.
type UpdateParams struct {
	Id     string
	Step   string
	Status string
	TxHash string
	Error  string
}

// Store is the diagnostics journal every backend must satisfy. Failed and
// settled sequences both stay on record; the journal is an audit trail,
// not working state.
type Store interface {
	RecordSubmission(ctx context.Context, params RecordParams) error
	UpdateSubmission(ctx context.Context, params UpdateParams) error
	GetSubmission(ctx context.Context, id string) (*models.Submission, error)
	ListSubmissions(ctx context.Context, limit int) ([]models.Submission, error)
	Close()
}
