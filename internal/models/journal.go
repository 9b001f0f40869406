package models

import "time"

// Submission is an immutable-ish diagnostics record of one user-initiated
// transaction sequence (approve/deposit or redeem). Rows are appended when
// a sequence starts and updated as it advances through its steps.
type Submission struct {
	Id        string    `db:"id"`
	Kind      string    `db:"kind"`
	Step      string    `db:"step"`
	Status    string    `db:"status"`
	Amount    string    `db:"amount"`
	TxHash    string    `db:"tx_hash"`
	Error     string    `db:"error"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
