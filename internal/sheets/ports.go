// Package sheets defines the ports the sync worker uses to mirror
// transactions into a spreadsheet.
package sheets

import (
	"context"

	"fintrack/internal/core"
)

type (
	// TransactionAppender writes or rewrites a transaction row and returns
	// a reference to it.
	TransactionAppender interface {
		AppendTransaction(ctx context.Context, tx core.Transaction) (rowRef string, err error)
	}

	// TransactionRemover removes the row holding the given transaction ID.
	// Removing an ID that was never appended is not an error.
	TransactionRemover interface {
		RemoveTransaction(ctx context.Context, id string) error
	}
)
