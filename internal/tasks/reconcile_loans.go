package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/PotatoCodder/library-management-backend/internal/database/loans"
)

// DriftFinder compares book borrow flags against borrowed lists.
type DriftFinder interface {
	FindDrift(ctx context.Context) (*loans.Drift, error)
}

// ReconcileLoansTask reports books and borrowed-list entries that disagree.
// It only reports; nothing is repaired.
type ReconcileLoansTask struct{}

// Config returns the queue configuration for loan reconciliation tasks.
func (t ReconcileLoansTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "reconcile_loans",
		MaxAttempts: 1,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
		},
	}
}

// ReconcileLoansProcessor creates a processor function for ReconcileLoansTask.
// reporter may be nil.
func ReconcileLoansProcessor(finder DriftFinder, reporter MaintenanceReporter) backlite.QueueProcessor[ReconcileLoansTask] {
	return func(ctx context.Context, task ReconcileLoansTask) error {
		if finder == nil {
			return fmt.Errorf("drift finder not configured")
		}

		drift, err := finder.FindDrift(ctx)
		if err != nil {
			if reporter != nil {
				reporter.LogMaintenance("loan_reconcile", "Loan reconciliation failed", nil, err)
			}
			return fmt.Errorf("reconcile loans: %w", err)
		}

		for _, book := range drift.UntrackedBooks {
			log.Printf("[TASK] Book %d %q is flagged borrowed but is in no borrowed list", book.ID, book.Title)
		}
		for _, loan := range drift.DanglingLoans {
			log.Printf("[TASK] Borrowed list entry %d %q for user %d matches no borrowed book", loan.ID, loan.Title, loan.UserID)
		}

		description := "Books and borrowed lists agree"
		if !drift.Empty() {
			description = fmt.Sprintf("Found %d untracked books and %d dangling list entries",
				len(drift.UntrackedBooks), len(drift.DanglingLoans))
		}
		log.Printf("[TASK] %s", description)

		if reporter != nil {
			reporter.LogMaintenance("loan_reconcile", description, map[string]any{
				"untracked_books": len(drift.UntrackedBooks),
				"dangling_loans":  len(drift.DanglingLoans),
			}, nil)
		}
		return nil
	}
}

// NewReconcileLoansQueue creates a backlite queue for loan reconciliation tasks.
func NewReconcileLoansQueue(finder DriftFinder, reporter MaintenanceReporter) backlite.Queue {
	return backlite.NewQueue(ReconcileLoansProcessor(finder, reporter))
}
