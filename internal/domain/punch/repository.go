package punch

import (
	"context"
	"time"
)

// TxRunner executes fn inside one atomic storage transaction. Repository
// calls made with the context passed to fn join that transaction; if fn
// returns an error every write inside it is rolled back.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repository is the persisted attendance log, keyed by store and staff
// with range queries over timestamp. All methods include storeID to keep
// one venue's punches isolated from another's.
type Repository interface {
	// Create appends one punch event and returns it with its identity
	// and audit columns filled in.
	Create(ctx context.Context, event Event) (Event, error)

	// GetByID retrieves one punch event.
	GetByID(ctx context.Context, id string, storeID string) (Event, error)

	// Update rewrites a punch event's mutable columns (administrative
	// corrections and approval tagging).
	Update(ctx context.Context, event Event) error

	// Delete removes a punch event (administrative action only).
	Delete(ctx context.Context, id string, storeID string) error

	// Latest returns the most recent punch for a staff member, or nil
	// when they have never punched.
	Latest(ctx context.Context, staffID string, storeID string) (*Event, error)

	// LockStaff serializes concurrent punch writes for one staff member.
	// Must be called inside a transaction; the lock is released on
	// commit or rollback.
	LockStaff(ctx context.Context, staffID string, storeID string) error

	// ListRange returns punches in [from, to) for a store, ascending by
	// timestamp, optionally restricted to one staff member.
	ListRange(ctx context.Context, storeID string, staffID *string, from, to time.Time) ([]Event, error)

	// SetApprovalRange bulk-tags every punch in [from, to) for a store
	// with the given approval marks (nil clears them). Returns the number
	// of rows touched.
	SetApprovalRange(ctx context.Context, storeID string, from, to time.Time, approvedAt *time.Time, approvedBy *string) (int64, error)

	// LatestPerStaff returns each staff member's most recent punch for a
	// store. Used to find shifts left open past closing.
	LatestPerStaff(ctx context.Context, storeID string) ([]Event, error)

	// Stores returns the distinct store IDs present in the log.
	Stores(ctx context.Context) ([]string, error)
}
