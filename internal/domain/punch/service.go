package punch

import (
	"context"
)

// Service defines business logic for punch ingestion and the live log.
type Service interface {
	// Punch validates and records one clock action for the authenticated
	// staff member. A clock-out taken while on break also persists the
	// implicit break-end, atomically.
	Punch(ctx context.Context, req PunchRequest) (PunchResult, error)

	// Status reports the caller's derived presence state.
	Status(ctx context.Context) (StatusResponse, error)

	// List returns the punches of a business day or label range
	// (manager view).
	List(ctx context.Context, filter ListFilter) (ListResponse, error)

	// Update applies an administrative correction. Punches inside an
	// approved business day are locked.
	Update(ctx context.Context, req UpdateRequest) (EventResponse, error)

	// Delete removes a punch (administrative action). Locked days reject.
	// The punch's proof photo is removed with it.
	Delete(ctx context.Context, id string) error

	// ProofPhoto resolves a punch's proof-of-presence photo to a
	// retrievable URL (manager view).
	ProofPhoto(ctx context.Context, id string) (string, error)
}
