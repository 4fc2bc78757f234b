package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/nomitake/timeclock-backend-go/internal/domain/punch"
	"github.com/nomitake/timeclock-backend-go/internal/pkg/database"
)

type punchRepository struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) punch.Repository {
	return &punchRepository{db: db}
}

const punchColumns = `id, staff_id, store_id, type, ts, companion, proof_photo_url,
	   approved_at, approved_by, created_at, updated_at`

func scanPunch(row pgx.Row) (punch.Event, error) {
	var ev punch.Event
	err := row.Scan(
		&ev.ID, &ev.StaffID, &ev.StoreID, &ev.Type, &ev.Timestamp, &ev.Companion, &ev.ProofPhotoURL,
		&ev.ApprovedAt, &ev.ApprovedBy, &ev.CreatedAt, &ev.UpdatedAt,
	)
	return ev, err
}

// Create implements punch.Repository.
func (r *punchRepository) Create(ctx context.Context, event punch.Event) (punch.Event, error) {
	q := r.db.Querier(ctx)

	query := `
		INSERT INTO punch_events (
			staff_id, store_id, type, ts, companion, proof_photo_url, approved_at, approved_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		event.StaffID,
		event.StoreID,
		event.Type,
		event.Timestamp,
		event.Companion,
		event.ProofPhotoURL,
		event.ApprovedAt,
		event.ApprovedBy,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)

	if err != nil {
		return punch.Event{}, fmt.Errorf("failed to create punch event: %w", err)
	}

	return event, nil
}

// GetByID implements punch.Repository.
func (r *punchRepository) GetByID(ctx context.Context, id string, storeID string) (punch.Event, error) {
	q := r.db.Querier(ctx)

	query := `
		SELECT ` + punchColumns + `
		FROM punch_events
		WHERE id = $1 AND store_id = $2
	`

	ev, err := scanPunch(q.QueryRow(ctx, query, id, storeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return punch.Event{}, punch.ErrPunchNotFound
		}
		return punch.Event{}, fmt.Errorf("failed to get punch event by ID: %w", err)
	}

	return ev, nil
}

// Update implements punch.Repository.
func (r *punchRepository) Update(ctx context.Context, event punch.Event) error {
	q := r.db.Querier(ctx)

	query := `
		UPDATE punch_events
		SET type = $1,
			ts = $2,
			companion = $3,
			proof_photo_url = $4,
			approved_at = $5,
			approved_by = $6,
			updated_at = NOW()
		WHERE id = $7 AND store_id = $8
	`

	tag, err := q.Exec(ctx, query,
		event.Type,
		event.Timestamp,
		event.Companion,
		event.ProofPhotoURL,
		event.ApprovedAt,
		event.ApprovedBy,
		event.ID,
		event.StoreID,
	)
	if err != nil {
		return fmt.Errorf("failed to update punch event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return punch.ErrPunchNotFound
	}

	return nil
}

// Delete implements punch.Repository.
func (r *punchRepository) Delete(ctx context.Context, id string, storeID string) error {
	q := r.db.Querier(ctx)

	tag, err := q.Exec(ctx, `DELETE FROM punch_events WHERE id = $1 AND store_id = $2`, id, storeID)
	if err != nil {
		return fmt.Errorf("failed to delete punch event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return punch.ErrPunchNotFound
	}

	return nil
}

// Latest implements punch.Repository.
func (r *punchRepository) Latest(ctx context.Context, staffID string, storeID string) (*punch.Event, error) {
	q := r.db.Querier(ctx)

	query := `
		SELECT ` + punchColumns + `
		FROM punch_events
		WHERE staff_id = $1 AND store_id = $2
		ORDER BY ts DESC, created_at DESC
		LIMIT 1
	`

	ev, err := scanPunch(q.QueryRow(ctx, query, staffID, storeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // staff member has never punched
		}
		return nil, fmt.Errorf("failed to get latest punch: %w", err)
	}

	return &ev, nil
}

// LockStaff implements punch.Repository. The advisory lock is scoped to
// the current transaction and released on commit or rollback, so two
// concurrent punches for the same staff member serialize instead of both
// reading the same latest event.
func (r *punchRepository) LockStaff(ctx context.Context, staffID string, storeID string) error {
	q := r.db.Querier(ctx)

	_, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1), hashtext($2))`, staffID, storeID)
	if err != nil {
		return fmt.Errorf("failed to acquire staff lock: %w", err)
	}

	return nil
}

// ListRange implements punch.Repository.
func (r *punchRepository) ListRange(ctx context.Context, storeID string, staffID *string, from, to time.Time) ([]punch.Event, error) {
	q := r.db.Querier(ctx)

	query := `
		SELECT ` + punchColumns + `
		FROM punch_events
		WHERE store_id = $1
		  AND ts >= $2
		  AND ts < $3
	`
	args := []interface{}{storeID, from, to}

	if staffID != nil && *staffID != "" {
		query += ` AND staff_id = $4`
		args = append(args, *staffID)
	}
	query += ` ORDER BY ts ASC, created_at ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list punch events: %w", err)
	}
	defer rows.Close()

	var events []punch.Event
	for rows.Next() {
		ev, scanErr := scanPunch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan punch event: %w", scanErr)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate punch events: %w", err)
	}

	return events, nil
}

// SetApprovalRange implements punch.Repository.
func (r *punchRepository) SetApprovalRange(ctx context.Context, storeID string, from, to time.Time, approvedAt *time.Time, approvedBy *string) (int64, error) {
	q := r.db.Querier(ctx)

	query := `
		UPDATE punch_events
		SET approved_at = $1,
			approved_by = $2,
			updated_at = NOW()
		WHERE store_id = $3
		  AND ts >= $4
		  AND ts < $5
	`

	tag, err := q.Exec(ctx, query, approvedAt, approvedBy, storeID, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to set approval on punch range: %w", err)
	}

	return tag.RowsAffected(), nil
}

// LatestPerStaff implements punch.Repository.
func (r *punchRepository) LatestPerStaff(ctx context.Context, storeID string) ([]punch.Event, error) {
	q := r.db.Querier(ctx)

	query := `
		SELECT DISTINCT ON (staff_id) ` + punchColumns + `
		FROM punch_events
		WHERE store_id = $1
		ORDER BY staff_id, ts DESC, created_at DESC
	`

	rows, err := q.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest punches per staff: %w", err)
	}
	defer rows.Close()

	var events []punch.Event
	for rows.Next() {
		ev, scanErr := scanPunch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan punch event: %w", scanErr)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate punch events: %w", err)
	}

	return events, nil
}

// Stores implements punch.Repository.
func (r *punchRepository) Stores(ctx context.Context) ([]string, error) {
	q := r.db.Querier(ctx)

	rows, err := q.Query(ctx, `SELECT DISTINCT store_id FROM punch_events`)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	defer rows.Close()

	var storeIDs []string
	for rows.Next() {
		var storeID string
		if scanErr := rows.Scan(&storeID); scanErr != nil {
			return nil, fmt.Errorf("failed to scan store ID: %w", scanErr)
		}
		storeIDs = append(storeIDs, storeID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stores: %w", err)
	}

	return storeIDs, nil
}
