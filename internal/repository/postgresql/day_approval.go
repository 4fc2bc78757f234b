package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/nomitake/timeclock-backend-go/internal/domain/approval"
	"github.com/nomitake/timeclock-backend-go/internal/pkg/database"
)

type dayApprovalRepository struct {
	db *database.DB
}

func NewDayApprovalRepository(db *database.DB) approval.Repository {
	return &dayApprovalRepository{db: db}
}

func scanDayApproval(row pgx.Row) (approval.DayApproval, error) {
	var record approval.DayApproval
	var businessDate time.Time
	err := row.Scan(
		&record.ID, &record.StoreID, &businessDate, &record.IsApproved,
		&record.ApprovedAt, &record.ApprovedBy, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return approval.DayApproval{}, err
	}
	record.BusinessDate = businessDate.Format("2006-01-02")
	return record, nil
}

// Upsert implements approval.Repository. The unique (store_id,
// business_date) constraint makes repeated approval actions converge on
// one row.
func (r *dayApprovalRepository) Upsert(ctx context.Context, record approval.DayApproval) (approval.DayApproval, error) {
	q := r.db.Querier(ctx)

	query := `
		INSERT INTO day_approvals (store_id, business_date, is_approved, approved_at, approved_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (store_id, business_date) DO UPDATE
		SET is_approved = EXCLUDED.is_approved,
			approved_at = EXCLUDED.approved_at,
			approved_by = EXCLUDED.approved_by,
			updated_at = NOW()
		RETURNING id, store_id, business_date, is_approved, approved_at, approved_by, created_at, updated_at
	`

	stored, err := scanDayApproval(q.QueryRow(ctx, query,
		record.StoreID,
		record.BusinessDate,
		record.IsApproved,
		record.ApprovedAt,
		record.ApprovedBy,
	))
	if err != nil {
		return approval.DayApproval{}, fmt.Errorf("failed to upsert day approval: %w", err)
	}

	return stored, nil
}

// Get implements approval.Repository.
func (r *dayApprovalRepository) Get(ctx context.Context, storeID string, businessDate string) (*approval.DayApproval, error) {
	q := r.db.Querier(ctx)

	query := `
		SELECT id, store_id, business_date, is_approved, approved_at, approved_by, created_at, updated_at
		FROM day_approvals
		WHERE store_id = $1 AND business_date = $2
	`

	record, err := scanDayApproval(q.QueryRow(ctx, query, storeID, businessDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // day never went through an approval action
		}
		return nil, fmt.Errorf("failed to get day approval: %w", err)
	}

	return &record, nil
}

// ListMonth implements approval.Repository.
func (r *dayApprovalRepository) ListMonth(ctx context.Context, storeID string, year int, month int) ([]approval.DayApproval, error) {
	q := r.db.Querier(ctx)

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	query := `
		SELECT id, store_id, business_date, is_approved, approved_at, approved_by, created_at, updated_at
		FROM day_approvals
		WHERE store_id = $1
		  AND business_date >= $2
		  AND business_date < $3
		ORDER BY business_date ASC
	`

	rows, err := q.Query(ctx, query, storeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list day approvals: %w", err)
	}
	defer rows.Close()

	var records []approval.DayApproval
	for rows.Next() {
		record, scanErr := scanDayApproval(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan day approval: %w", scanErr)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate day approvals: %w", err)
	}

	return records, nil
}
