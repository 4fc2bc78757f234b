package approval

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/nomitake/timeclock-backend-go/internal/domain/approval"
	"github.com/nomitake/timeclock-backend-go/internal/domain/punch"
	"github.com/nomitake/timeclock-backend-go/internal/pkg/businessday"
)

type ApprovalServiceImpl struct {
	tx           punch.TxRunner
	punchRepo    punch.Repository
	approvalRepo approval.Repository
	days         businessday.Config
	now          func() time.Time
}

func NewApprovalService(
	tx punch.TxRunner,
	punchRepo punch.Repository,
	approvalRepo approval.Repository,
	days businessday.Config,
) approval.Service {
	return &ApprovalServiceImpl{
		tx:           tx,
		punchRepo:    punchRepo,
		approvalRepo: approvalRepo,
		days:         days,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the service clock for deterministic tests.
func (s *ApprovalServiceImpl) WithClock(now func() time.Time) *ApprovalServiceImpl {
	s.now = now
	return s
}

// SetDayApproval implements approval.Service.
//
// Both writes happen in one transaction: the bulk tag over the punch log
// and the upsert of the day row. A reader can never observe punches
// marked approved under an unapproved day row or vice versa.
func (s *ApprovalServiceImpl) SetDayApproval(ctx context.Context, req approval.SetDayApprovalRequest) (approval.DayApprovalResponse, error) {
	if err := req.Validate(); err != nil {
		return approval.DayApprovalResponse{}, err
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return approval.DayApprovalResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	storeID, ok := claims["store_id"].(string)
	if !ok || storeID == "" {
		return approval.DayApprovalResponse{}, fmt.Errorf("store_id claim is missing or invalid")
	}

	approverID, ok := claims["staff_id"].(string)
	if !ok || approverID == "" {
		return approval.DayApprovalResponse{}, fmt.Errorf("staff_id claim is missing or invalid")
	}

	interval, err := s.days.RangeForLabel(req.Date)
	if err != nil {
		return approval.DayApprovalResponse{}, err
	}

	var approvedAt *time.Time
	var approvedBy *string
	if req.Approved {
		now := s.now()
		approvedAt = &now
		approvedBy = &approverID
	}

	var touched int64
	var stored approval.DayApproval

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		var txErr error
		touched, txErr = s.punchRepo.SetApprovalRange(ctx, storeID, interval.From, interval.To, approvedAt, approvedBy)
		if txErr != nil {
			return fmt.Errorf("failed to tag punches: %w", txErr)
		}

		stored, txErr = s.approvalRepo.Upsert(ctx, approval.DayApproval{
			StoreID:      storeID,
			BusinessDate: req.Date,
			IsApproved:   req.Approved,
			ApprovedAt:   approvedAt,
			ApprovedBy:   approvedBy,
		})
		if txErr != nil {
			return fmt.Errorf("failed to upsert day approval: %w", txErr)
		}

		return nil
	})
	if err != nil {
		return approval.DayApprovalResponse{}, err
	}

	resp := mapDayApproval(stored)
	resp.PunchesTouched = touched
	return resp, nil
}

// GetMonth implements approval.Service.
func (s *ApprovalServiceImpl) GetMonth(ctx context.Context, filter approval.MonthFilter) (approval.MonthResponse, error) {
	if err := filter.Validate(); err != nil {
		return approval.MonthResponse{}, err
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return approval.MonthResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	storeID, ok := claims["store_id"].(string)
	if !ok || storeID == "" {
		return approval.MonthResponse{}, fmt.Errorf("store_id claim is missing or invalid")
	}

	records, err := s.approvalRepo.ListMonth(ctx, storeID, filter.Year, filter.Month)
	if err != nil {
		return approval.MonthResponse{}, fmt.Errorf("failed to list day approvals: %w", err)
	}

	resp := approval.MonthResponse{Days: make([]approval.DayApprovalResponse, 0, len(records))}
	for _, record := range records {
		resp.Days = append(resp.Days, mapDayApproval(record))
	}

	return resp, nil
}

// IsDayApproved implements approval.Service.
func (s *ApprovalServiceImpl) IsDayApproved(ctx context.Context, storeID string, businessDate string) (bool, error) {
	record, err := s.approvalRepo.Get(ctx, storeID, businessDate)
	if err != nil {
		return false, fmt.Errorf("failed to get day approval: %w", err)
	}
	return record != nil && record.IsApproved, nil
}

func mapDayApproval(record approval.DayApproval) approval.DayApprovalResponse {
	resp := approval.DayApprovalResponse{
		StoreID:      record.StoreID,
		BusinessDate: record.BusinessDate,
		IsApproved:   record.IsApproved,
	}
	if record.ApprovedAt != nil {
		at := record.ApprovedAt.UTC().Format(time.RFC3339)
		resp.ApprovedAt = &at
	}
	resp.ApprovedBy = record.ApprovedBy
	return resp
}
