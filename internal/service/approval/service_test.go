package approval

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/nomitake/timeclock-backend-go/internal/domain/approval"
	"github.com/nomitake/timeclock-backend-go/internal/domain/punch"
	"github.com/nomitake/timeclock-backend-go/internal/pkg/businessday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct{}

func (fakeTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type tagCall struct {
	storeID    string
	from, to   time.Time
	approvedAt *time.Time
	approvedBy *string
}

type fakePunchRepo struct {
	punch.Repository

	tags    []tagCall
	touched int64
}

func (r *fakePunchRepo) SetApprovalRange(ctx context.Context, storeID string, from, to time.Time, approvedAt *time.Time, approvedBy *string) (int64, error) {
	r.tags = append(r.tags, tagCall{storeID: storeID, from: from, to: to, approvedAt: approvedAt, approvedBy: approvedBy})
	return r.touched, nil
}

type fakeApprovalRepo struct {
	records map[string]approval.DayApproval
}

func newFakeApprovalRepo() *fakeApprovalRepo {
	return &fakeApprovalRepo{records: map[string]approval.DayApproval{}}
}

func (r *fakeApprovalRepo) Upsert(ctx context.Context, record approval.DayApproval) (approval.DayApproval, error) {
	record.ID = record.StoreID + "/" + record.BusinessDate
	r.records[record.ID] = record
	return record, nil
}

func (r *fakeApprovalRepo) Get(ctx context.Context, storeID string, businessDate string) (*approval.DayApproval, error) {
	if record, ok := r.records[storeID+"/"+businessDate]; ok {
		return &record, nil
	}
	return nil, nil
}

func (r *fakeApprovalRepo) ListMonth(ctx context.Context, storeID string, year int, month int) ([]approval.DayApproval, error) {
	var out []approval.DayApproval
	for _, record := range r.records {
		if record.StoreID == storeID {
			out = append(out, record)
		}
	}
	return out, nil
}

func managerContext(t *testing.T, staffID, storeID string) context.Context {
	t.Helper()
	ta := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ta.Encode(map[string]interface{}{
		"staff_id": staffID,
		"store_id": storeID,
		"role":     "manager",
		"type":     "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func TestSetDayApprovalLocksDay(t *testing.T) {
	punchRepo := &fakePunchRepo{touched: 7}
	approvalRepo := newFakeApprovalRepo()
	days := businessday.DefaultConfig()
	at := time.Date(2024, 7, 3, 12, 0, 0, 0, time.UTC)

	svc := NewApprovalService(fakeTx{}, punchRepo, approvalRepo, days).(*ApprovalServiceImpl).
		WithClock(func() time.Time { return at })
	ctx := managerContext(t, "manager-1", "store-1")

	got, err := svc.SetDayApproval(ctx, approval.SetDayApprovalRequest{Date: "2024-07-01", Approved: true})
	require.NoError(t, err)

	assert.True(t, got.IsApproved)
	assert.Equal(t, "2024-07-01", got.BusinessDate)
	assert.Equal(t, int64(7), got.PunchesTouched)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, "manager-1", *got.ApprovedBy)

	// The bulk tag covered exactly the labeled business day.
	iv, err := days.RangeForLabel("2024-07-01")
	require.NoError(t, err)
	require.Len(t, punchRepo.tags, 1)
	assert.Equal(t, iv.From, punchRepo.tags[0].from)
	assert.Equal(t, iv.To, punchRepo.tags[0].to)
	require.NotNil(t, punchRepo.tags[0].approvedAt)
	assert.Equal(t, at, *punchRepo.tags[0].approvedAt)

	locked, err := svc.IsDayApproved(ctx, "store-1", "2024-07-01")
	require.NoError(t, err)
	assert.True(t, locked)
}

func TestSetDayApprovalUnapproveReopens(t *testing.T) {
	punchRepo := &fakePunchRepo{touched: 3}
	approvalRepo := newFakeApprovalRepo()
	svc := NewApprovalService(fakeTx{}, punchRepo, approvalRepo, businessday.DefaultConfig())
	ctx := managerContext(t, "manager-1", "store-1")

	_, err := svc.SetDayApproval(ctx, approval.SetDayApprovalRequest{Date: "2024-07-01", Approved: true})
	require.NoError(t, err)

	got, err := svc.SetDayApproval(ctx, approval.SetDayApprovalRequest{Date: "2024-07-01", Approved: false})
	require.NoError(t, err)

	assert.False(t, got.IsApproved)
	assert.Nil(t, got.ApprovedAt)
	assert.Nil(t, got.ApprovedBy)

	// The second tag pass cleared the approval marks on the punches.
	require.Len(t, punchRepo.tags, 2)
	assert.Nil(t, punchRepo.tags[1].approvedAt)
	assert.Nil(t, punchRepo.tags[1].approvedBy)

	locked, err := svc.IsDayApproved(ctx, "store-1", "2024-07-01")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestSetDayApprovalIsIdempotent(t *testing.T) {
	punchRepo := &fakePunchRepo{}
	approvalRepo := newFakeApprovalRepo()
	svc := NewApprovalService(fakeTx{}, punchRepo, approvalRepo, businessday.DefaultConfig())
	ctx := managerContext(t, "manager-1", "store-1")

	first, err := svc.SetDayApproval(ctx, approval.SetDayApprovalRequest{Date: "2024-07-01", Approved: true})
	require.NoError(t, err)
	second, err := svc.SetDayApproval(ctx, approval.SetDayApprovalRequest{Date: "2024-07-01", Approved: true})
	require.NoError(t, err)

	assert.True(t, first.IsApproved)
	assert.True(t, second.IsApproved)
	assert.Len(t, approvalRepo.records, 1)
}

func TestSetDayApprovalRejectsBadLabel(t *testing.T) {
	svc := NewApprovalService(fakeTx{}, &fakePunchRepo{}, newFakeApprovalRepo(), businessday.DefaultConfig())
	ctx := managerContext(t, "manager-1", "store-1")

	_, err := svc.SetDayApproval(ctx, approval.SetDayApprovalRequest{Date: "01-07-2024", Approved: true})
	assert.Error(t, err)
}

func TestGetMonth(t *testing.T) {
	punchRepo := &fakePunchRepo{}
	approvalRepo := newFakeApprovalRepo()
	svc := NewApprovalService(fakeTx{}, punchRepo, approvalRepo, businessday.DefaultConfig())
	ctx := managerContext(t, "manager-1", "store-1")

	_, err := svc.SetDayApproval(ctx, approval.SetDayApprovalRequest{Date: "2024-07-01", Approved: true})
	require.NoError(t, err)

	got, err := svc.GetMonth(ctx, approval.MonthFilter{Year: 2024, Month: 7})
	require.NoError(t, err)
	require.Len(t, got.Days, 1)
	assert.Equal(t, "2024-07-01", got.Days[0].BusinessDate)
	assert.True(t, got.Days[0].IsApproved)
}

func TestGetMonthRejectsInvalidFilter(t *testing.T) {
	svc := NewApprovalService(fakeTx{}, &fakePunchRepo{}, newFakeApprovalRepo(), businessday.DefaultConfig())
	ctx := managerContext(t, "manager-1", "store-1")

	_, err := svc.GetMonth(ctx, approval.MonthFilter{Year: 2024, Month: 0})
	assert.Error(t, err)
}
