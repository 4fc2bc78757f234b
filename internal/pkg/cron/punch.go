package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/nomitake/timeclock-backend-go/internal/domain/approval"
	"github.com/nomitake/timeclock-backend-go/internal/domain/punch"
	"github.com/nomitake/timeclock-backend-go/internal/pkg/businessday"
)

// PunchJobs closes shifts that were never clocked out. A staff member
// still Working or OnBreak after their business day has fully elapsed
// (end of day plus the grace window) gets synthetic closing punches
// stamped at the day's end, so the day stays payable and the terminal
// state machine resets for the next shift.
type PunchJobs struct {
	tx           punch.TxRunner
	punchRepo    punch.Repository
	approvalRepo approval.Repository
	days         businessday.Config
	now          func() time.Time
}

func NewPunchJobs(
	tx punch.TxRunner,
	punchRepo punch.Repository,
	approvalRepo approval.Repository,
	days businessday.Config,
) *PunchJobs {
	return &PunchJobs{
		tx:           tx,
		punchRepo:    punchRepo,
		approvalRepo: approvalRepo,
		days:         days,
		now:          time.Now,
	}
}

// WithClock overrides the job clock. Used in tests.
func (j *PunchJobs) WithClock(now func() time.Time) *PunchJobs {
	j.now = now
	return j
}

func (j *PunchJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_close_stale_shifts", 1*time.Hour, j.AutoCloseStaleShifts)
}

func (j *PunchJobs) AutoCloseStaleShifts(ctx context.Context) error {
	stores, err := j.punchRepo.Stores(ctx)
	if err != nil {
		return err
	}

	closed := 0
	for _, storeID := range stores {
		latest, err := j.punchRepo.LatestPerStaff(ctx, storeID)
		if err != nil {
			return err
		}

		for _, last := range latest {
			n, err := j.closeIfStale(ctx, last)
			if err != nil {
				slog.Error("Cron: failed to auto-close shift",
					"staff_id", last.StaffID, "store_id", last.StoreID, "error", err)
				continue
			}
			closed += n
		}
	}

	if closed > 0 {
		slog.Info("Cron: auto-closed stale shifts", "count", closed)
	}
	return nil
}

func (j *PunchJobs) closeIfStale(ctx context.Context, last punch.Event) (int, error) {
	if state := punch.DeriveState(&last.Type); state == punch.StateOff {
		return 0, nil
	}

	iv := j.days.RangeContaining(last.Timestamp)
	deadline := iv.To.Add(time.Duration(j.days.GraceMinutes) * time.Minute)
	if j.now().Before(deadline) {
		return 0, nil
	}

	// Approved days are frozen; a stale shift inside one is a manager
	// correction problem, not ours.
	record, err := j.approvalRepo.Get(ctx, last.StoreID, iv.Key())
	if err != nil {
		return 0, err
	}
	if record != nil && record.IsApproved {
		return 0, nil
	}

	closed := 0
	err = j.tx.InTx(ctx, func(ctx context.Context) error {
		if err := j.punchRepo.LockStaff(ctx, last.StaffID, last.StoreID); err != nil {
			return err
		}

		// Re-read under the lock: a terminal punch may have landed since.
		current, err := j.punchRepo.Latest(ctx, last.StaffID, last.StoreID)
		if err != nil {
			return err
		}
		if current == nil || current.ID != last.ID {
			return nil
		}

		state := punch.DeriveState(&current.Type)
		if state == punch.StateOff {
			return nil
		}

		if state == punch.StateOnBreak {
			if _, err := j.punchRepo.Create(ctx, punch.Event{
				StaffID:   last.StaffID,
				StoreID:   last.StoreID,
				Type:      punch.TypeBreakEnd,
				Timestamp: iv.To,
			}); err != nil {
				return err
			}
		}

		if _, err := j.punchRepo.Create(ctx, punch.Event{
			StaffID:   last.StaffID,
			StoreID:   last.StoreID,
			Type:      punch.TypeClockOut,
			Timestamp: iv.To,
		}); err != nil {
			return err
		}
		closed = 1
		return nil
	})
	return closed, err
}
