package punch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/nomitake/timeclock-backend-go/internal/domain/approval"
	"github.com/nomitake/timeclock-backend-go/internal/domain/punch"
	"github.com/nomitake/timeclock-backend-go/internal/pkg/businessday"
	"github.com/nomitake/timeclock-backend-go/internal/service/file"
)

type PunchServiceImpl struct {
	tx           punch.TxRunner
	punchRepo    punch.Repository
	approvalRepo approval.Repository
	fileService  file.FileService
	days         businessday.Config
	now          func() time.Time
}

func NewPunchService(
	tx punch.TxRunner,
	punchRepo punch.Repository,
	approvalRepo approval.Repository,
	fileService file.FileService,
	days businessday.Config,
) punch.Service {
	return &PunchServiceImpl{
		tx:           tx,
		punchRepo:    punchRepo,
		approvalRepo: approvalRepo,
		fileService:  fileService,
		days:         days,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the service clock. Tests use this to pin boundary
// instants.
func (s *PunchServiceImpl) WithClock(now func() time.Time) *PunchServiceImpl {
	s.now = now
	return s
}

func claimsFromContext(ctx context.Context) (staffID, storeID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	staffID, ok := claims["staff_id"].(string)
	if !ok || staffID == "" {
		return "", "", fmt.Errorf("staff_id claim is missing or invalid")
	}

	storeID, ok = claims["store_id"].(string)
	if !ok || storeID == "" {
		return "", "", fmt.Errorf("store_id claim is missing or invalid")
	}

	return staffID, storeID, nil
}

// Punch implements punch.Service.
func (s *PunchServiceImpl) Punch(ctx context.Context, req punch.PunchRequest) (punch.PunchResult, error) {
	if err := req.Validate(); err != nil {
		return punch.PunchResult{}, err
	}

	staffID, storeID, err := claimsFromContext(ctx)
	if err != nil {
		return punch.PunchResult{}, err
	}

	ts := s.now()
	if req.Timestamp != nil && *req.Timestamp != "" {
		parsed, parseErr := time.Parse(time.RFC3339, *req.Timestamp)
		if parseErr != nil {
			return punch.PunchResult{}, fmt.Errorf("failed to parse timestamp: %w", parseErr)
		}
		ts = parsed.UTC()
	}

	requested := punch.Type(req.Type)

	// Clock-in needs proof of presence before anything may be recorded.
	var uploadedProof string
	if requested == punch.TypeClockIn {
		if req.ProofPhotoURL == nil {
			if req.File == nil || req.FileHeader == nil {
				return punch.PunchResult{}, punch.ErrMissingProofOfPresence
			}
			uploaded, upErr := s.fileService.UploadPunchProof(ctx, staffID, s.days.KeyFor(ts), req.File, req.FileHeader.Filename)
			if upErr != nil {
				return punch.PunchResult{}, fmt.Errorf("failed to upload punch proof: %w", upErr)
			}
			uploadedProof = uploaded
			req.ProofPhotoURL = &uploaded
		}
	}

	var created []punch.Event

	// The read-validate-write runs under a per-staff lock so two
	// concurrent punches cannot both observe the same last event. The
	// implicit break-end and the clock-out commit together or not at all.
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if lockErr := s.punchRepo.LockStaff(ctx, staffID, storeID); lockErr != nil {
			return fmt.Errorf("failed to lock staff punch stream: %w", lockErr)
		}

		// A backdated timestamp may resolve into an approved day; locked
		// days take no new punches from any path.
		if lockErr := s.ensureDayUnlocked(ctx, storeID, ts); lockErr != nil {
			return lockErr
		}

		last, lastErr := s.punchRepo.Latest(ctx, staffID, storeID)
		if lastErr != nil {
			return fmt.Errorf("failed to get latest punch: %w", lastErr)
		}

		var lastType *punch.Type
		if last != nil {
			lastType = &last.Type
		}
		state := punch.DeriveState(lastType)

		if vErr := punch.ValidateTransition(state, requested); vErr != nil {
			return vErr
		}

		if punch.NeedsImplicitBreakEnd(state, requested) {
			breakEnd, cErr := s.punchRepo.Create(ctx, punch.Event{
				StaffID:   staffID,
				StoreID:   storeID,
				Type:      punch.TypeBreakEnd,
				Timestamp: ts,
			})
			if cErr != nil {
				return fmt.Errorf("failed to create implicit break-end: %w", cErr)
			}
			created = append(created, breakEnd)
		}

		event, cErr := s.punchRepo.Create(ctx, punch.Event{
			StaffID:       staffID,
			StoreID:       storeID,
			Type:          requested,
			Timestamp:     ts,
			Companion:     req.Companion && requested == punch.TypeClockIn,
			ProofPhotoURL: req.ProofPhotoURL,
		})
		if cErr != nil {
			return fmt.Errorf("failed to create punch event: %w", cErr)
		}
		created = append(created, event)

		return nil
	})
	if err != nil {
		// A rejected punch must not strand its proof photo in storage.
		if uploadedProof != "" {
			if delErr := s.fileService.DeleteFile(ctx, uploadedProof); delErr != nil {
				slog.Warn("Failed to clean up proof photo of rejected punch", "path", uploadedProof, "error", delErr)
			}
		}
		return punch.PunchResult{}, err
	}

	result := punch.PunchResult{
		Events: make([]punch.EventResponse, 0, len(created)),
		State:  punch.DeriveState(&requested),
	}
	for _, ev := range created {
		result.Events = append(result.Events, s.mapEvent(ev))
	}

	return result, nil
}

// Status implements punch.Service.
func (s *PunchServiceImpl) Status(ctx context.Context) (punch.StatusResponse, error) {
	staffID, storeID, err := claimsFromContext(ctx)
	if err != nil {
		return punch.StatusResponse{}, err
	}

	last, err := s.punchRepo.Latest(ctx, staffID, storeID)
	if err != nil {
		return punch.StatusResponse{}, fmt.Errorf("failed to get latest punch: %w", err)
	}

	var lastType *punch.Type
	if last != nil {
		lastType = &last.Type
	}
	state := punch.DeriveState(lastType)

	resp := punch.StatusResponse{
		State:         state,
		BusinessDate:  s.days.KeyFor(s.now()),
		CanClockIn:    punch.ValidateTransition(state, punch.TypeClockIn) == nil,
		CanClockOut:   punch.ValidateTransition(state, punch.TypeClockOut) == nil,
		CanStartBreak: punch.ValidateTransition(state, punch.TypeBreakStart) == nil,
		CanEndBreak:   punch.ValidateTransition(state, punch.TypeBreakEnd) == nil,
	}
	if last != nil {
		typeStr := string(last.Type)
		at := last.Timestamp.UTC().Format(time.RFC3339)
		resp.LastPunchType = &typeStr
		resp.LastPunchAt = &at
	}

	return resp, nil
}

// List implements punch.Service.
func (s *PunchServiceImpl) List(ctx context.Context, filter punch.ListFilter) (punch.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return punch.ListResponse{}, err
	}

	_, storeID, err := claimsFromContext(ctx)
	if err != nil {
		return punch.ListResponse{}, err
	}

	interval, err := s.filterInterval(filter)
	if err != nil {
		return punch.ListResponse{}, err
	}

	events, err := s.punchRepo.ListRange(ctx, storeID, filter.StaffID, interval.From, interval.To)
	if err != nil {
		return punch.ListResponse{}, fmt.Errorf("failed to list punches: %w", err)
	}

	resp := punch.ListResponse{Events: make([]punch.EventResponse, 0, len(events))}
	for _, ev := range events {
		resp.Events = append(resp.Events, s.mapEvent(ev))
	}

	return resp, nil
}

func (s *PunchServiceImpl) filterInterval(filter punch.ListFilter) (businessday.Interval, error) {
	if filter.Date != nil && *filter.Date != "" {
		return s.days.RangeForLabel(*filter.Date)
	}

	start := filter.StartDate
	end := filter.EndDate
	if start == nil {
		start = end
	}
	if end == nil {
		end = start
	}

	fromIv, err := s.days.RangeForLabel(*start)
	if err != nil {
		return businessday.Interval{}, err
	}
	toIv, err := s.days.RangeForLabel(*end)
	if err != nil {
		return businessday.Interval{}, err
	}

	return businessday.Interval{From: fromIv.From, To: toIv.To}, nil
}

// Update implements punch.Service. Corrections to punches inside an
// approved business day are rejected; unapprove the day first.
func (s *PunchServiceImpl) Update(ctx context.Context, req punch.UpdateRequest) (punch.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return punch.EventResponse{}, err
	}

	_, storeID, err := claimsFromContext(ctx)
	if err != nil {
		return punch.EventResponse{}, err
	}

	event, err := s.punchRepo.GetByID(ctx, req.ID, storeID)
	if err != nil {
		if errors.Is(err, punch.ErrPunchNotFound) {
			return punch.EventResponse{}, punch.ErrPunchNotFound
		}
		return punch.EventResponse{}, fmt.Errorf("failed to get punch: %w", err)
	}

	if lockErr := s.ensureDayUnlocked(ctx, storeID, event.Timestamp); lockErr != nil {
		return punch.EventResponse{}, lockErr
	}

	if req.Timestamp != nil && *req.Timestamp != "" {
		parsed, parseErr := time.Parse(time.RFC3339, *req.Timestamp)
		if parseErr != nil {
			return punch.EventResponse{}, fmt.Errorf("failed to parse timestamp: %w", parseErr)
		}
		// The corrected timestamp may move the punch into another
		// business day; that day must be unlocked too.
		if lockErr := s.ensureDayUnlocked(ctx, storeID, parsed.UTC()); lockErr != nil {
			return punch.EventResponse{}, lockErr
		}
		event.Timestamp = parsed.UTC()
	}
	if req.Type != nil {
		event.Type = punch.Type(*req.Type)
	}
	if req.Companion != nil {
		event.Companion = *req.Companion
	}

	if err := s.punchRepo.Update(ctx, event); err != nil {
		return punch.EventResponse{}, fmt.Errorf("failed to update punch: %w", err)
	}

	updated, err := s.punchRepo.GetByID(ctx, req.ID, storeID)
	if err != nil {
		return punch.EventResponse{}, fmt.Errorf("failed to get updated punch: %w", err)
	}

	return s.mapEvent(updated), nil
}

// Delete implements punch.Service.
func (s *PunchServiceImpl) Delete(ctx context.Context, id string) error {
	_, storeID, err := claimsFromContext(ctx)
	if err != nil {
		return err
	}

	event, err := s.punchRepo.GetByID(ctx, id, storeID)
	if err != nil {
		if errors.Is(err, punch.ErrPunchNotFound) {
			return punch.ErrPunchNotFound
		}
		return fmt.Errorf("failed to get punch: %w", err)
	}

	if lockErr := s.ensureDayUnlocked(ctx, storeID, event.Timestamp); lockErr != nil {
		return lockErr
	}

	if err := s.punchRepo.Delete(ctx, id, storeID); err != nil {
		return fmt.Errorf("failed to delete punch: %w", err)
	}

	// The proof photo has no owner once the punch is gone.
	if event.ProofPhotoURL != nil {
		if delErr := s.fileService.DeleteFile(ctx, *event.ProofPhotoURL); delErr != nil {
			slog.Warn("Failed to delete proof photo of removed punch", "path", *event.ProofPhotoURL, "error", delErr)
		}
	}

	return nil
}

// ProofPhoto implements punch.Service. The returned URL resolves under
// the storage base URL, which the API serves itself for local storage.
func (s *PunchServiceImpl) ProofPhoto(ctx context.Context, id string) (string, error) {
	_, storeID, err := claimsFromContext(ctx)
	if err != nil {
		return "", err
	}

	event, err := s.punchRepo.GetByID(ctx, id, storeID)
	if err != nil {
		if errors.Is(err, punch.ErrPunchNotFound) {
			return "", punch.ErrPunchNotFound
		}
		return "", fmt.Errorf("failed to get punch: %w", err)
	}

	if event.ProofPhotoURL == nil {
		return "", punch.ErrProofPhotoNotFound
	}

	url, err := s.fileService.GetFileURL(ctx, *event.ProofPhotoURL, 15*time.Minute)
	if err != nil {
		return "", fmt.Errorf("failed to resolve proof photo URL: %w", err)
	}

	return url, nil
}

func (s *PunchServiceImpl) ensureDayUnlocked(ctx context.Context, storeID string, at time.Time) error {
	date := s.days.KeyFor(at)
	record, err := s.approvalRepo.Get(ctx, storeID, date)
	if err != nil {
		return fmt.Errorf("failed to check day approval: %w", err)
	}
	if record != nil && record.IsApproved {
		return approval.ErrDayLocked
	}
	return nil
}

func (s *PunchServiceImpl) mapEvent(ev punch.Event) punch.EventResponse {
	resp := punch.EventResponse{
		ID:            ev.ID,
		StaffID:       ev.StaffID,
		StoreID:       ev.StoreID,
		Type:          string(ev.Type),
		Timestamp:     ev.Timestamp.UTC().Format(time.RFC3339),
		BusinessDate:  s.days.KeyFor(ev.Timestamp),
		Companion:     ev.Companion,
		ProofPhotoURL: ev.ProofPhotoURL,
	}
	if ev.ApprovedAt != nil {
		at := ev.ApprovedAt.UTC().Format(time.RFC3339)
		resp.ApprovedAt = &at
	}
	resp.ApprovedBy = ev.ApprovedBy
	return resp
}
