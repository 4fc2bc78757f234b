package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/nomitake/timeclock-backend-go/internal/domain/approval"
	"github.com/nomitake/timeclock-backend-go/internal/handler/http/response"
)

type ApprovalHandler interface {
	SetDay(w http.ResponseWriter, r *http.Request)
	GetMonth(w http.ResponseWriter, r *http.Request)
}

type approvalHandlerImpl struct {
	approvalService approval.Service
}

func NewApprovalHandler(approvalService approval.Service) ApprovalHandler {
	return &approvalHandlerImpl{
		approvalService: approvalService,
	}
}

// SetDay implements ApprovalHandler. Approving is idempotent; posting
// approved=false reopens the day.
func (h *approvalHandlerImpl) SetDay(w http.ResponseWriter, r *http.Request) {
	var req approval.SetDayApprovalRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.approvalService.SetDayApproval(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Day approval updated", result)
}

// GetMonth implements ApprovalHandler.
func (h *approvalHandlerImpl) GetMonth(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		response.BadRequest(w, "Query parameter 'year' must be a number", nil)
		return
	}
	month, err := strconv.Atoi(q.Get("month"))
	if err != nil {
		response.BadRequest(w, "Query parameter 'month' must be a number", nil)
		return
	}

	filter := approval.MonthFilter{
		Year:  year,
		Month: month,
	}

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.approvalService.GetMonth(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
