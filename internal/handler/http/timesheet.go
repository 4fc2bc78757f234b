package http

import (
	"net/http"
	"strconv"

	"github.com/nomitake/timeclock-backend-go/internal/domain/timesheet"
	"github.com/nomitake/timeclock-backend-go/internal/handler/http/response"
)

type TimesheetHandler interface {
	Monthly(w http.ResponseWriter, r *http.Request)
}

type timesheetHandlerImpl struct {
	timesheetService timesheet.Service
}

func NewTimesheetHandler(timesheetService timesheet.Service) TimesheetHandler {
	return &timesheetHandlerImpl{
		timesheetService: timesheetService,
	}
}

// Monthly implements TimesheetHandler.
func (h *timesheetHandlerImpl) Monthly(w http.ResponseWriter, r *http.Request) {
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

	filter := timesheet.MonthlyFilter{
		Year:  year,
		Month: month,
	}
	if v := q.Get("staff_id"); v != "" {
		filter.StaffID = &v
	}

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.timesheetService.Monthly(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
