package http

import (
	"net/http"
	"time"

	"github.com/nomitake/timeclock-backend-go/internal/handler/http/response"
	"github.com/nomitake/timeclock-backend-go/internal/pkg/businessday"
)

type BusinessDayHandler interface {
	Resolve(w http.ResponseWriter, r *http.Request)
}

type businessDayHandlerImpl struct {
	days businessday.Config
}

func NewBusinessDayHandler(days businessday.Config) BusinessDayHandler {
	return &businessDayHandlerImpl{
		days: days,
	}
}

// BusinessDayResponse describes which venue day an instant belongs to.
type BusinessDayResponse struct {
	BusinessDate string `json:"business_date"`
	From         string `json:"from"` // RFC3339
	To           string `json:"to"`   // RFC3339, exclusive
}

// Resolve implements BusinessDayHandler. With ?at=RFC3339 it classifies
// that instant, with ?date=YYYY-MM-DD it returns the labeled day's
// interval, and with no parameter it classifies the current time.
func (h *businessDayHandlerImpl) Resolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var iv businessday.Interval
	if label := q.Get("date"); label != "" {
		var err error
		iv, err = h.days.RangeForLabel(label)
		if err != nil {
			response.HandleError(w, err)
			return
		}
	} else {
		at := time.Now()
		if v := q.Get("at"); v != "" {
			parsed, err := time.Parse(time.RFC3339, v)
			if err != nil {
				response.BadRequest(w, "Query parameter 'at' must be RFC3339", nil)
				return
			}
			at = parsed
		}
		iv = h.days.RangeContaining(at)
	}

	response.Success(w, BusinessDayResponse{
		BusinessDate: iv.Key(),
		From:         iv.From.Format(time.RFC3339),
		To:           iv.To.Format(time.RFC3339),
	})
}
