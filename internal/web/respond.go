package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrEthical07/campusdesk"
	"github.com/MrEthical07/campusdesk/api"
	"github.com/MrEthical07/campusdesk/campus"
	"github.com/MrEthical07/campusdesk/validate"
)

// maxBody caps request bodies; a weekly menu is the largest payload.
const maxBody = 1 << 20

var ruleErrors = []error{
	campus.ErrRemarkRequired,
	campus.ErrComplaintIDRequired,
	campus.ErrInvalidStatus,
	campus.ErrAnonymousWithStudent,
	campus.ErrComplaintIncomplete,
	campus.ErrInvalidDepartment,
	campus.ErrInvalidMealType,
	campus.ErrInvalidPreference,
	campus.ErrWeekStartRequired,
	campus.ErrInvalidSchedule,
	campus.ErrRatingRequired,
	campus.ErrInvalidRating,
	campus.ErrInviteEmailRequired,
	campus.ErrInviteRole,
	campus.ErrEmptyMessage,
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeBadRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed request: " + err.Error()})
}

// writeError answers a failed desk operation with the message its notice carried.
func writeError(w http.ResponseWriter, err error) {
	status, body := describeError(err)
	writeJSON(w, status, body)
}

func describeError(err error) (int, errorBody) {
	var verrs validate.Errors
	if errors.As(err, &verrs) {
		return http.StatusUnprocessableEntity, errorBody{Error: verrs.First(), Fields: verrs}
	}
	for _, rule := range ruleErrors {
		if errors.Is(err, rule) {
			return http.StatusUnprocessableEntity, errorBody{Error: campusdesk.RuleMessage(err)}
		}
	}

	switch {
	case errors.Is(err, campusdesk.ErrNotAuthenticated):
		return http.StatusUnauthorized, errorBody{Error: "Please log in"}
	case errors.Is(err, api.ErrUnauthorized):
		return http.StatusUnauthorized, errorBody{Error: api.Message(err, campusdesk.SessionExpiredMessage)}
	case errors.Is(err, api.ErrInvalidPathSegment):
		return http.StatusBadRequest, errorBody{Error: "Invalid link"}
	case errors.Is(err, campusdesk.ErrForbidden):
		return http.StatusForbidden, errorBody{Error: "You do not have access to this action"}
	case errors.Is(err, campusdesk.ErrRegistrationClosed):
		return http.StatusNotFound, errorBody{Error: "This portal does not accept registrations"}
	case errors.Is(err, campusdesk.ErrDeskClosed):
		return http.StatusServiceUnavailable, errorBody{Error: "Service is shutting down"}
	case errors.Is(err, api.ErrTransport), errors.Is(err, api.ErrDecode):
		return http.StatusBadGateway, errorBody{Error: "Backend unavailable"}
	}

	if status := api.Status(err); status != 0 {
		msg := api.Message(err, http.StatusText(status))
		if status >= http.StatusInternalServerError {
			return http.StatusBadGateway, errorBody{Error: msg}
		}
		return status, errorBody{Error: msg}
	}
	return http.StatusInternalServerError, errorBody{Error: err.Error()}
}
