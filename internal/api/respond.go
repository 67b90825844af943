package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/ledger"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Field            string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, code, description string) {
	writeJSON(w, status, ErrorResponse{Error: code, ErrorDescription: description})
}

// writeLedgerError replies with the status that matches the ledger error's kind.
func writeLedgerError(w http.ResponseWriter, err error) {
	code := ledger.Code(err)
	resp := ErrorResponse{Error: code, ErrorDescription: err.Error()}

	var be *ledger.BlockError
	if errors.As(err, &be) {
		resp.Field = be.Field
	}
	writeJSON(w, statusFor(code), resp)
}

func statusFor(code string) int {
	switch code {
	case "entry_already_exists", "not_posted", "not_editable":
		return http.StatusConflict
	case "continuity_violation", "variance_detected", "missing_required_field",
		"invalid_numeric_input", "no_date_selected", "unknown_field":
		return http.StatusUnprocessableEntity
	case "storage_failure", "continuity_unresolved":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
