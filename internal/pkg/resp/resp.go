/*
Package resp provides helpers for writing the development server's JSON responses.

Every JSON endpoint answers with the same envelope: a business code, a message, and an
optional payload. Envelopes are never cached, since the dev server's answers change with
every rebuild, and HEAD requests receive the headers only.
*/
package resp

import (
	"encoding/json"
	"net/http"

	"assassin/internal/pkg/errs"
	"assassin/internal/pkg/logx"
)

// JSONResponse is the envelope returned by every JSON endpoint.
type JSONResponse struct {
	// Code is the business status code (0 for success, see errs package otherwise).
	Code int `json:"code"`

	// Message is the client-friendly status description or error message.
	Message string `json:"message"`

	// Data is the optional response payload.
	Data any `json:"data,omitempty"`

	// Path echoes the request path on errors so a missing asset is easy to spot.
	Path string `json:"path,omitempty"`
}

// RespondJSON sets the JSON content type and writes payload with the given status.
func RespondJSON(w http.ResponseWriter, r *http.Request, httpStatus int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "no-store")

	response, err := json.Marshal(payload)
	if err != nil {
		logx.Error(
			err,
			"Error encoding JSON response",
			"http_status", httpStatus,
			"path", r.URL.Path,
		)

		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(httpStatus)
	if r.Method == http.MethodHead {
		return
	}
	w.Write(response)
}

// RespondSuccess sends a 200 OK envelope carrying data.
func RespondSuccess(w http.ResponseWriter, r *http.Request, data any) {
	res := JSONResponse{
		Code:    0,
		Message: "success",
		Data:    data,
	}
	RespondJSON(w, r, http.StatusOK, res)
}

// RespondError sends an envelope describing customErr using its HTTP status.
func RespondError(w http.ResponseWriter, r *http.Request, customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	res := JSONResponse{
		Code:    customErr.Code,
		Message: customErr.Message,
		Path:    r.URL.Path,
	}
	RespondJSON(w, r, customErr.Status, res)
}
