package middleware

import (
	"encoding/json"
	"net/http"

	apierrors "mpidash/internal/errors"
)

// writeProblem answers a request rejected before it reaches a handler with
// an RFC 7807 body, using the same problem types as the error handler.
func writeProblem(w http.ResponseWriter, r *http.Request, status int, problemType, detail string) {
	problem := apierrors.NewProblemDetails(status, problemType, http.StatusText(status), detail, r.URL.Path)
	if id := GetRequestID(r.Context()); id != "" {
		problem.WithExtension("request_id", id)
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(problem)
}
