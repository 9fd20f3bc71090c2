package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/daap14/questadmin/internal/api/response"
	"github.com/daap14/questadmin/internal/apiclient"
)

const maxRequestBytes = 1 << 20

// decodeBody reads a JSON request body into v. On failure it writes the 400
// response itself and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, requestID string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return false
	}
	return true
}

// upstreamErr reports a failed quiz API call. Non-2xx answers keep their
// status class; anything else is a bad gateway.
func upstreamErr(w http.ResponseWriter, err error, fallback, requestID string) {
	status := http.StatusBadGateway
	var se *apiclient.StatusError
	if errors.As(err, &se) && se.StatusCode >= 400 && se.StatusCode < 500 {
		status = se.StatusCode
	}
	response.Err(w, status, "UPSTREAM_ERROR", apiclient.ServerMessage(err, fallback), requestID)
}
