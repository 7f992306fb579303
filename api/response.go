// Package api implements the HTTP control façade (spec §1 "out of
// scope" collaborator, §6 "HTTP control surface"): a thin layer that
// parses query parameters and forwards to the miner handle, the network
// handle, or reads the blockchain store directly. It owns no consensus
// logic of its own.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/klay-edu/powchain/internal/xlog"
)

var logger = xlog.NewModuleLogger(xlog.API)

// envelope is the uniform JSON response shape every route writes (spec
// §6: "All responses are JSON ... unknown paths return 404 with a JSON
// error body").
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, e envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(e); err != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

func writeOK(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

// writeQueryError matches spec §7's "HTTP parse errors (query params):
// respond 200 with {success:false, message:...}" — the façade is lenient
// even on its own malformed input.
func writeQueryError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, envelope{Success: false, Message: message})
}

func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, envelope{Success: false, Message: "not found"})
}

// requestID tags every request with a UUID for log correlation, the
// same per-request identifier idiom the teacher's node/cn API layer
// gets from httprouter + a UUID generator on its admin/debug routes.
func requestID() string {
	return uuid.NewString()
}
