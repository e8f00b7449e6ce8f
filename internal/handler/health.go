package handler

import "net/http"

// healthBody is the fixed response for liveness probes.
type healthBody struct {
	Status string `json:"status"`
}

// HandleHealth reports service liveness. No side effects.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthBody{Status: "ok"})
}
