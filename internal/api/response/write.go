package response

import (
	"encoding/json"
	"net/http"
)

// JSON serializes data as the response body with the given status.
// A nil data writes headers only.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Ok writes the accepted-or-rejected verdict envelope. Rejections are part
// of the normal flow, so the status is 200 either way.
func Ok(w http.ResponseWriter, ok bool) {
	JSON(w, http.StatusOK, OkResponse{Ok: ok})
}

// NoContent acknowledges a request that has no body to return
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
