package core

import (
	"net/http"

	"github.com/segmentio/encoding/json"
)

// handleAPI serves the controller's mapping as JSON, untouched by any template.
func (r *Router) handleAPI(w http.ResponseWriter, req *http.Request, route compiledRoute, params map[string]string) {
	_, data, err := route.Controller(req, params)
	if err != nil {
		r.writeError(w, err)
		return
	}

	body, err := json.Marshal(data)
	if err != nil {
		r.serverError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if req.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}
