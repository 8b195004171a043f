package health

import (
	"encoding/json"
	"net/http"
	"time"
)

// LivenessHandler returns an HTTP handler for liveness probes. It only
// reports that the process is running.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// StatusResponse is the JSON body of the status endpoint.
type StatusResponse struct {
	AnyAvailable bool                       `json:"any_available"`
	Timestamp    string                     `json:"timestamp"`
	Services     map[string]ServiceResponse `json:"services,omitempty"`
}

// ServiceResponse is the JSON view of one tracked service.
type ServiceResponse struct {
	Healthy     bool    `json:"healthy"`
	UptimeRatio float64 `json:"uptime_ratio"`
	Samples     int     `json:"samples"`
}

// StatusHandler returns an HTTP handler exposing the monitor's current
// view. It responds 200 while at least one tracked service is healthy
// (or none are tracked yet) and 503 once every tracked service is down.
func StatusHandler(monitor *Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current := monitor.Current()

		response := StatusResponse{
			AnyAvailable: current.AnyAvailable,
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
			Services:     make(map[string]ServiceResponse, len(current.Services)),
		}
		for id, healthy := range current.Services {
			response.Services[id] = ServiceResponse{
				Healthy:     healthy,
				UptimeRatio: monitor.UptimeRatio(id),
				Samples:     len(monitor.History(id)),
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if len(current.Services) > 0 && !current.AnyAvailable {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(response)
	}
}

// RegisterHandlers registers the health handlers on the given mux.
func RegisterHandlers(mux *http.ServeMux, monitor *Monitor) {
	mux.HandleFunc("/healthz", LivenessHandler())
	mux.HandleFunc("/health", StatusHandler(monitor))
}
