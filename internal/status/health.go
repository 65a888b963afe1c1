package status

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/osse101/TerminalFarm_Go/internal/domain"
	"github.com/osse101/TerminalFarm_Go/internal/notify"
)

// HealthResponse is the body of /healthz and /readyz
type HealthResponse struct {
	Status        string `json:"status"`
	Message       string `json:"message,omitempty"`
	Uptime        string `json:"uptime,omitempty"`
	LastSync      string `json:"last_sync,omitempty"`
	FeedConnected *bool  `json:"feed_connected,omitempty"`
}

// StateResponse is the body of /state
type StateResponse struct {
	LastSync  time.Time               `json:"last_sync"`
	Phase     string                  `json:"plant_phase"`
	Selection *SelectionResponse      `json:"selection,omitempty"`
	Messages  []string                `json:"messages,omitempty"`
	State     *domain.ClientGameState `json:"state"`
}

// SelectionResponse shows the pending plant intent, 0-based like the wire
type SelectionResponse struct {
	PlotIndex *int    `json:"plot_index,omitempty"`
	CropName  *string `json:"crop_name,omitempty"`
}

// HandleHealthz is the liveness check
func (s *Server) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status: StatusOK,
		Uptime: s.clock.Since(s.started).Truncate(time.Second).String(),
	})
}

// HandleReadyz is ready once a snapshot is loaded and the last sync is
// recent. A disconnected change feed degrades the answer but stays 200,
// since the passive refresh still reconciles.
func (s *Server) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.source.State() == nil {
		respondJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: StatusUnavailable, Message: MsgNoState})
		return
	}

	last := s.source.LastSync()
	resp := HealthResponse{Status: StatusOK, LastSync: last.UTC().Format(time.RFC3339)}

	if age := s.clock.Since(last); age > staleSyncFactor*s.source.Interval() {
		resp.Status = StatusUnavailable
		resp.Message = MsgSyncStale
		respondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	if s.feed != nil {
		connected := s.feed.IsConnected()
		resp.FeedConnected = &connected
		if !connected {
			resp.Status = StatusDegraded
			resp.Message = MsgFeedDown
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

// HandleState returns the mirrored snapshot in the nested schema
func (s *Server) HandleState(w http.ResponseWriter, r *http.Request) {
	state := s.source.State()
	if state == nil {
		respondJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: StatusUnavailable, Message: MsgNoState})
		return
	}

	resp := StateResponse{
		LastSync: s.source.LastSync().UTC(),
		Phase:    s.source.Phase().String(),
		State:    state,
	}
	if sel := s.source.Selection(); !sel.Empty() {
		resp.Selection = &SelectionResponse{PlotIndex: sel.Plot, CropName: sel.Crop}
	}
	if s.messages != nil {
		resp.Messages = notify.Texts(s.messages.Recent(stateMessageLimit))
	}
	respondJSON(w, http.StatusOK, resp)
}

// respondJSON encodes to a buffer first so an encoding failure can still be a 500
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		slog.Error(MsgEncodeFailed, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(MsgWriteFailed, "error", err)
	}
}
