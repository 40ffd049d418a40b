// Package httpapi exposes the relay over local HTTP: commands in, events out as SSE.
package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"timersync/internal/core/model"
	"timersync/internal/relay"
)

// Config tunes the HTTP relay.
type Config struct {
	EventBuffer int
	AccessLog   bool
}

// SnapshotResponse is the wire form of a controller snapshot.
type SnapshotResponse struct {
	SessionID       string `json:"sessionId,omitempty"`
	State           string `json:"state"`
	Mode            string `json:"mode"`
	Title           string `json:"title"`
	EndTimeMillis   int64  `json:"endTimeMillis"`
	RemainingMillis int64  `json:"remainingMillis"`
	IsPaused        bool   `json:"isPaused"`
}

// NewRouter wires the relay endpoints.
func NewRouter(dispatcher *relay.Dispatcher, hub *relay.Hub, config Config) http.Handler {
	r := chi.NewRouter()
	if config.AccessLog {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	r.Post("/commands/{method}", postCommand(dispatcher))
	r.Get("/snapshot", getSnapshot(dispatcher))
	r.Get("/events", StreamEvents(hub, config.EventBuffer))
	return r
}

func postCommand(dispatcher *relay.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd := relay.Command{Method: chi.URLParam(r, "method")}

		decoder := json.NewDecoder(r.Body)
		decoder.UseNumber()
		if err := decoder.Decode(&cmd.Args); err != nil {
			// Malformed or empty bodies fall back to argument defaults.
			cmd.Args = nil
		}

		if err := dispatcher.Dispatch(cmd); err != nil {
			if errors.Is(err, relay.ErrUnimplemented) {
				respondError(w, err.Error(), http.StatusNotImplemented)
				return
			}
			respondError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, NewSnapshotResponse(dispatcher.Snapshot()), http.StatusOK)
	}
}

func getSnapshot(dispatcher *relay.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, NewSnapshotResponse(dispatcher.Snapshot()), http.StatusOK)
	}
}

// NewSnapshotResponse converts a snapshot to its wire form.
func NewSnapshotResponse(snapshot model.Snapshot) SnapshotResponse {
	response := SnapshotResponse{
		SessionID:       snapshot.SessionID,
		State:           string(snapshot.State),
		Mode:            string(snapshot.Mode),
		Title:           snapshot.Title,
		RemainingMillis: snapshot.Remaining.Milliseconds(),
		IsPaused:        snapshot.Paused,
	}
	if !snapshot.EndTime.IsZero() {
		response.EndTimeMillis = snapshot.EndTime.UnixMilli()
	}
	return response
}

func respondJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("httpapi: encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, map[string]string{"error": message}, status)
}
