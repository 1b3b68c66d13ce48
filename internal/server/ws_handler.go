package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/bjarke-xyz/mortgage-intake/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func (s *server) handleApplicationEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// Subscribe before reading the current status so no update is lost in between.
	messageChan := s.feed.subscribe(id)
	app, err := s.appRepository.GetByID(r.Context(), id)
	if err != nil {
		s.feed.unsubscribe(id, messageChan)
		if errors.Is(err, domain.ErrNotFound) {
			errorJSON(w, http.StatusNotFound, "Not found", "")
			return
		}
		s.logger.Error("error getting application", "error", err, "applicationId", id)
		errorJSON(w, http.StatusInternalServerError, "Lookup failed", err.Error())
		return
	}

	clientId := uuid.NewString()
	h := http.Header{}
	h.Add(wsIdHeader, clientId)
	conn, err := upgrader.Upgrade(w, r, h)
	if err != nil {
		s.feed.unsubscribe(id, messageChan)
		s.logger.Error("error while upgrading connection", "error", err, "applicationId", id)
		return
	}
	defer conn.Close()
	defer s.feed.unsubscribe(id, messageChan)

	current, err := json.Marshal(statusEvent{ID: app.ID, Status: app.Status, UpdatedAt: app.UpdatedAt})
	if err != nil {
		s.logger.Error("failed to encode status", "error", err)
		return
	}
	select {
	case messageChan <- current:
	default:
	}

	go func() {
		for msgBytes := range messageChan {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msgBytes); err != nil {
				s.logger.Error("failed to write ws msg", "error", err, "clientId", clientId)
				conn.Close()
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Error("error reading ws msg", "error", err, "clientId", clientId)
			}
			return
		}
	}
}

func (s *server) publishStatus(app domain.Application) {
	msg, err := json.Marshal(statusEvent{ID: app.ID, Status: app.Status, UpdatedAt: app.UpdatedAt})
	if err != nil {
		s.logger.Error("failed to encode status", "error", err)
		return
	}
	s.feed.Publish(app.ID, msg)
}
