package socket

import (
	"context"
	"errors"
	"log"
	"strings"

	"amora_server/models"
	"amora_server/services"
	"amora_server/utils"

	socketio "github.com/googollee/go-socket.io"
)

// MatchNamespace is the socket.io namespace for the matching engine.
const MatchNamespace = "/match"

// connHandle adapts a socket.io connection to the session registry's
// ConnectionHandle so services never see the transport.
type connHandle struct {
	conn socketio.Conn
}

func (h connHandle) ID() string { return h.conn.ID() }

func (h connHandle) Emit(event string, payload interface{}) { h.conn.Emit(event, payload) }

// NewSocketServer initializes the Socket.IO server for the /match namespace.
// Connections authenticate at connect time with a bearer token; every later
// event resolves the user from the connection context.
func NewSocketServer(matchmaker *services.MatchmakerService, registry *services.SessionRegistry, jwtSecret string) *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect(MatchNamespace, func(c socketio.Conn) error {
		userID, err := authenticate(c, jwtSecret)
		if err != nil {
			log.Printf("❌ Socket auth failed for %s: %v", c.ID(), err)
			return err
		}

		c.SetContext(userID)
		registry.Bind(userID, connHandle{conn: c})
		log.Printf("✅ Socket connected: %s (user %s)", c.ID(), userID)
		return nil
	})

	server.OnEvent(MatchNamespace, "request-match", func(c socketio.Conn) {
		userID, ok := c.Context().(string)
		if !ok {
			c.Emit(services.EventMatchError, models.MatchErrorPayload{Message: "Not authenticated"})
			return
		}

		entry, err := matchmaker.RequestMatch(context.Background(), userID)
		switch {
		case errors.Is(err, services.ErrAlreadyWaiting):
			c.Emit(services.EventMatchRequested, models.MatchRequestedPayload{Success: false, Message: "You already have an active match request"})
		case errors.Is(err, services.ErrInsufficientBalance):
			c.Emit(services.EventMatchRequested, models.MatchRequestedPayload{Success: false, Message: "Insufficient balance"})
		case err != nil:
			log.Printf("❌ request-match failed for %s: %v", userID, err)
			c.Emit(services.EventMatchError, models.MatchErrorPayload{Message: "Failed to request a match"})
		default:
			c.Emit(services.EventMatchRequested, models.MatchRequestedPayload{Success: true, Message: "Match request queued", QueueID: entry.QueueID})
		}
	})

	server.OnEvent(MatchNamespace, "cancel-match", func(c socketio.Conn) {
		userID, ok := c.Context().(string)
		if !ok {
			c.Emit(services.EventMatchError, models.MatchErrorPayload{Message: "Not authenticated"})
			return
		}

		err := matchmaker.CancelMatch(context.Background(), userID)
		switch {
		case errors.Is(err, services.ErrNotWaiting):
			c.Emit(services.EventMatchCanceled, models.MatchCanceledPayload{Success: false, Message: "No active match request"})
		case err != nil:
			log.Printf("❌ cancel-match failed for %s: %v", userID, err)
			c.Emit(services.EventMatchError, models.MatchErrorPayload{Message: "Failed to cancel match request"})
		default:
			c.Emit(services.EventMatchCanceled, models.MatchCanceledPayload{Success: true, Message: "Match request canceled"})
		}
	})

	server.OnEvent(MatchNamespace, "check-match-status", func(c socketio.Conn) {
		userID, ok := c.Context().(string)
		if !ok {
			c.Emit(services.EventMatchError, models.MatchErrorPayload{Message: "Not authenticated"})
			return
		}

		// The live check uses the short recency window; the HTTP polling
		// surface uses the long one.
		status, err := matchmaker.CheckStatus(context.Background(), userID, models.RecentMatchWindowLive)
		if err != nil {
			log.Printf("❌ check-match-status failed for %s: %v", userID, err)
			c.Emit(services.EventMatchError, models.MatchErrorPayload{Message: "Failed to check match status"})
			return
		}
		c.Emit(services.EventMatchStatus, status)
	})

	server.OnError(MatchNamespace, func(c socketio.Conn, err error) {
		log.Printf("⚠️ Socket error: %v", err)
	})

	server.OnDisconnect(MatchNamespace, func(c socketio.Conn, reason string) {
		log.Printf("❌ Socket disconnected: %s (%s)", c.ID(), reason)

		userID, ok := c.Context().(string)
		if !ok {
			return
		}

		// Only the currently bound connection's disconnect cancels the queue
		// entry; a superseded connection going away must not cancel a request
		// owned by the newer one.
		if !registry.Unbind(userID, connHandle{conn: c}) {
			return
		}
		if err := matchmaker.CancelMatch(context.Background(), userID); err != nil && !errors.Is(err, services.ErrNotWaiting) {
			log.Printf("⚠️ Failed to cancel match on disconnect for %s: %v", userID, err)
		}
	})

	return server
}

// authenticate resolves the user from the connection's bearer credential,
// taken from the Authorization header or the token query parameter.
func authenticate(c socketio.Conn, jwtSecret string) (string, error) {
	raw := strings.TrimPrefix(c.RemoteHeader().Get("Authorization"), "Bearer ")
	if raw == "" {
		u := c.URL()
		raw = u.Query().Get("token")
	}
	if raw == "" {
		return "", errors.New("missing bearer token")
	}
	return utils.VerifyToken(jwtSecret, raw)
}
