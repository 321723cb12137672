package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/fhuszti/assets-ms-go/internal/auth"
	"github.com/fhuszti/assets-ms-go/internal/logger"
	"github.com/fhuszti/assets-ms-go/internal/metrics"
	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

// EventError is sent to a connection right before it is refused.
const EventError = "error"

type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func encode(event string, payload any) ([]byte, error) {
	return json.Marshal(envelope{Event: event, Data: payload})
}

// Gateway authenticates live sessions and fans events out to them.
// Delivery is best effort: events for users without a session are dropped.
type Gateway struct {
	registry *Registry
	tokens   port.TokenValidator
	metrics  *metrics.GatewayMetrics
	upgrader websocket.Upgrader
}

// compile-time check
var _ port.Notifier = (*Gateway)(nil)

func NewGateway(tokens port.TokenValidator, m *metrics.GatewayMetrics) *Gateway {
	return &Gateway{
		registry: NewRegistry(),
		tokens:   tokens,
		metrics:  m,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// mobile clients send no Origin header; the bearer token is the gate
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (g *Gateway) Registry() *Registry {
	return g.registry
}

// OnConnect resolves token to a user and registers s under it.
// On failure an error event is sent, s is closed and nothing is registered.
func (g *Gateway) OnConnect(s Session, token string) (uuid.UUID, error) {
	userID, err := g.authenticate(token)
	if err != nil {
		g.metrics.Rejected()
		if msg, encErr := encode(EventError, "unauthorized"); encErr == nil {
			_ = s.Send(msg)
		}
		_ = s.Close()
		logger.Warnf(context.Background(), "❌  Refused session %s: %v", s.ID(), err)
		return uuid.Nil, err
	}

	g.registry.Register(userID, s)
	g.metrics.SessionOpened()
	logger.Infof(context.Background(), "✅  Session %s connected for user %s", s.ID(), userID)
	return userID, nil
}

func (g *Gateway) authenticate(token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, fmt.Errorf("%w: missing token", auth.ErrUnauthorized)
	}
	userID, err := g.tokens.ValidateToken(token)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", auth.ErrUnauthorized, err)
	}
	return userID, nil
}

// OnDisconnect drops s from the registry. Unknown sessions are ignored.
func (g *Gateway) OnDisconnect(s Session) {
	userID, ok := g.registry.Unregister(s)
	if !ok {
		return
	}
	g.metrics.SessionClosed()
	logger.Infof(context.Background(), "Session %s of user %s disconnected", s.ID(), userID)
}

// Deliver sends one copy of the event to every live session of userID.
// A session that cannot take the message is unregistered and closed.
func (g *Gateway) Deliver(ctx context.Context, userID uuid.UUID, event string, payload any) error {
	sessions := g.registry.Sessions(userID)
	if len(sessions) == 0 {
		g.metrics.Dropped(event)
		logger.Debugf(ctx, "No live session for user %s, dropping %s", userID, event)
		return nil
	}

	msg, err := encode(event, payload)
	if err != nil {
		return fmt.Errorf("could not encode %s event: %w", event, err)
	}

	delivered := 0
	for _, s := range sessions {
		if err := s.Send(msg); err != nil {
			logger.Warnf(ctx, "❌  Could not deliver %s to session %s: %v", event, s.ID(), err)
			g.OnDisconnect(s)
			_ = s.Close()
			continue
		}
		delivered++
	}
	g.metrics.Delivered(event, delivered)
	return nil
}

// ServeWS upgrades the request and runs the session until either side closes it.
// The credential comes from the Authorization header or the access_token query parameter.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromRequest(r)

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		logger.Warnf(r.Context(), "❌  WebSocket upgrade failed: %v", err)
		return
	}

	s := newWSSession(conn)
	go s.writePump()

	if _, err := g.OnConnect(s, token); err != nil {
		return
	}
	go s.readPump(func() { g.OnDisconnect(s) })
}
