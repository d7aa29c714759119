package ws

import (
	"net/http"
	"strings"

	"resume-screener/internal/logger"
	"resume-screener/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type TokenValidator interface {
	ValidateAccessToken(tokenString string) (jwt.Claims, error)
}

type Handler struct {
	hub    *Hub
	tokens TokenValidator
	logger *zap.Logger
}

func NewHandler(hub *Hub, tokens TokenValidator, log *zap.Logger) *Handler {
	return &Handler{hub: hub, tokens: tokens, logger: logger.OrNop(log)}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleScreeningsWS authenticates ?token= before upgrading, since browsers
// cannot set headers on websocket requests.
func (h *Handler) HandleScreeningsWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil || h.tokens == nil {
		return fiber.ErrServiceUnavailable
	}

	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		return fiber.ErrUnauthorized
	}
	claims, err := h.tokens.ValidateAccessToken(token)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("ws upgrade failed", zap.Error(err))
			return
		}

		client := NewClient(h.hub, conn, claims.UserID)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})

	return fiberHandler(c)
}
