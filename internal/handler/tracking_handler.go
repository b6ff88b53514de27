package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/service"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allow-list permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(origin, allowed) {
					return true
				}
			}
			return false
		},
	}
}

// TrackingHandler exposes live vehicle tracking: the GPS ping endpoint the
// tracker devices post to, the latest-position lookup, and a WebSocket
// stream fed from the Redis position channel.
type TrackingHandler struct {
	tracking *service.TrackingService
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewTrackingHandler constructs a new TrackingHandler.
func NewTrackingHandler(tracking *service.TrackingService, logger *zap.Logger, allowedOrigins []string) *TrackingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrackingHandler{
		tracking: tracking,
		logger:   logger,
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// Ping godoc
// @Summary Report a vehicle position
// @Description Tracker devices post GPS coordinates keyed by vehicle registration number. No authentication: the devices carry no credentials.
// @Tags Tracking
// @Accept json
// @Produce json
// @Param payload body service.LocationPingRequest true "Position payload"
// @Success 200 {object} response.Envelope
// @Router /transport/locations [post]
func (h *TrackingHandler) Ping(c *gin.Context) {
	var req service.LocationPingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid position payload"))
		return
	}
	position, err := h.tracking.Ping(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, position, nil)
}

// Latest godoc
// @Summary Latest position of a vehicle
// @Tags Tracking
// @Produce json
// @Param number path string true "Vehicle registration number"
// @Success 200 {object} response.Envelope
// @Router /transport/vehicles/{number}/location [get]
func (h *TrackingHandler) Latest(c *gin.Context) {
	position, err := h.tracking.Latest(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, position, nil)
}

// Stream godoc
// @Summary Stream live positions of a vehicle
// @Description Upgrades to WebSocket and forwards every position published for the vehicle. The latest known position is sent first.
// @Tags Tracking
// @Param number path string true "Vehicle registration number"
// @Router /transport/vehicles/{number}/location/stream [get]
func (h *TrackingHandler) Stream(c *gin.Context) {
	number := c.Param("number")

	pubsub, err := h.tracking.Subscribe(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer pubsub.Close()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	log := h.logger.With(zap.String("vehicle", strings.ToUpper(number)))
	log.Info("tracking stream opened")

	// Seed the client with the last known position, if any.
	if position, err := h.tracking.Latest(c.Request.Context(), number); err == nil {
		if err := conn.WriteJSON(position); err != nil {
			return
		}
	}

	// The read loop exists only to observe the close handshake.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				log.Debug("position channel closed")
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn("unexpected websocket close", zap.Error(err))
				}
				return
			}
		case <-done:
			log.Info("tracking stream closed")
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
