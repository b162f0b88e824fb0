package api

import (
	models "TrendPull/internal/domain/models"
	"TrendPull/internal/handler/ws"
	"TrendPull/internal/leader"
	"TrendPull/internal/usecase"
	xhttp "TrendPull/pkg/http"
	xlogger "TrendPull/pkg/logger"

	"github.com/labstack/echo/v4"
)

// EventsHandler serves the dashboard read API: event history, monitor status
// and the WebSocket upgrade endpoint.
type EventsHandler struct {
	logger  *xlogger.Logger
	monitor *usecase.Monitor
	hub     *ws.Hub
	guard   *leader.Guard
}

func NewEventsHandler(logger *xlogger.Logger, monitor *usecase.Monitor, hub *ws.Hub, guard *leader.Guard) *EventsHandler {
	return &EventsHandler{logger: logger, monitor: monitor, hub: hub, guard: guard}
}

func (h *EventsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/events", h.Events)
	g.GET("/status", h.Status)
	e.GET("/ws", h.WebSocket)
	e.GET("/health", h.Health)
}

// Events returns the most recent trend events, oldest first.
func (h *EventsHandler) Events(c echo.Context) error {
	req := &models.EventsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	events := h.monitor.Events()
	if len(events) > req.Limit {
		events = events[len(events)-req.Limit:]
	}
	return xhttp.ListResponse(c, events, int64(len(events)))
}

// Status reports the monitor's current view of the market and the process.
func (h *EventsHandler) Status(c echo.Context) error {
	resp := &models.StatusResponse{
		Status:       "ok",
		CurrentTrend: h.monitor.Trend(),
		LogCount:     len(h.monitor.Events()),
		Leader:       h.guard.IsLeader(),
		Clients:      h.hub.ClientCount(),
	}
	if err := h.monitor.LastError(); err != nil {
		resp.Status = "degraded"
		resp.LastError = err.Error()
	}
	return xhttp.SuccessResponse(c, resp)
}

// WebSocket upgrades the connection and hands it to the hub.
func (h *EventsHandler) WebSocket(c echo.Context) error {
	return h.hub.Serve(c, h.monitor.Events())
}

// Health is a liveness probe.
func (h *EventsHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "up"})
}
