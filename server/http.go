package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hrygo/careerbot/ai/careers"
	"github.com/hrygo/careerbot/ai/routing"
	"github.com/hrygo/careerbot/plugin/chat_apps"
	"github.com/hrygo/careerbot/plugin/chat_apps/channels"
)

// MaxMessageBytes caps request bodies on every route.
const MaxMessageBytes = "64K"

// ChatRequest is the body of the chat and classify endpoints.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is returned by POST /api/v1/chat.
type ChatResponse struct {
	RequestID string                 `json:"request_id"`
	Reply     string                 `json:"reply"`
	Outcome   careers.Outcome        `json:"outcome"`
	Intents   []routing.ScoredIntent `json:"intents"`
	Entities  map[string][]string    `json:"entities"`
}

// ClassifyResponse is returned by POST /api/v1/classify.
type ClassifyResponse struct {
	Intents  []routing.ScoredIntent `json:"intents"`
	Entities map[string][]string    `json:"entities"`
}

// registerRoutes mounts the HTTP API on e.
func (s *Server) registerRoutes(e *echo.Echo) {
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(MaxMessageBytes))
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: newRequestID,
	}))

	e.GET("/healthz", s.handleHealth)
	if s.exporter != nil {
		e.GET("/metrics", echo.WrapHandler(s.exporter.Handler()))
	}

	api := e.Group("/api/v1")
	api.POST("/chat", s.handleChat)
	if s.profile.IsDev() {
		api.POST("/classify", s.handleClassify)
	}

	if s.profile.TelegramMode == "webhook" {
		e.POST("/telegram/webhook", s.handleTelegramWebhook)
	}
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.profile.Version,
	})
}

func bindMessage(c echo.Context) (string, error) {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}
	return msg, nil
}

func (s *Server) handleChat(c echo.Context) error {
	msg, err := bindMessage(c)
	if err != nil {
		return err
	}

	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	reply := s.dispatcher.Answer(c.Request().Context(), chat_apps.PlatformWeb, requestID, msg)
	return c.JSON(http.StatusOK, ChatResponse{
		RequestID: requestID,
		Reply:     reply.Text,
		Outcome:   reply.Outcome,
		Intents:   nonNil(reply.Intents),
		Entities:  reply.Entities.Map(),
	})
}

func (s *Server) handleClassify(c echo.Context) error {
	msg, err := bindMessage(c)
	if err != nil {
		return err
	}

	d := s.advisor.Classifier().Classify(c.Request().Context(), msg)
	return c.JSON(http.StatusOK, ClassifyResponse{
		Intents:  nonNil(d.Intents),
		Entities: d.Entities.Map(),
	})
}

func (s *Server) handleTelegramWebhook(c echo.Context) error {
	receiver, ok := s.channels.Webhook(chat_apps.PlatformTelegram)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "telegram is not configured")
	}
	if !receiver.VerifyRequest(c.Request()) {
		return echo.NewHTTPError(http.StatusUnauthorized, "webhook verification failed")
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read body").SetInternal(err)
	}
	if err := receiver.Deliver(c.Request().Context(), body); err != nil {
		if errors.Is(err, channels.ErrInvalidPayload) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid update").SetInternal(err)
		}
		// Telegram redelivers on non-2xx responses.
		return echo.NewHTTPError(http.StatusServiceUnavailable, "update not accepted").SetInternal(err)
	}
	return c.NoContent(http.StatusOK)
}

func nonNil(intents []routing.ScoredIntent) []routing.ScoredIntent {
	if intents == nil {
		return []routing.ScoredIntent{}
	}
	return intents
}
