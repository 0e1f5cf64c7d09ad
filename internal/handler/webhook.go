package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"incident-report-api/internal/models"
	"incident-report-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/rs/zerolog"
)

// SignatureHeader carries the base64 HMAC-SHA256 of the request body
const SignatureHeader = "X-Line-Signature"

// WebhookHandler receives messaging webhook callbacks
type WebhookHandler struct {
	service       MessageService
	channelSecret string
	logger        zerolog.Logger
}

// MessageService interface for dependency injection
type MessageService interface {
	Handle(ctx context.Context, senderID, text string) (*models.Report, error)
}

// NewWebhookHandler creates a new webhook handler. An empty channelSecret disables signature checks
func NewWebhookHandler(svc MessageService, channelSecret string, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{service: svc, channelSecret: channelSecret, logger: logger}
}

// Callback handles POST /line/callback
//
//	@Summary	Receive messaging webhook events
//	@Tags		webhook
//	@Accept		json
//	@Produce	json
//	@Param		X-Line-Signature	header		string	false	"HMAC-SHA256 signature of the body"
//	@Success	200					{object}	map[string]string
//	@Failure	400					{object}	map[string]string
//	@Failure	401					{object}	map[string]string
//	@Failure	500					{object}	map[string]string
//	@Router		/line/callback [post]
func (h *WebhookHandler) Callback(c *gin.Context) {
	cb, err := h.parseRequest(c.Request)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			h.logger.Warn().Msg("webhook signature mismatch")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	for _, event := range cb.Events {
		userID, text, ok := textMessage(event)
		if !ok || strings.TrimSpace(userID) == "" || strings.TrimSpace(text) == "" {
			continue
		}

		if _, err := h.service.Handle(c.Request.Context(), userID, text); err != nil {
			if service.IsRejected(err) {
				h.logger.Warn().Err(err).Str("user_id", userID).Msg("report message rejected")
				continue
			}
			h.logger.Error().Err(err).Str("user_id", userID).Msg("report processing failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *WebhookHandler) parseRequest(req *http.Request) (*webhook.CallbackRequest, error) {
	if h.channelSecret != "" {
		return webhook.ParseRequest(h.channelSecret, req)
	}

	var cb webhook.CallbackRequest
	if err := json.NewDecoder(req.Body).Decode(&cb); err != nil {
		return nil, err
	}
	return &cb, nil
}

// textMessage returns the sender and text of a text message event
func textMessage(event webhook.EventInterface) (string, string, bool) {
	e, ok := event.(webhook.MessageEvent)
	if !ok {
		return "", "", false
	}
	m, ok := e.Message.(webhook.TextMessageContent)
	if !ok {
		return "", "", false
	}
	return sourceUserID(e.Source), m.Text, true
}

func sourceUserID(source webhook.SourceInterface) string {
	switch s := source.(type) {
	case webhook.UserSource:
		return s.UserId
	case webhook.GroupSource:
		return s.UserId
	case webhook.RoomSource:
		return s.UserId
	}
	return ""
}
