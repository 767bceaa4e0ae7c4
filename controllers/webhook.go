package controllers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"entregabot/chatbot"

	"github.com/gin-gonic/gin"
)

// MessageHandler é a fronteira do pipeline vista pelo webhook.
type MessageHandler interface {
	HandleMessage(ctx context.Context, ev chatbot.InboundEvent) error
}

// WebhookPayload é a estrutura mínima do update do WhatsApp (Meta) para
// capturar mensagens de texto.
type WebhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		ID      string `json:"id"`
		Changes []struct {
			Field string `json:"field"`
			Value struct {
				Messages []struct {
					From      string `json:"from"`
					ID        string `json:"id"`
					Timestamp string `json:"timestamp"`
					Type      string `json:"type"`
					Text      struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// Webhook recebe os updates do transporte e alimenta o pipeline.
type Webhook struct {
	Pipeline MessageHandler
}

// Verify atende o GET de verificação do webhook (hub.challenge).
func (w *Webhook) Verify(c *gin.Context) {
	verifyToken := os.Getenv("WEBHOOK_VERIFY_TOKEN")
	if verifyToken == "" {
		RespondError(c, "WEBHOOK_VERIFY_TOKEN not set", http.StatusInternalServerError)
		return
	}

	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && subtle.ConstantTimeCompare([]byte(token), []byte(verifyToken)) == 1 && challenge != "" {
		c.String(http.StatusOK, "%s", challenge)
		return
	}

	RespondError(c, "forbidden", http.StatusForbidden)
}

// Update recebe o POST de mensagens. Responde rápido pro Meta e processa cada
// mensagem em background; eventos distintos podem ficar em voo ao mesmo tempo.
func (w *Webhook) Update(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		RespondError(c, "failed to read body", http.StatusBadRequest)
		return
	}

	var payload WebhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		RespondError(c, "invalid json", http.StatusBadRequest)
		return
	}

	events := extractEvents(payload)

	// responde rápido pro Meta
	c.String(http.StatusOK, "EVENT_RECEIVED")

	for _, ev := range events {
		go func(ev chatbot.InboundEvent) {
			if err := w.Pipeline.HandleMessage(context.Background(), ev); err != nil {
				log.Printf("webhook: erro ao processar mensagem de %s: %v", ev.From, err)
			}
		}(ev)
	}
}

func extractEvents(payload WebhookPayload) []chatbot.InboundEvent {
	var out []chatbot.InboundEvent

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "" && strings.TrimSpace(change.Field) != "messages" {
				continue
			}
			for _, m := range change.Value.Messages {
				ts, _ := strconv.ParseInt(strings.TrimSpace(m.Timestamp), 10, 64)
				out = append(out, chatbot.InboundEvent{
					From:      strings.TrimSpace(m.From),
					ID:        strings.TrimSpace(m.ID),
					Timestamp: ts,
					Body:      m.Text.Body,
					Type:      strings.ToLower(strings.TrimSpace(m.Type)),
				})
			}
		}
	}

	return out
}
