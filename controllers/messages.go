package controllers

import (
	"net/http"
	"strings"

	"entregabot/chatbot"
	"entregabot/tools"
	"entregabot/transport"

	"github.com/gin-gonic/gin"
)

// Messages expõe o envio manual de mensagens e o status do processo.
// Compartilha com o pipeline o mesmo estado de prontidão: nada sai enquanto o
// transporte não está pronto ou o warmup não terminou.
type Messages struct {
	Transport transport.Client
	Warmup    *chatbot.WarmupGate
}

type sendMessageInput struct {
	Number  string `json:"number"`
	Message string `json:"message"`
}

// POST /send-message
func (m *Messages) SendMessage(c *gin.Context) {
	var in sendMessageInput
	if err := c.ShouldBindJSON(&in); err != nil || in.Number == "" || in.Message == "" {
		RespondError(c, `campos "number" e "message" são obrigatórios`, http.StatusBadRequest)
		return
	}

	if !m.Transport.IsReady() || !m.Warmup.CanProcess() {
		RespondError(c, "cliente WhatsApp não está pronto; aguarde a inicialização e o warmup", http.StatusServiceUnavailable)
		return
	}

	// normalização com DDI automático para números BR sem código do país
	number, err := tools.NormalizeTelefone(in.Number)
	if err != nil {
		RespondError(c, `campo "number" inválido: `+err.Error(), http.StatusBadRequest)
		return
	}

	messageID, err := m.Transport.SendText(c.Request.Context(), number, in.Message)
	if err != nil {
		RespondError(c, "erro interno ao enviar mensagem", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{
		"success":   true,
		"message":   "mensagem enviada com sucesso",
		"messageId": messageID,
		"to":        number,
	})
}

type sendGroupMessageInput struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// POST /send-group-message
func (m *Messages) SendGroupMessage(c *gin.Context) {
	var in sendGroupMessageInput
	if err := c.ShouldBindJSON(&in); err != nil || in.Name == "" || in.Message == "" {
		RespondError(c, `campos "name" e "message" são obrigatórios`, http.StatusBadRequest)
		return
	}

	if !m.Transport.IsReady() || !m.Warmup.CanProcess() {
		RespondError(c, "cliente WhatsApp não está pronto; aguarde a inicialização e o warmup", http.StatusServiceUnavailable)
		return
	}

	chats, err := m.Transport.GetChats(c.Request.Context())
	if err != nil {
		RespondError(c, "erro interno ao buscar grupos", http.StatusInternalServerError)
		return
	}

	var group *transport.Chat
	for i := range chats {
		if chats[i].IsGroup && strings.Contains(strings.ToLower(chats[i].Name), strings.ToLower(in.Name)) {
			group = &chats[i]
			break
		}
	}
	if group == nil {
		RespondError(c, `grupo "`+in.Name+`" não encontrado`, http.StatusNotFound)
		return
	}

	messageID, err := m.Transport.SendText(c.Request.Context(), group.ID, in.Message)
	if err != nil {
		RespondError(c, "erro interno ao enviar mensagem para grupo", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{
		"success":   true,
		"message":   "mensagem enviada para o grupo com sucesso",
		"messageId": messageID,
		"groupName": group.Name,
		"groupId":   group.ID,
	})
}

// GET /status
func (m *Messages) Status(c *gin.Context) {
	ready := m.Transport.IsReady()
	canSend := ready && m.Warmup.CanProcess()

	status := "initializing"
	if canSend {
		status = "ready"
	} else if ready {
		status = "warmup"
	}

	RespondSuccess(c, gin.H{
		"success":         true,
		"clientReady":     ready,
		"canSendMessages": canSend,
		"status":          status,
	})
}
