package chatbot

import "fmt"

// Remetente dos status do WhatsApp; nunca processado.
const STATUS_BROADCAST = "status@broadcast"

// Tipo de mensagem apagada pelo remetente.
const TIPO_REVOKED = "revoked"

// Sufixo de identidade anônima do transporte; precisa ser resolvida para o
// número real antes de qualquer chave de cache ou consulta de etapa.
const SUFIXO_LID = "@lid"

// InboundEvent é uma notificação de mensagem entregue pelo transporte.
// Consumido uma vez por chamada do pipeline; nunca persistido aqui.
type InboundEvent struct {
	From      string // id nativo do transporte (pode ser @lid)
	ID        string // id do evento; pode vir vazio
	Timestamp int64  // fallback para a chave de dedup quando ID falta
	Body      string
	Type      string // "chat", "revoked", ...
}

// EventKey é a chave canônica do filtro de duplicadas.
func (ev InboundEvent) EventKey() string {
	if ev.ID != "" {
		return ev.ID
	}
	return fmt.Sprintf("%s_%d", ev.From, ev.Timestamp)
}
