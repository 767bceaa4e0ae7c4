package models

import "time"

/************************************************
/**** MARK: FLUXOS ****/
/************************************************/
const FLUXO_EMPRESA = "empresa"
const FLUXO_FISICA = "fisica"
const FLUXO_NENHUM = "nenhum"

// Mensagem registra uma mensagem inbound já admitida pelo pipeline e o fluxo
// escolhido para ela. Serve de trilha de auditoria; o core nunca lê daqui.
type Mensagem struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Telefone  string     `gorm:"not null;index" json:"telefone"`
	MessageID string     `gorm:"default:''" json:"message_id"`
	Texto     string     `gorm:"type:text" json:"texto"`
	Fluxo     string     `gorm:"not null;default:'nenhum';index" json:"fluxo"`
	CreatedAt *time.Time `json:"created_at"`
}
