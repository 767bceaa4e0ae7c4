package models

import "time"

/************************************************
/**** MARK: ENTREGA STATUS ****/
/************************************************/
const ENTREGA_STATUS_PENDENTE = "pendente"
const ENTREGA_STATUS_CONCLUIDA = "concluida"
const ENTREGA_STATUS_CANCELADA = "cancelada"

// Entrega é um pedido de entrega registrado por um cliente (empresa).
// Os comandos administrativos de listagem/contagem e o job diário leem daqui.
type Entrega struct {
	ID            int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	ClienteCodigo string     `gorm:"not null;index" json:"cliente_codigo"`
	Telefone      string     `gorm:"not null;index" json:"telefone"` // quem pediu
	Endereco      string     `gorm:"type:text" json:"endereco"`
	Status        string     `gorm:"not null;default:'pendente';index" json:"status"`
	CreatedAt     *time.Time `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}
