package models

import "time"

/************************************************
/**** MARK: ETAPAS DE CONVERSA ****/
/************************************************/

// ETAPA_NEUTRA é o valor inicial/reset de qualquer conversa.
const ETAPA_NEUTRA = "a"

// Etapa guarda o estado de conversa de um telefone.
// Codigo fica preenchido apenas enquanto o telefone está em um fluxo de
// empresa ativo; Ativado desliga toda a lógica do chatbot para o telefone
// (comando administrativo "desativar").
type Etapa struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Telefone  string     `gorm:"not null;unique_index" json:"telefone"`
	Etapa     string     `gorm:"not null;default:'a'" json:"etapa"`
	Codigo    *string    `json:"codigo"`
	Ativado   bool       `gorm:"not null;default:true" json:"ativado"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// NovaEtapaNeutra é o registro padrão quando o telefone ainda não tem estado.
func NovaEtapaNeutra(telefone string) Etapa {
	return Etapa{
		Telefone: telefone,
		Etapa:    ETAPA_NEUTRA,
		Codigo:   nil,
		Ativado:  true,
	}
}
