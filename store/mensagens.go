package store

import (
	"fmt"

	"entregabot/models"

	"github.com/jinzhu/gorm"
)

// Mensagens persiste a trilha de mensagens admitidas pelo pipeline.
type Mensagens struct {
	db *gorm.DB
}

func NewMensagens(db *gorm.DB) *Mensagens {
	return &Mensagens{db: db}
}

func (s *Mensagens) Registrar(telefone, messageID, texto, fluxo string) error {
	m := models.Mensagem{
		Telefone:  telefone,
		MessageID: messageID,
		Texto:     texto,
		Fluxo:     fluxo,
	}
	if err := s.db.Create(&m).Error; err != nil {
		return fmt.Errorf("registrar mensagem de %s: %w", telefone, err)
	}
	return nil
}
