package store

import (
	"fmt"

	"entregabot/models"

	"github.com/jinzhu/gorm"
)

// Etapas é o Session Store: estado de conversa por telefone.
type Etapas struct {
	db *gorm.DB
}

func NewEtapas(db *gorm.DB) *Etapas {
	return &Etapas{db: db}
}

// Get devolve a etapa do telefone. Telefone sem registro recebe a etapa
// neutra padrão (ativado=true), sem criar linha no banco.
func (s *Etapas) Get(telefone string) (models.Etapa, error) {
	var etapa models.Etapa
	err := s.db.Where("telefone = ?", telefone).First(&etapa).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return models.NovaEtapaNeutra(telefone), nil
		}
		return models.NovaEtapaNeutra(telefone), fmt.Errorf("buscar etapa de %s: %w", telefone, err)
	}
	return etapa, nil
}

// Set grava etapa e codigo do telefone (upsert). Last-write-wins: o core não
// serializa escritas concorrentes do mesmo telefone.
func (s *Etapas) Set(telefone string, etapa string, codigo *string) error {
	var existing models.Etapa
	err := s.db.Where("telefone = ?", telefone).First(&existing).Error
	if err != nil {
		if !gorm.IsRecordNotFoundError(err) {
			return fmt.Errorf("buscar etapa de %s: %w", telefone, err)
		}
		nova := models.Etapa{Telefone: telefone, Etapa: etapa, Codigo: codigo, Ativado: true}
		if err := s.db.Create(&nova).Error; err != nil {
			return fmt.Errorf("criar etapa de %s: %w", telefone, err)
		}
		return nil
	}

	if err := s.db.Model(&models.Etapa{}).Where("id = ?", existing.ID).Updates(map[string]any{
		"etapa":  etapa,
		"codigo": codigo,
	}).Error; err != nil {
		return fmt.Errorf("atualizar etapa de %s: %w", telefone, err)
	}
	return nil
}

// SetAtivado liga/desliga o chatbot para o telefone (comandos ativar/desativar).
func (s *Etapas) SetAtivado(telefone string, ativado bool) error {
	var existing models.Etapa
	err := s.db.Where("telefone = ?", telefone).First(&existing).Error
	if err != nil {
		if !gorm.IsRecordNotFoundError(err) {
			return fmt.Errorf("buscar etapa de %s: %w", telefone, err)
		}
		nova := models.NovaEtapaNeutra(telefone)
		nova.Ativado = ativado
		if err := s.db.Create(&nova).Error; err != nil {
			return fmt.Errorf("criar etapa de %s: %w", telefone, err)
		}
		return nil
	}

	if err := s.db.Model(&models.Etapa{}).Where("id = ?", existing.ID).
		Update("ativado", ativado).Error; err != nil {
		return fmt.Errorf("atualizar ativado de %s: %w", telefone, err)
	}
	return nil
}
