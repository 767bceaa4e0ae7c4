package store

import (
	"fmt"
	"time"

	"entregabot/models"

	"github.com/jinzhu/gorm"
)

// Entregas guarda os pedidos de entrega usados pelos comandos administrativos
// e pelo job diário de resumo.
type Entregas struct {
	db *gorm.DB
}

func NewEntregas(db *gorm.DB) *Entregas {
	return &Entregas{db: db}
}

// Criar registra um novo pedido de entrega.
func (s *Entregas) Criar(entrega models.Entrega) error {
	if entrega.Status == "" {
		entrega.Status = models.ENTREGA_STATUS_PENDENTE
	}
	if err := s.db.Create(&entrega).Error; err != nil {
		return fmt.Errorf("criar entrega para %s: %w", entrega.ClienteCodigo, err)
	}
	return nil
}

// ListarPorCliente devolve as entregas pendentes do cliente.
func (s *Entregas) ListarPorCliente(codigo string) ([]models.Entrega, error) {
	var entregas []models.Entrega
	err := s.db.
		Where("cliente_codigo = ? AND status = ?", codigo, models.ENTREGA_STATUS_PENDENTE).
		Order("id asc").
		Find(&entregas).Error
	if err != nil {
		return nil, fmt.Errorf("listar entregas de %s: %w", codigo, err)
	}
	return entregas, nil
}

// ContarPorCliente conta as entregas pendentes do cliente.
func (s *Entregas) ContarPorCliente(codigo string) (int, error) {
	var count int
	err := s.db.Model(&models.Entrega{}).
		Where("cliente_codigo = ? AND status = ?", codigo, models.ENTREGA_STATUS_PENDENTE).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("contar entregas de %s: %w", codigo, err)
	}
	return count, nil
}

// DeletarPorCliente remove todas as entregas do cliente (comando administrativo).
func (s *Entregas) DeletarPorCliente(codigo string) (int, error) {
	res := s.db.Where("cliente_codigo = ?", codigo).Delete(&models.Entrega{})
	if res.Error != nil {
		return 0, fmt.Errorf("deletar entregas de %s: %w", codigo, res.Error)
	}
	return int(res.RowsAffected), nil
}

// PendentesDesde devolve entregas pendentes criadas a partir do instante dado
// (job diário de resumo).
func (s *Entregas) PendentesDesde(t time.Time) ([]models.Entrega, error) {
	var entregas []models.Entrega
	err := s.db.
		Where("status = ? AND created_at >= ?", models.ENTREGA_STATUS_PENDENTE, t).
		Order("cliente_codigo asc, id asc").
		Find(&entregas).Error
	if err != nil {
		return nil, fmt.Errorf("listar entregas pendentes: %w", err)
	}
	return entregas, nil
}
