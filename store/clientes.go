package store

import (
	"fmt"
	"strings"

	"entregabot/models"

	"github.com/jinzhu/gorm"
)

// Clientes é o Customer Registry: empresas e seus telefones autorizados.
// O core só lê daqui; cadastro/remoção acontecem pelos comandos administrativos.
type Clientes struct {
	db *gorm.DB
}

func NewClientes(db *gorm.DB) *Clientes {
	return &Clientes{db: db}
}

// BuscarPorTelefone devolve o cliente dono do telefone, ou nil se o telefone
// não está autorizado em nenhum cliente.
func (s *Clientes) BuscarPorTelefone(telefone string) (*models.Cliente, error) {
	var vinculo models.ClienteTelefone
	err := s.db.Where("telefone = ?", telefone).First(&vinculo).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("buscar telefone %s: %w", telefone, err)
	}

	var cliente models.Cliente
	if err := s.db.Where("codigo = ?", vinculo.ClienteCodigo).First(&cliente).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			// vínculo órfão: trata como não cadastrado
			return nil, nil
		}
		return nil, fmt.Errorf("buscar cliente %s: %w", vinculo.ClienteCodigo, err)
	}
	return &cliente, nil
}

// BuscarPorCodigo devolve o cliente com o codigo informado, ou nil.
func (s *Clientes) BuscarPorCodigo(codigo string) (*models.Cliente, error) {
	codigo = strings.TrimSpace(codigo)
	if codigo == "" {
		return nil, nil
	}
	var cliente models.Cliente
	err := s.db.Where("codigo = ?", codigo).First(&cliente).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("buscar cliente %s: %w", codigo, err)
	}
	return &cliente, nil
}

// ListarTelefones devolve os telefones autorizados do cliente (comando de
// consulta de cadastro).
func (s *Clientes) ListarTelefones(codigo string) ([]string, error) {
	var vinculos []models.ClienteTelefone
	err := s.db.Where("cliente_codigo = ?", codigo).Order("id asc").Find(&vinculos).Error
	if err != nil {
		return nil, fmt.Errorf("listar telefones do cliente %s: %w", codigo, err)
	}

	telefones := make([]string, 0, len(vinculos))
	for _, v := range vinculos {
		telefones = append(telefones, v.Telefone)
	}
	return telefones, nil
}

// Listar devolve todos os clientes cadastrados (comando administrativo).
func (s *Clientes) Listar() ([]models.Cliente, error) {
	var clientes []models.Cliente
	if err := s.db.Order("codigo asc").Find(&clientes).Error; err != nil {
		return nil, fmt.Errorf("listar clientes: %w", err)
	}
	return clientes, nil
}

// Criar cadastra um novo cliente.
func (s *Clientes) Criar(codigo, nome string) error {
	cliente := models.Cliente{Codigo: codigo, Nome: nome}
	if err := s.db.Create(&cliente).Error; err != nil {
		return fmt.Errorf("criar cliente %s: %w", codigo, err)
	}
	return nil
}

// VincularTelefone autoriza um telefone no cliente (idempotente).
func (s *Clientes) VincularTelefone(codigo, telefone string) error {
	var existente models.ClienteTelefone
	err := s.db.Where("cliente_codigo = ? AND telefone = ?", codigo, telefone).
		First(&existente).Error
	if err == nil {
		return nil
	}
	if !gorm.IsRecordNotFoundError(err) {
		return fmt.Errorf("buscar vínculo %s/%s: %w", codigo, telefone, err)
	}
	vinculo := models.ClienteTelefone{ClienteCodigo: codigo, Telefone: telefone}
	if err := s.db.Create(&vinculo).Error; err != nil {
		return fmt.Errorf("vincular telefone %s ao cliente %s: %w", telefone, codigo, err)
	}
	return nil
}

// Deletar remove o cliente e seus vínculos de telefone.
func (s *Clientes) Deletar(codigo string) error {
	tx := s.db.Begin()
	if err := tx.Where("cliente_codigo = ?", codigo).Delete(&models.ClienteTelefone{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("deletar telefones do cliente %s: %w", codigo, err)
	}
	if err := tx.Where("codigo = ?", codigo).Delete(&models.Cliente{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("deletar cliente %s: %w", codigo, err)
	}
	return tx.Commit().Error
}

// RemoverTelefone desautoriza um telefone de todos os clientes.
func (s *Clientes) RemoverTelefone(telefone string) error {
	if err := s.db.Where("telefone = ?", telefone).Delete(&models.ClienteTelefone{}).Error; err != nil {
		return fmt.Errorf("remover telefone %s: %w", telefone, err)
	}
	return nil
}
