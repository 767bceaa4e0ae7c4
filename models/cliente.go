package models

import "time"

// Cliente é uma empresa cadastrada. O vínculo telefone -> cliente é o que
// decide se uma mensagem entra no fluxo de empresa.
type Cliente struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Codigo    string     `gorm:"not null;unique_index" json:"codigo"`
	Nome      string     `gorm:"not null" json:"nome"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// ClienteTelefone associa um telefone (já normalizado) a um cliente.
// Um cliente pode ter vários telefones autorizados.
type ClienteTelefone struct {
	ID            int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	ClienteCodigo string     `gorm:"not null;index" json:"cliente_codigo"`
	Telefone      string     `gorm:"not null;index" json:"telefone"`
	CreatedAt     *time.Time `json:"created_at"`
}
