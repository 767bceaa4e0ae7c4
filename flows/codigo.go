package flows

import (
	"log"
	"regexp"
	"strings"

	"entregabot/models"
)

// ClienteRegistry é a fatia do registry que os fluxos e o parser de código
// consomem.
type ClienteRegistry interface {
	BuscarPorCodigo(codigo string) (*models.Cliente, error)
	VincularTelefone(codigo, telefone string) error
}

var codigoPattern = regexp.MustCompile(`^[0-9]{3,8}$`)

// CodigoParser reconhece um código de empresa enviado na própria mensagem:
// um token numérico que corresponde a um cliente cadastrado.
type CodigoParser struct {
	Clientes ClienteRegistry
}

// Reconhecer devolve o código quando a mensagem é um código de empresa
// válido. Falha de lookup degrada para "não reconhecido".
func (p *CodigoParser) Reconhecer(body string) (string, bool) {
	token := strings.TrimSpace(body)
	if !codigoPattern.MatchString(token) {
		return "", false
	}
	if p.Clientes == nil {
		return "", false
	}
	cliente, err := p.Clientes.BuscarPorCodigo(token)
	if err != nil {
		log.Printf("codigo: erro ao validar código %q: %v", token, err)
		return "", false
	}
	if cliente == nil {
		return "", false
	}
	return cliente.Codigo, true
}
