package flows

import (
	"context"
	"fmt"
	"log"
	"strings"

	"entregabot/chatbot"
	"entregabot/models"
)

// EtapaWriter é a escrita de etapa que os fluxos fazem por conta própria.
type EtapaWriter interface {
	Set(telefone string, etapa string, codigo *string) error
}

// EntregaStore é a fatia de entregas usada pelo fluxo de empresa e pelos
// comandos administrativos.
type EntregaStore interface {
	Criar(entrega models.Entrega) error
	ListarPorCliente(codigo string) ([]models.Entrega, error)
	ContarPorCliente(codigo string) (int, error)
	DeletarPorCliente(codigo string) (int, error)
}

// Etapas internas do fluxo de empresa.
const etapaEmpresaEndereco = "20"

// Empresa conduz a conversa de telefones vinculados a um cliente: registra
// pedidos de entrega. As transições de etapa daqui pertencem ao fluxo; o core
// só faz o reset de reconciliação.
type Empresa struct {
	Etapas    EtapaWriter
	Entregas  EntregaStore
	Transport chatbot.Sender
}

func (f *Empresa) Handle(ctx context.Context, ev chatbot.InboundEvent, etapa models.Etapa, cliente *models.Cliente, codigo string) error {
	vinculo := codigoVigente(etapa, cliente, codigo)
	if vinculo == "" {
		// sem código utilizável não há o que conduzir; o roteador não deveria
		// ter chegado aqui, então só loga
		log.Printf("empresa: evento de %s sem código vigente", ev.From)
		return nil
	}

	switch etapa.Etapa {
	case etapaEmpresaEndereco:
		entrega := models.Entrega{
			ClienteCodigo: vinculo,
			Telefone:      ev.From,
			Endereco:      strings.TrimSpace(ev.Body),
		}
		if err := f.Entregas.Criar(entrega); err != nil {
			return err
		}
		if err := f.Etapas.Set(ev.From, models.ETAPA_NEUTRA, &vinculo); err != nil {
			return err
		}
		_, err := f.Transport.SendText(ctx, ev.From,
			"Entrega registrada! 🏍️ Para registrar outra, é só enviar uma nova mensagem.")
		return err

	default:
		saudacao := "Olá!"
		if cliente != nil {
			saudacao = fmt.Sprintf("Olá, %s!", cliente.Nome)
		}
		if err := f.Etapas.Set(ev.From, etapaEmpresaEndereco, &vinculo); err != nil {
			return err
		}
		_, err := f.Transport.SendText(ctx, ev.From,
			saudacao+" 😃 Envie o *endereço de entrega* para registrar um novo pedido.")
		return err
	}
}

// codigoVigente escolhe o código que amarra a conversa: o do fluxo em
// andamento, senão o do cadastro do telefone, senão o enviado na mensagem.
func codigoVigente(etapa models.Etapa, cliente *models.Cliente, codigoMsg string) string {
	if etapa.Codigo != nil && *etapa.Codigo != "" {
		return *etapa.Codigo
	}
	if cliente != nil {
		return cliente.Codigo
	}
	return codigoMsg
}
