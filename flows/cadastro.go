package flows

import (
	"context"
	"fmt"
	"strings"

	"entregabot/chatbot"
	"entregabot/models"
)

// Prefixo de registro com código: /registrar/.CODIGO
const prefixoRegistrarCodigo = "/registrar/."
const prefixoRegistrar = "/registrar"

// CadastroHandler trata os comandos de registro. Roda antes do roteamento em
// todo evento com chatbot ativado; mensagens que não são de registro passam
// direto.
type CadastroHandler struct {
	Clientes  ClienteRegistry
	Etapas    EtapaWriter
	Transport chatbot.Sender
}

func (h *CadastroHandler) Handle(ctx context.Context, ev chatbot.InboundEvent, etapa models.Etapa) error {
	body := strings.TrimSpace(ev.Body)

	switch {
	case strings.Contains(body, prefixoRegistrarCodigo):
		codigo := codigoDoComando(body)
		if codigo == "" {
			_, err := h.Transport.SendText(ctx, ev.From,
				"Código não informado. Envie */registrar/.SEUCODIGO* (ex: /registrar/.123456).")
			return err
		}
		cliente, err := h.Clientes.BuscarPorCodigo(codigo)
		if err != nil {
			return fmt.Errorf("validar código %s: %w", codigo, err)
		}
		if cliente == nil {
			_, err := h.Transport.SendText(ctx, ev.From,
				fmt.Sprintf("Código *%s* não encontrado. Confira com a sua empresa e tente novamente.", codigo))
			return err
		}
		if err := h.Clientes.VincularTelefone(cliente.Codigo, ev.From); err != nil {
			return err
		}
		if err := h.Etapas.Set(ev.From, models.ETAPA_NEUTRA, &cliente.Codigo); err != nil {
			return err
		}
		_, err = h.Transport.SendText(ctx, ev.From,
			fmt.Sprintf("Número vinculado à empresa *%s*! 🎉 A partir de agora você usa o atendimento de empresa.", cliente.Nome))
		return err

	case strings.Contains(body, prefixoRegistrar):
		_, err := h.Transport.SendText(ctx, ev.From,
			"Para vincular este número a uma empresa cadastrada, envie */registrar/.SEUCODIGO*.")
		return err
	}

	return nil
}

func codigoDoComando(body string) string {
	idx := strings.Index(body, prefixoRegistrarCodigo)
	resto := body[idx+len(prefixoRegistrarCodigo):]
	campos := strings.Fields(resto)
	if len(campos) == 0 {
		return ""
	}
	return strings.TrimSpace(campos[0])
}
