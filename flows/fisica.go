package flows

import (
	"context"

	"entregabot/chatbot"
	"entregabot/models"
)

const etapaFisicaMenu = "30"

// Fisica conduz a conversa de telefones sem vínculo com cliente.
type Fisica struct {
	Etapas    EtapaWriter
	Transport chatbot.Sender
}

func (f *Fisica) Handle(ctx context.Context, ev chatbot.InboundEvent, etapa models.Etapa, cliente *models.Cliente) error {
	switch etapa.Etapa {
	case etapaFisicaMenu:
		// já viu o menu; volta ao neutro e reapresenta na próxima
		if err := f.Etapas.Set(ev.From, models.ETAPA_NEUTRA, nil); err != nil {
			return err
		}
		_, err := f.Transport.SendText(ctx, ev.From,
			"Se a sua empresa já possui um código, envie */registrar/.SEUCODIGO* para vincular este número. Qualquer dúvida é só chamar! 😃")
		return err

	default:
		if err := f.Etapas.Set(ev.From, etapaFisicaMenu, nil); err != nil {
			return err
		}
		_, err := f.Transport.SendText(ctx, ev.From,
			`Olá! 😃 Este é o atendimento de entregas.

Se você representa uma empresa cadastrada, envie o *código* dela para entrar no atendimento de empresa.
Para vincular este número a uma empresa, envie */registrar*.`)
		return err
	}
}
