package chatbot

import (
	"context"
	"log"
	"strings"
	"sync"

	"entregabot/models"
)

// EtapaStore é o Session Store visto pelo core. Get devolve etapa neutra
// padrão para telefone sem registro; Set é a única escrita que o core faz
// (reset de reconciliação) — as demais transições pertencem aos fluxos.
type EtapaStore interface {
	Get(telefone string) (models.Etapa, error)
	Set(telefone string, etapa string, codigo *string) error
}

// ClienteStore é o Customer Registry; somente leitura aqui.
type ClienteStore interface {
	BuscarPorTelefone(telefone string) (*models.Cliente, error)
}

// CodeParser decide se a mensagem traz um código de empresa reconhecido.
// A forma exata do código é assunto do colaborador; para o core é um
// predicado opaco.
type CodeParser interface {
	Reconhecer(body string) (codigo string, ok bool)
}

// Sender é o pedaço do transporte que envia texto.
type Sender interface {
	SendText(ctx context.Context, to, text string) (string, error)
}

// FluxoEmpresa conduz a conversa de telefones de empresa.
type FluxoEmpresa interface {
	Handle(ctx context.Context, ev InboundEvent, etapa models.Etapa, cliente *models.Cliente, codigo string) error
}

// FluxoFisica conduz a conversa de pessoa física.
type FluxoFisica interface {
	Handle(ctx context.Context, ev InboundEvent, etapa models.Etapa, cliente *models.Cliente) error
}

// Cadastro trata comandos/códigos de registro; roda antes do roteamento
// sempre que o chatbot está ativado para o telefone.
type Cadastro interface {
	Handle(ctx context.Context, ev InboundEvent, etapa models.Etapa) error
}

// Comando é um comando administrativo de prefixo fixo; roda em todo evento
// admitido, independente do fluxo escolhido.
type Comando interface {
	Handle(ctx context.Context, ev InboundEvent) (handled bool, err error)
}

// MensagemLog registra a trilha de mensagens roteadas.
type MensagemLog interface {
	Registrar(telefone, messageID, texto, fluxo string) error
}

// Pipeline é o núcleo de admissão e roteamento. A ordem por evento:
// status -> duplicada -> revogada -> warmup -> vazia -> identidade -> spam ->
// etapa+cliente -> reconciliação -> roteamento (com horário) -> despacho.
// Eventos distintos podem estar em voo ao mesmo tempo; o estado compartilhado
// (dedup, spam, warmup) é seguro para isso.
type Pipeline struct {
	Dedup    *DuplicateFilter
	Spam     *SpamLimiter
	Warmup   *WarmupGate
	Horario  *HorarioComercial
	Identity *IdentityResolver

	Etapas   EtapaStore
	Clientes ClienteStore
	Codigos  CodeParser

	Transport Sender
	Empresa   FluxoEmpresa
	Fisica    FluxoFisica
	Cadastro  Cadastro
	Comandos  []Comando
	Mensagens MensagemLog
}

// HandleMessage processa um evento inbound do começo ao fim. Drops de
// admissão não são erros; falha de despacho do fluxo escolhido é logada e
// devolvida ao chamador sem corromper os mapas já atualizados.
func (p *Pipeline) HandleMessage(ctx context.Context, ev InboundEvent) error {
	log.Printf("mensagem recebida: %s - %q", ev.From, ev.Body)

	// 1. status do WhatsApp
	if ev.From == STATUS_BROADCAST {
		log.Printf("status do WhatsApp ignorado")
		return nil
	}

	// 2. duplicada (evita reentrega pelo transporte)
	eventKey := ev.EventKey()
	if p.Dedup.IsDuplicate(eventKey) {
		log.Printf("mensagem duplicada ignorada: %s - ID: %s", ev.From, eventKey)
		return nil
	}

	// 3. revogada
	if ev.Type == TIPO_REVOKED {
		log.Printf("mensagem revogada ignorada: %s", ev.From)
		return nil
	}

	// 4. warmup: antes de qualquer lookup externo
	if !p.Warmup.CanProcess() {
		log.Printf("warmup: mensagem ignorada durante aquecimento de %s: %q", ev.From, ev.Body)
		return nil
	}

	// 5. vazia
	if strings.TrimSpace(ev.Body) == "" {
		log.Printf("mensagem vazia ignorada de %s", ev.From)
		return nil
	}

	// Identidade real; daqui em diante todo lookup usa numeroReal.
	numeroReal := p.Identity.Resolve(ctx, ev.From)
	ev.From = numeroReal

	if p.Spam.ShouldBlock(numeroReal, ev.Body) {
		log.Printf("mensagem bloqueada de %s: %q", numeroReal, ev.Body)
		return nil
	}

	// Etapa e cliente são duas leituras independentes; ambas aguardadas antes
	// da decisão. Falha em qualquer uma degrada para o default seguro.
	var (
		wg      sync.WaitGroup
		etapa   models.Etapa
		cliente *models.Cliente
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		e, err := p.Etapas.Get(numeroReal)
		if err != nil {
			log.Printf("pipeline: erro ao buscar etapa de %s: %v", numeroReal, err)
			e = models.NovaEtapaNeutra(numeroReal)
		}
		etapa = e
	}()
	go func() {
		defer wg.Done()
		c, err := p.Clientes.BuscarPorTelefone(numeroReal)
		if err != nil {
			log.Printf("pipeline: erro ao buscar cliente de %s: %v", numeroReal, err)
			c = nil
		}
		cliente = c
	}()
	wg.Wait()

	codigoMsg := ""
	temCodigo := false
	if p.Codigos != nil {
		codigoMsg, temCodigo = p.Codigos.Reconhecer(ev.Body)
	}

	// Reconciliação: em fluxo de empresa mas sem cadastro vigente, sem código
	// válido na mensagem e fora das etapas de cadastro -> reset para pessoa
	// física. O roteamento vê a etapa já reconciliada.
	if etapa.Codigo != nil && cliente == nil && !temCodigo && !EtapaDeCadastro(etapa.Etapa) {
		log.Printf("número %s não está mais autorizado, resetando para pessoa física", numeroReal)
		if err := p.Etapas.Set(numeroReal, models.ETAPA_NEUTRA, nil); err != nil {
			log.Printf("pipeline: erro ao resetar etapa de %s: %v", numeroReal, err)
		}
		etapa.Etapa = models.ETAPA_NEUTRA
		etapa.Codigo = nil
	}

	var dispatchErr error
	fluxo := models.FLUXO_NENHUM

	if etapa.Ativado {
		// Colaborador de cadastro roda antes do roteamento.
		if p.Cadastro != nil {
			if err := p.Cadastro.Handle(ctx, ev, etapa); err != nil {
				log.Printf("pipeline: erro no cadastro para %s: %v", numeroReal, err)
				dispatchErr = err
			}
		}

		fluxo = RouteFluxo(RoutingInput{
			Etapa:             etapa,
			Cliente:           cliente,
			CodigoReconhecido: temCodigo,
			Body:              ev.Body,
		})

		switch fluxo {
		case models.FLUXO_EMPRESA:
			h, m := p.Horario.Agora()
			if p.Horario.IsOpen(h, m) {
				log.Printf("fluxo empresa: processando mensagem de %s", numeroReal)
				if err := p.Empresa.Handle(ctx, ev, etapa, cliente, codigoMsg); err != nil {
					log.Printf("pipeline: erro no fluxo empresa para %s: %v", numeroReal, err)
					dispatchErr = err
				}
			} else {
				dispatchErr = p.enviarAviso(ctx, numeroReal, h, m, fluxo)
			}

		case models.FLUXO_FISICA:
			h, m := p.Horario.Agora()
			if p.Horario.IsOpen(h, m) {
				// Comandos de registro são do colaborador de cadastro; não
				// passam pelo fluxo de pessoa física.
				if !ComandoRegistrar(ev.Body) {
					log.Printf("fluxo pessoa física: processando mensagem de %s", numeroReal)
					if err := p.Fisica.Handle(ctx, ev, etapa, cliente); err != nil {
						log.Printf("pipeline: erro no fluxo física para %s: %v", numeroReal, err)
						dispatchErr = err
					}
				}
			} else {
				dispatchErr = p.enviarAviso(ctx, numeroReal, h, m, fluxo)
			}
		}
	}

	if p.Mensagens != nil {
		if err := p.Mensagens.Registrar(numeroReal, ev.ID, ev.Body, fluxo); err != nil {
			log.Printf("pipeline: erro ao registrar mensagem de %s: %v", numeroReal, err)
		}
	}

	// Comandos administrativos rodam em todo evento admitido.
	for _, cmd := range p.Comandos {
		if _, err := cmd.Handle(ctx, ev); err != nil {
			log.Printf("pipeline: erro em comando administrativo para %s: %v", numeroReal, err)
			if dispatchErr == nil {
				dispatchErr = err
			}
		}
	}

	return dispatchErr
}

func (p *Pipeline) enviarAviso(ctx context.Context, numeroReal string, h, m int, fluxo string) error {
	log.Printf("bot inativo (%02d:%02d) - enviando aviso de horário para %s", h, m, numeroReal)
	aviso := p.Horario.Aviso(h, m, fluxo)
	if _, err := p.Transport.SendText(ctx, numeroReal, aviso); err != nil {
		log.Printf("pipeline: erro ao enviar aviso de horário para %s: %v", numeroReal, err)
		return err
	}
	return nil
}
