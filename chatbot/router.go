package chatbot

import (
	"strings"

	"entregabot/models"
)

// Etapas em que um cadastro está em andamento; nunca sofrem reset de
// reconciliação mesmo que o telefone não esteja mais autorizado.
var etapasDeCadastro = map[string]bool{
	"1": true, "2": true, "3": true, "4": true,
	"5": true, "6": true, "7": true, "8": true,
	"10": true, "11": true,
	"20": true, "21": true, "22": true, "23": true, "24": true,
}

// EtapaDeCadastro diz se a etapa é um passo protegido de cadastro.
func EtapaDeCadastro(etapa string) bool {
	return etapasDeCadastro[etapa]
}

// Comandos administrativos reconhecidos por prefixo/conteúdo literal; nunca
// entram em nenhum fluxo de conversa.
func consultaEntregas(body string) bool {
	return strings.Contains(strings.ToLower(body), "entregas/")
}

func comandoAtivar(body string) bool {
	return strings.HasPrefix(strings.ToLower(body), "ativar")
}

func comandoDesativar(body string) bool {
	return strings.HasPrefix(strings.ToLower(body), "desativar")
}

// ComandoRegistrar diz se a mensagem é um comando/código de cadastro; esses
// são tratados pelo colaborador de cadastro, não pelo fluxo de pessoa física.
func ComandoRegistrar(body string) bool {
	return strings.Contains(body, "/registrar")
}

// RoutingInput reúne o que o roteador precisa: etapa já reconciliada,
// resultado da busca de cliente e o conteúdo bruto da mensagem.
type RoutingInput struct {
	Etapa             models.Etapa
	Cliente           *models.Cliente
	CodigoReconhecido bool
	Body              string
}

// RouteFluxo classifica o evento em exatamente um destino.
//
// Empresa quando o telefone já está em fluxo de empresa (codigo preenchido),
// ou está cadastrado em algum cliente, ou a mensagem traz um código válido —
// desde que a mensagem não seja um comando administrativo. Pessoa física
// quando não há cliente e a mensagem não é consulta de entregas. O resto é
// no-op (os comandos administrativos rodam fora do roteamento).
func RouteFluxo(in RoutingInput) string {
	if !in.Etapa.Ativado {
		return models.FLUXO_NENHUM
	}

	emFluxoEmpresa := in.Etapa.Codigo != nil
	listagem := consultaEntregas(in.Body)

	if (emFluxoEmpresa || in.Cliente != nil || in.CodigoReconhecido) &&
		!listagem && !comandoAtivar(in.Body) && !comandoDesativar(in.Body) {
		return models.FLUXO_EMPRESA
	}

	if in.Cliente == nil && !listagem {
		return models.FLUXO_FISICA
	}

	return models.FLUXO_NENHUM
}
