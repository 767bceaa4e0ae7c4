package flows

import (
	"context"
	"fmt"
	"strings"

	"entregabot/chatbot"
	"entregabot/models"
)

// AtivacaoStore liga/desliga o chatbot de um telefone.
type AtivacaoStore interface {
	SetAtivado(telefone string, ativado bool) error
}

// ClienteAdmin é a fatia administrativa do registry.
type ClienteAdmin interface {
	Listar() ([]models.Cliente, error)
	Deletar(codigo string) error
	RemoverTelefone(telefone string) error
}

// CadastroLookup é a fatia de consulta de cadastro do registry.
type CadastroLookup interface {
	BuscarPorCodigo(codigo string) (*models.Cliente, error)
	ListarTelefones(codigo string) ([]string, error)
}

// Comandos administrativos de prefixo fixo. Cada um inspeciona a mensagem e
// devolve handled=false quando o prefixo não bate; rodam em todo evento
// admitido, fora do roteamento de fluxo.

// ListarEntregas responde a "entregas/CODIGO" com a lista e a contagem de
// entregas pendentes do cliente.
type ListarEntregas struct {
	Entregas  EntregaStore
	Transport chatbot.Sender
}

func (c *ListarEntregas) Handle(ctx context.Context, ev chatbot.InboundEvent) (bool, error) {
	body := strings.ToLower(strings.TrimSpace(ev.Body))
	if !strings.HasPrefix(body, "entregas/") {
		return false, nil
	}
	codigo := strings.TrimSpace(strings.TrimPrefix(body, "entregas/"))
	if codigo == "" {
		return false, nil
	}

	entregas, err := c.Entregas.ListarPorCliente(codigo)
	if err != nil {
		return true, err
	}
	if len(entregas) == 0 {
		_, err := c.Transport.SendText(ctx, ev.From,
			fmt.Sprintf("Nenhuma entrega pendente para o cliente *%s*.", codigo))
		return true, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Entregas pendentes do cliente *%s* (%d):\n", codigo, len(entregas))
	for _, e := range entregas {
		fmt.Fprintf(&b, "- #%d %s\n", e.ID, e.Endereco)
	}
	_, err = c.Transport.SendText(ctx, ev.From, b.String())
	return true, err
}

// ContarEntregas responde a "quantidade entregas/CODIGO" só com a contagem.
type ContarEntregas struct {
	Entregas  EntregaStore
	Transport chatbot.Sender
}

func (c *ContarEntregas) Handle(ctx context.Context, ev chatbot.InboundEvent) (bool, error) {
	body := strings.ToLower(strings.TrimSpace(ev.Body))
	if !strings.HasPrefix(body, "quantidade entregas/") {
		return false, nil
	}
	codigo := strings.TrimSpace(strings.TrimPrefix(body, "quantidade entregas/"))
	if codigo == "" {
		return false, nil
	}

	total, err := c.Entregas.ContarPorCliente(codigo)
	if err != nil {
		return true, err
	}
	_, err = c.Transport.SendText(ctx, ev.From,
		fmt.Sprintf("O cliente *%s* tem *%d* entrega(s) pendente(s).", codigo, total))
	return true, err
}

// ListarClientes responde a "listar clientes" com todos os cadastrados.
type ListarClientes struct {
	Clientes  ClienteAdmin
	Transport chatbot.Sender
}

func (c *ListarClientes) Handle(ctx context.Context, ev chatbot.InboundEvent) (bool, error) {
	if strings.ToLower(strings.TrimSpace(ev.Body)) != "listar clientes" {
		return false, nil
	}

	clientes, err := c.Clientes.Listar()
	if err != nil {
		return true, err
	}
	if len(clientes) == 0 {
		_, err := c.Transport.SendText(ctx, ev.From, "Nenhum cliente cadastrado.")
		return true, err
	}

	var b strings.Builder
	b.WriteString("Clientes cadastrados:\n")
	for _, cl := range clientes {
		fmt.Fprintf(&b, "- %s: %s\n", cl.Codigo, cl.Nome)
	}
	_, err = c.Transport.SendText(ctx, ev.From, b.String())
	return true, err
}

// AtivarChatbot religa a lógica de conversa para o remetente ("ativar").
type AtivarChatbot struct {
	Etapas    AtivacaoStore
	Transport chatbot.Sender
}

func (c *AtivarChatbot) Handle(ctx context.Context, ev chatbot.InboundEvent) (bool, error) {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(ev.Body)), "ativar") {
		return false, nil
	}
	if err := c.Etapas.SetAtivado(ev.From, true); err != nil {
		return true, err
	}
	_, err := c.Transport.SendText(ctx, ev.From, "Chatbot *ativado* para este número. ✅")
	return true, err
}

// DesativarChatbot desliga a lógica de conversa para o remetente ("desativar").
type DesativarChatbot struct {
	Etapas    AtivacaoStore
	Transport chatbot.Sender
}

func (c *DesativarChatbot) Handle(ctx context.Context, ev chatbot.InboundEvent) (bool, error) {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(ev.Body)), "desativar") {
		return false, nil
	}
	if err := c.Etapas.SetAtivado(ev.From, false); err != nil {
		return true, err
	}
	_, err := c.Transport.SendText(ctx, ev.From, "Chatbot *desativado* para este número. 🔕")
	return true, err
}

// DeletarEntregas responde a "deletar entregas/CODIGO".
type DeletarEntregas struct {
	Entregas  EntregaStore
	Transport chatbot.Sender
}

func (c *DeletarEntregas) Handle(ctx context.Context, ev chatbot.InboundEvent) (bool, error) {
	body := strings.ToLower(strings.TrimSpace(ev.Body))
	if !strings.HasPrefix(body, "deletar entregas/") {
		return false, nil
	}
	codigo := strings.TrimSpace(strings.TrimPrefix(body, "deletar entregas/"))
	if codigo == "" {
		return false, nil
	}

	removidas, err := c.Entregas.DeletarPorCliente(codigo)
	if err != nil {
		return true, err
	}
	_, err = c.Transport.SendText(ctx, ev.From,
		fmt.Sprintf("Removida(s) *%d* entrega(s) do cliente *%s*.", removidas, codigo))
	return true, err
}

// DeletarCliente responde a "deletar cliente/CODIGO".
type DeletarCliente struct {
	Clientes  ClienteAdmin
	Transport chatbot.Sender
}

func (c *DeletarCliente) Handle(ctx context.Context, ev chatbot.InboundEvent) (bool, error) {
	body := strings.ToLower(strings.TrimSpace(ev.Body))
	if !strings.HasPrefix(body, "deletar cliente/") {
		return false, nil
	}
	codigo := strings.TrimSpace(strings.TrimPrefix(body, "deletar cliente/"))
	if codigo == "" {
		return false, nil
	}

	if err := c.Clientes.Deletar(codigo); err != nil {
		return true, err
	}
	_, err := c.Transport.SendText(ctx, ev.From,
		fmt.Sprintf("Cliente *%s* removido, junto com os telefones vinculados.", codigo))
	return true, err
}

// DadosCadastro responde a "cadastro/CODIGO" com os dados de cadastro da
// empresa: nome, código e os telefones autorizados.
type DadosCadastro struct {
	Clientes  CadastroLookup
	Transport chatbot.Sender
}

func (c *DadosCadastro) Handle(ctx context.Context, ev chatbot.InboundEvent) (bool, error) {
	body := strings.ToLower(strings.TrimSpace(ev.Body))
	if !strings.HasPrefix(body, "cadastro/") {
		return false, nil
	}
	codigo := strings.TrimSpace(strings.TrimPrefix(body, "cadastro/"))
	if codigo == "" {
		return false, nil
	}

	cliente, err := c.Clientes.BuscarPorCodigo(codigo)
	if err != nil {
		return true, err
	}
	if cliente == nil {
		_, err := c.Transport.SendText(ctx, ev.From,
			fmt.Sprintf("Nenhuma empresa cadastrada com o código *%s*.", codigo))
		return true, err
	}

	telefones, err := c.Clientes.ListarTelefones(cliente.Codigo)
	if err != nil {
		return true, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Cadastro da empresa *%s*:\n", cliente.Nome)
	fmt.Fprintf(&b, "Código: %s\n", cliente.Codigo)
	if len(telefones) == 0 {
		b.WriteString("Nenhum telefone vinculado.")
	} else {
		fmt.Fprintf(&b, "Telefones vinculados (%d):\n", len(telefones))
		for _, tel := range telefones {
			fmt.Fprintf(&b, "- %s\n", tel)
		}
	}
	_, err = c.Transport.SendText(ctx, ev.From, strings.TrimRight(b.String(), "\n"))
	return true, err
}

// ExcluirNumero desautoriza o próprio remetente de todos os clientes
// ("excluir numero").
type ExcluirNumero struct {
	Clientes  ClienteAdmin
	Transport chatbot.Sender
}

func (c *ExcluirNumero) Handle(ctx context.Context, ev chatbot.InboundEvent) (bool, error) {
	if strings.ToLower(strings.TrimSpace(ev.Body)) != "excluir numero" {
		return false, nil
	}
	if err := c.Clientes.RemoverTelefone(ev.From); err != nil {
		return true, err
	}
	_, err := c.Transport.SendText(ctx, ev.From,
		"Este número foi desvinculado de todos os clientes.")
	return true, err
}
