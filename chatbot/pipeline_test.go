package chatbot

import (
	"context"
	"sync"
	"testing"
	"time"

	"entregabot/models"

	"github.com/stretchr/testify/require"
)

type setEtapa struct {
	telefone string
	etapa    string
	codigo   *string
}

type fakeEtapas struct {
	mu    sync.Mutex
	getFn func(telefone string) (models.Etapa, error)
	gets  int
	sets  []setEtapa
}

func (f *fakeEtapas) Get(telefone string) (models.Etapa, error) {
	f.mu.Lock()
	f.gets++
	fn := f.getFn
	f.mu.Unlock()
	if fn != nil {
		return fn(telefone)
	}
	return models.NovaEtapaNeutra(telefone), nil
}

func (f *fakeEtapas) Set(telefone string, etapa string, codigo *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets = append(f.sets, setEtapa{telefone: telefone, etapa: etapa, codigo: codigo})
	return nil
}

type fakeClientes struct {
	mu       sync.Mutex
	buscarFn func(telefone string) (*models.Cliente, error)
	buscas   int
}

func (f *fakeClientes) BuscarPorTelefone(telefone string) (*models.Cliente, error) {
	f.mu.Lock()
	f.buscas++
	fn := f.buscarFn
	f.mu.Unlock()
	if fn != nil {
		return fn(telefone)
	}
	return nil, nil
}

type textoEnviado struct {
	to, text string
}

type fakeSender struct {
	mu       sync.Mutex
	enviados []textoEnviado
}

func (f *fakeSender) SendText(_ context.Context, to, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enviados = append(f.enviados, textoEnviado{to: to, text: text})
	return "wamid.fake", nil
}

type chamadaFluxo struct {
	ev      InboundEvent
	etapa   models.Etapa
	cliente *models.Cliente
	codigo  string
}

type fakeEmpresa struct {
	chamadas []chamadaFluxo
}

func (f *fakeEmpresa) Handle(_ context.Context, ev InboundEvent, etapa models.Etapa, cliente *models.Cliente, codigo string) error {
	f.chamadas = append(f.chamadas, chamadaFluxo{ev: ev, etapa: etapa, cliente: cliente, codigo: codigo})
	return nil
}

type fakeFisica struct {
	chamadas []chamadaFluxo
}

func (f *fakeFisica) Handle(_ context.Context, ev InboundEvent, etapa models.Etapa, cliente *models.Cliente) error {
	f.chamadas = append(f.chamadas, chamadaFluxo{ev: ev, etapa: etapa, cliente: cliente})
	return nil
}

type fakeCadastro struct {
	chamadas int
}

func (f *fakeCadastro) Handle(context.Context, InboundEvent, models.Etapa) error {
	f.chamadas++
	return nil
}

type fakeComando struct {
	handleFn func(ev InboundEvent) (bool, error)
	chamadas int
}

func (f *fakeComando) Handle(_ context.Context, ev InboundEvent) (bool, error) {
	f.chamadas++
	if f.handleFn != nil {
		return f.handleFn(ev)
	}
	return false, nil
}

type registroMensagem struct {
	telefone, messageID, texto, fluxo string
}

type fakeMensagens struct {
	registros []registroMensagem
}

func (f *fakeMensagens) Registrar(telefone, messageID, texto, fluxo string) error {
	f.registros = append(f.registros, registroMensagem{telefone, messageID, texto, fluxo})
	return nil
}

type codigoFixo struct {
	codigo string
}

func (c codigoFixo) Reconhecer(body string) (string, bool) {
	if c.codigo != "" && body == c.codigo {
		return c.codigo, true
	}
	return "", false
}

// fixture com o bot operacional às 10h00 (dentro do horário).
type pipelineFixture struct {
	p *Pipeline

	now time.Time

	etapas    *fakeEtapas
	clientes  *fakeClientes
	sender    *fakeSender
	empresa   *fakeEmpresa
	fisica    *fakeFisica
	cadastro  *fakeCadastro
	mensagens *fakeMensagens
}

func newPipelineFixture() *pipelineFixture {
	f := &pipelineFixture{
		now:       time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
		etapas:    &fakeEtapas{},
		clientes:  &fakeClientes{},
		sender:    &fakeSender{},
		empresa:   &fakeEmpresa{},
		fisica:    &fakeFisica{},
		cadastro:  &fakeCadastro{},
		mensagens: &fakeMensagens{},
	}

	horario := NewHorarioComercial(9, 30, 23, time.UTC)
	horario.now = func() time.Time { return f.now }

	warmup := NewWarmupGate(time.Hour, time.Hour)
	warmup.armed = false // warmup já concluído

	f.p = &Pipeline{
		Dedup:    NewDuplicateFilter(5 * time.Minute),
		Spam:     NewSpamLimiter(5*time.Minute, 5),
		Warmup:   warmup,
		Horario:  horario,
		Identity: NewIdentityResolver(nil),

		Etapas:   f.etapas,
		Clientes: f.clientes,
		Codigos:  codigoFixo{},

		Transport: f.sender,
		Empresa:   f.empresa,
		Fisica:    f.fisica,
		Cadastro:  f.cadastro,
		Mensagens: f.mensagens,
	}
	return f
}

func evento(id, body string) InboundEvent {
	return InboundEvent{
		From:      "5511999990000",
		ID:        id,
		Timestamp: 1700000000,
		Body:      body,
		Type:      "chat",
	}
}

func TestPipeline_FluxoFisicaDePontaAPonta(t *testing.T) {
	t.Parallel()
	f := newPipelineFixture()

	err := f.p.HandleMessage(context.Background(), evento("wamid.1", "Oi"))
	require.NoError(t, err)

	require.Len(t, f.fisica.chamadas, 1)
	require.Equal(t, "5511999990000", f.fisica.chamadas[0].ev.From)
	require.Empty(t, f.empresa.chamadas)
	require.Equal(t, 1, f.cadastro.chamadas)

	require.Len(t, f.mensagens.registros, 1)
	require.Equal(t, models.FLUXO_FISICA, f.mensagens.registros[0].fluxo)
	require.Equal(t, "wamid.1", f.mensagens.registros[0].messageID)
}

func TestPipeline_StatusBroadcastNaoTocaEmNada(t *testing.T) {
	t.Parallel()
	f := newPipelineFixture()

	ev := evento("wamid.1", "qualquer coisa")
	ev.From = STATUS_BROADCAST

	require.NoError(t, f.p.HandleMessage(context.Background(), ev))
	require.Equal(t, 0, f.etapas.gets)
	require.Equal(t, 0, f.clientes.buscas)
	require.Empty(t, f.mensagens.registros)
}

func TestPipeline_DuplicadaDescartadaAntesDosLookups(t *testing.T) {
	t.Parallel()
	f := newPipelineFixture()

	require.NoError(t, f.p.HandleMessage(context.Background(), evento("wamid.1", "Oi")))
	require.NoError(t, f.p.HandleMessage(context.Background(), evento("wamid.1", "Oi")))

	require.Equal(t, 1, f.etapas.gets)
	require.Equal(t, 1, f.clientes.buscas)
	require.Len(t, f.fisica.chamadas, 1)
	require.Len(t, f.mensagens.registros, 1)
}

func TestPipeline_RevogadaEVaziaDescartadas(t *testing.T) {
	t.Parallel()
	f := newPipelineFixture()

	revogada := evento("wamid.1", "apaguei")
	revogada.Type = TIPO_REVOKED
	require.NoError(t, f.p.HandleMessage(context.Background(), revogada))

	require.NoError(t, f.p.HandleMessage(context.Background(), evento("wamid.2", "   ")))

	require.Equal(t, 0, f.etapas.gets)
	require.Empty(t, f.fisica.chamadas)
}

func TestPipeline_WarmupSeguraTudo(t *testing.T) {
	t.Parallel()
	f := newPipelineFixture()
	f.p.Warmup.armed = true // de volta ao aquecimento

	require.NoError(t, f.p.HandleMessage(context.Background(), evento("wamid.1", "Oi")))
	require.Equal(t, 0, f.etapas.gets)
	require.Empty(t, f.fisica.chamadas)
}

func TestPipeline_SpamBloqueiaAPartirDoLimite(t *testing.T) {
	t.Parallel()
	f := newPipelineFixture()

	for i := 0; i < 5; i++ {
		ev := evento("", "compre agora")
		ev.Timestamp = int64(1700000000 + i) // chaves de dedup distintas
		require.NoError(t, f.p.HandleMessage(context.Background(), ev))
	}

	// a quinta repetição idêntica é bloqueada antes do roteamento
	require.Len(t, f.fisica.chamadas, 4)
	require.Len(t, f.mensagens.registros, 4)
}

func TestPipeline_IdentidadeResolvidaAntesDosLookups(t *testing.T) {
	t.Parallel()
	f := newPipelineFixture()
	f.p.Identity = NewIdentityResolver(&fakeContactResolver{
		resolveFn: func(context.Context, string) (string, error) {
			return "5511999990000", nil
		},
	})

	var consultado string
	f.etapas.getFn = func(telefone string) (models.Etapa, error) {
		consultado = telefone
		return models.NovaEtapaNeutra(telefone), nil
	}

	ev := evento("wamid.1", "Oi")
	ev.From = "9876@lid"
	require.NoError(t, f.p.HandleMessage(context.Background(), ev))

	require.Equal(t, "5511999990000", consultado)
	require.Len(t, f.fisica.chamadas, 1)
	require.Equal(t, "5511999990000", f.fisica.chamadas[0].ev.From)
	require.Equal(t, "5511999990000", f.mensagens.registros[0].telefone)
}

func TestPipeline_ReconciliacaoResetaParaFisica(t *testing.T) {
	t.Parallel()
	f := newPipelineFixture()

	codigo := "123456"
	f.etapas.getFn = func(telefone string) (models.Etapa, error) {
		return models.Etapa{Telefone: telefone, Etapa: models.ETAPA_NEUTRA, Codigo: &codigo, Ativado: true}, nil
	}
	// cliente não está mais cadastrado e a mensagem não traz código

	require.NoError(t, f.p.HandleMessage(context.Background(), evento("wamid.1", "Oi")))

	require.Len(t, f.etapas.sets, 1)
	require.Equal(t, models.ETAPA_NEUTRA, f.etapas.sets[0].etapa)
	require.Nil(t, f.etapas.sets[0].codigo)

	// o roteamento vê a etapa já reconciliada: física, não empresa
	require.Empty(t, f.empresa.chamadas)
	require.Len(t, f.fisica.chamadas, 1)
	require.Nil(t, f.fisica.chamadas[0].etapa.Codigo)
}

func TestPipeline_EtapaProtegidaNaoSofreReset(t *testing.T) {
	t.Parallel()
	f := newPipelineFixture()

	codigo := "123456"
	f.etapas.getFn = func(telefone string) (models.Etapa, error) {
		return models.Etapa{Telefone: telefone, Etapa: "20", Codigo: &codigo, Ativado: true}, nil
	}

	require.NoError(t, f.p.HandleMessage(context.Background(), evento("wamid.1", "rua das flores, 10")))

	require.Empty(t, f.etapas.sets)
	require.Len(t, f.empresa.chamadas, 1)
	require.Empty(t, f.fisica.chamadas)
}

func TestPipeline_EmpresaDentroDoHorario(t *testing.T) {
	t.Parallel()
	f := newPipelineFixture()

	cliente := &models.Cliente{Codigo: "123456", Nome: "Mercado Central"}
	f.clientes.buscarFn = func(string) (*models.Cliente, error) { return cliente, nil }

	require.NoError(t, f.p.HandleMessage(context.Background(), evento("wamid.1", "Oi")))

	require.Len(t, f.empresa.chamadas, 1)
	require.Equal(t, cliente, f.empresa.chamadas[0].cliente)
	require.Empty(t, f.fisica.chamadas)
	require.Equal(t, models.FLUXO_EMPRESA, f.mensagens.registros[0].fluxo)
}

func TestPipeline_ForaDoHorarioEnviaAviso(t *testing.T) {
	t.Parallel()
	f := newPipelineFixture()
	f.now = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC) // antes da abertura

	require.NoError(t, f.p.HandleMessage(context.Background(), evento("wamid.1", "Oi")))

	require.Empty(t, f.fisica.chamadas)
	require.Len(t, f.sender.enviados, 1)
	require.Equal(t, "5511999990000", f.sender.enviados[0].to)
	require.Equal(t, avisoAntesAbertura, f.sender.enviados[0].text)

	// a mensagem ainda entra na trilha, com o fluxo que teria sido chamado
	require.Equal(t, models.FLUXO_FISICA, f.mensagens.registros[0].fluxo)
}

func TestPipeline_AvisoPosFechamentoDependeDoFluxo(t *testing.T) {
	t.Parallel()
	f := newPipelineFixture()
	f.now = time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)

	cliente := &models.Cliente{Codigo: "123456", Nome: "Mercado Central"}
	f.clientes.buscarFn = func(string) (*models.Cliente, error) { return cliente, nil }

	require.NoError(t, f.p.HandleMessage(context.Background(), evento("wamid.1", "Oi")))

	require.Len(t, f.sender.enviados, 1)
	require.Equal(t, avisoAposFechamentoEmpresa, f.sender.enviados[0].text)
}

func TestPipeline_RegistroNaoEntraNoFluxoFisica(t *testing.T) {
	t.Parallel()
	f := newPipelineFixture()

	require.NoError(t, f.p.HandleMessage(context.Background(), evento("wamid.1", "/registrar/.123456")))

	// o colaborador de cadastro cuida do comando; física não é chamada
	require.Equal(t, 1, f.cadastro.chamadas)
	require.Empty(t, f.fisica.chamadas)
	require.Equal(t, models.FLUXO_FISICA, f.mensagens.registros[0].fluxo)
}

func TestPipeline_DesativadoSoRodaComandos(t *testing.T) {
	t.Parallel()
	f := newPipelineFixture()

	f.etapas.getFn = func(telefone string) (models.Etapa, error) {
		return models.Etapa{Telefone: telefone, Etapa: models.ETAPA_NEUTRA, Ativado: false}, nil
	}
	cmd := &fakeComando{}
	f.p.Comandos = []Comando{cmd}

	require.NoError(t, f.p.HandleMessage(context.Background(), evento("wamid.1", "ativar")))

	require.Equal(t, 0, f.cadastro.chamadas)
	require.Empty(t, f.fisica.chamadas)
	require.Empty(t, f.empresa.chamadas)
	require.Equal(t, 1, cmd.chamadas)
	require.Equal(t, models.FLUXO_NENHUM, f.mensagens.registros[0].fluxo)
}

func TestPipeline_CodigoReconhecidoEntraEmEmpresa(t *testing.T) {
	t.Parallel()
	f := newPipelineFixture()
	f.p.Codigos = codigoFixo{codigo: "123456"}

	require.NoError(t, f.p.HandleMessage(context.Background(), evento("wamid.1", "123456")))

	require.Len(t, f.empresa.chamadas, 1)
	require.Equal(t, "123456", f.empresa.chamadas[0].codigo)
	require.Empty(t, f.fisica.chamadas)
}
