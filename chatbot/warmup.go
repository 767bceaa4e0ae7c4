package chatbot

import (
	"log"
	"sync"
	"time"
)

const WARMUP_PERIOD = 20 * time.Second
const RECONNECT_BACKOFF = 5 * time.Second

// Motivo de desconexão que NÃO dispara reconexão automática.
const DISCONNECT_LOGOUT = "LOGOUT"

// WarmupGate segura todo o processamento de eventos por um período fixo após
// o transporte ficar pronto, para não responder histórico sincronizado.
// Re-armar (novo ready antes do prazo) reinicia a janela inteira; desconexão
// arma de novo sem prazo até o próximo ready.
type WarmupGate struct {
	mu       sync.Mutex
	armed    bool
	deadline time.Time
	timer    *time.Timer

	warmup  time.Duration
	backoff time.Duration
	now     func() time.Time

	reconnect func()            // agendado no disconnect (exceto logout)
	notify    func(event string) // "warmup_completed" etc.
}

func NewWarmupGate(warmup, backoff time.Duration) *WarmupGate {
	if warmup <= 0 {
		warmup = WARMUP_PERIOD
	}
	if backoff <= 0 {
		backoff = RECONNECT_BACKOFF
	}
	return &WarmupGate{
		armed:   true, // bloqueado até o primeiro ready + warmup
		warmup:  warmup,
		backoff: backoff,
		now:     time.Now,
	}
}

// SetReconnect registra a tentativa de reconexão do transporte.
func (g *WarmupGate) SetReconnect(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reconnect = fn
}

// SetNotify registra o destino das notificações de ciclo de vida (log + página
// de status).
func (g *WarmupGate) SetNotify(fn func(event string)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.notify = fn
}

// OnReady arma o gate e agenda a abertura para daqui a uma janela de warmup.
// Um timer pendente de um ready anterior é cancelado: a janela nunca encurta.
func (g *WarmupGate) OnReady() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.armed = true
	g.deadline = g.now().Add(g.warmup)
	if g.timer != nil {
		g.timer.Stop()
	}
	g.timer = time.AfterFunc(g.warmup, g.open)
	log.Printf("warmup: iniciado (%s); mensagens antigas serão ignoradas", g.warmup)
}

// OnDisconnect arma o gate imediatamente e, fora de logout explícito, agenda
// uma reconexão após o backoff.
func (g *WarmupGate) OnDisconnect(reason string) {
	g.mu.Lock()
	g.armed = true
	g.deadline = time.Time{}
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	reconnect := g.reconnect
	g.mu.Unlock()

	log.Printf("warmup: transporte desconectado (%s)", reason)
	if reason != DISCONNECT_LOGOUT && reconnect != nil {
		log.Printf("warmup: reconectando em %s...", g.backoff)
		time.AfterFunc(g.backoff, reconnect)
	}
}

// CanProcess devolve true quando o gate está aberto. A abertura acontece pelo
// timer ou, com relógio simulado, de forma lazy quando o prazo já passou.
func (g *WarmupGate) CanProcess() bool {
	g.mu.Lock()
	if !g.armed {
		g.mu.Unlock()
		return true
	}
	if !g.deadline.IsZero() && !g.now().Before(g.deadline) {
		g.openLocked()
		g.mu.Unlock()
		return true
	}
	g.mu.Unlock()
	return false
}

func (g *WarmupGate) open() {
	g.mu.Lock()
	g.openLocked()
	g.mu.Unlock()
}

// openLocked abre o gate e emite a notificação uma única vez (quem flipar
// armed primeiro, timer ou caminho lazy, notifica).
func (g *WarmupGate) openLocked() {
	if !g.armed {
		return
	}
	g.armed = false
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	notify := g.notify
	log.Printf("warmup: concluído, bot operacional")
	if notify != nil {
		go notify("warmup_completed")
	}
}
