package chatbot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// warmup de 1h nos testes: o timer real nunca dispara, a abertura acontece
// pelo caminho lazy com o relógio simulado.
func newTestGate(now *time.Time) *WarmupGate {
	g := NewWarmupGate(time.Hour, time.Hour)
	g.now = func() time.Time { return *now }
	return g
}

func TestWarmupGate_BloqueadoAteOPrimeiroReady(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	g := newTestGate(&now)

	require.False(t, g.CanProcess())

	// tempo passando sem ready não abre nada
	now = now.Add(24 * time.Hour)
	require.False(t, g.CanProcess())
}

func TestWarmupGate_AbreDepoisDaJanela(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	g := newTestGate(&now)

	g.OnReady()
	require.False(t, g.CanProcess())

	now = now.Add(59 * time.Minute)
	require.False(t, g.CanProcess())

	now = now.Add(time.Minute)
	require.True(t, g.CanProcess())
	require.True(t, g.CanProcess())
}

func TestWarmupGate_ReadyReiniciaAJanelaInteira(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	now := base
	g := newTestGate(&now)

	g.OnReady()
	now = base.Add(50 * time.Minute)
	g.OnReady() // novo ready antes do prazo: janela volta do zero

	now = base.Add(70 * time.Minute) // 20min depois do segundo ready
	require.False(t, g.CanProcess())

	now = base.Add(110 * time.Minute)
	require.True(t, g.CanProcess())
}

func TestWarmupGate_DisconnectRearmaSemPrazo(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	g := newTestGate(&now)

	g.OnReady()
	now = now.Add(2 * time.Hour)
	require.True(t, g.CanProcess())

	g.OnDisconnect("NAVIGATION")
	require.False(t, g.CanProcess())

	// sem novo ready fica fechado pra sempre
	now = now.Add(24 * time.Hour)
	require.False(t, g.CanProcess())

	g.OnReady()
	now = now.Add(2 * time.Hour)
	require.True(t, g.CanProcess())
}

func TestWarmupGate_ReconexaoAgendadaForaDeLogout(t *testing.T) {
	t.Parallel()

	g := NewWarmupGate(time.Hour, 5*time.Millisecond)

	reconectou := make(chan struct{}, 1)
	g.SetReconnect(func() { reconectou <- struct{}{} })

	g.OnDisconnect("NAVIGATION")
	select {
	case <-reconectou:
	case <-time.After(2 * time.Second):
		t.Fatal("reconexão não foi agendada após desconexão comum")
	}

	// logout explícito não reconecta
	g.OnDisconnect(DISCONNECT_LOGOUT)
	select {
	case <-reconectou:
		t.Fatal("logout não deveria agendar reconexão")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWarmupGate_NotificaUmaVezPorAbertura(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	g := newTestGate(&now)

	eventos := make(chan string, 4)
	g.SetNotify(func(event string) { eventos <- event })

	g.OnReady()
	now = now.Add(2 * time.Hour)

	require.True(t, g.CanProcess())
	require.True(t, g.CanProcess())
	require.True(t, g.CanProcess())

	select {
	case ev := <-eventos:
		require.Equal(t, "warmup_completed", ev)
	case <-time.After(2 * time.Second):
		t.Fatal("abertura não notificou")
	}

	select {
	case ev := <-eventos:
		t.Fatalf("notificação duplicada: %q", ev)
	case <-time.After(50 * time.Millisecond):
	}
}
