package chatbot

import (
	"testing"
	"time"

	"entregabot/models"
)

func TestHorarioComercial_IsOpen(t *testing.T) {
	t.Parallel()

	h := NewHorarioComercial(9, 30, 23, time.UTC)

	casos := []struct {
		hora, minuto int
		aberto       bool
	}{
		{0, 0, false},
		{8, 59, false},
		{9, 0, false},
		{9, 29, false},
		{9, 30, true}, // abertura inclusive
		{10, 0, true},
		{15, 45, true},
		{22, 59, true},
		{23, 0, false}, // fechamento exclusive
		{23, 30, false},
	}

	for _, c := range casos {
		if got := h.IsOpen(c.hora, c.minuto); got != c.aberto {
			t.Errorf("IsOpen(%02d:%02d) = %v, esperado %v", c.hora, c.minuto, got, c.aberto)
		}
	}
}

func TestHorarioComercial_Aviso(t *testing.T) {
	t.Parallel()

	h := NewHorarioComercial(9, 30, 23, time.UTC)

	// madrugada/manhã cedo: mesmo texto para os dois fluxos
	if h.Aviso(8, 0, models.FLUXO_EMPRESA) != avisoAntesAbertura {
		t.Error("antes da abertura deveria usar o aviso de abertura")
	}
	if h.Aviso(9, 29, models.FLUXO_FISICA) != avisoAntesAbertura {
		t.Error("9h29 ainda é antes da abertura")
	}

	// depois do fechamento o texto depende do fluxo
	empresa := h.Aviso(23, 15, models.FLUXO_EMPRESA)
	fisica := h.Aviso(23, 15, models.FLUXO_FISICA)
	if empresa != avisoAposFechamentoEmpresa {
		t.Error("empresa fora de horário deveria receber o aviso de empresa")
	}
	if fisica != avisoAposFechamentoFisica {
		t.Error("física fora de horário deveria receber o aviso de física")
	}
	if empresa == fisica {
		t.Error("avisos pós-fechamento deveriam diferir por fluxo")
	}
}

func TestHorarioComercial_AgoraNoFuso(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("BRT", -3*60*60)
	h := NewHorarioComercial(9, 30, 23, loc)
	h.now = func() time.Time {
		return time.Date(2025, 3, 10, 13, 15, 0, 0, time.UTC) // 10h15 em BRT
	}

	hora, minuto := h.Agora()
	if hora != 10 || minuto != 15 {
		t.Fatalf("Agora() = %02d:%02d, esperado 10:15", hora, minuto)
	}
}
