package workers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"entregabot/models"

	"github.com/robfig/cron/v3"
)

// Sweeper é o que os filtros em memória (dedup, spam) expõem pro worker;
// devolve quantas entradas saíram.
type Sweeper interface {
	Sweep() int
}

// EntregaLister é a fatia do store usada pelo resumo diário.
type EntregaLister interface {
	PendentesDesde(t time.Time) ([]models.Entrega, error)
}

// TextSender envia o resumo diário.
type TextSender interface {
	SendText(ctx context.Context, to, text string) (string, error)
}

// Start monta o agendador e dispara os jobs: varredura periódica dos filtros
// em memória e o resumo diário de entregas pendentes. O cron roda no fuso da
// operação pra que "8h" seja 8h local, não UTC.
func Start(loc *time.Location, sweepEvery time.Duration, filtros []Sweeper, entregas EntregaLister, sender TextSender, adminTelefone string) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(loc))

	_, err := c.AddFunc(fmt.Sprintf("@every %s", sweepEvery), func() {
		for _, f := range filtros {
			f.Sweep()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("agendar varredura: %w", err)
	}

	// resumo diário só quando tem destino configurado
	if adminTelefone != "" {
		_, err := c.AddFunc("0 8 * * *", func() {
			enviarResumoDiario(entregas, sender, adminTelefone)
		})
		if err != nil {
			return nil, fmt.Errorf("agendar resumo diário: %w", err)
		}
	}

	c.Start()
	log.Printf("Background jobs started (sweep every %s)", sweepEvery)
	return c, nil
}

func enviarResumoDiario(entregas EntregaLister, sender TextSender, telefone string) {
	desde := time.Now().Add(-24 * time.Hour)

	pendentes, err := entregas.PendentesDesde(desde)
	if err != nil {
		log.Printf("resumo diário: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := sender.SendText(ctx, telefone, formatarResumo(pendentes)); err != nil {
		log.Printf("resumo diário: erro ao enviar: %v", err)
	}
}

func formatarResumo(pendentes []models.Entrega) string {
	if len(pendentes) == 0 {
		return "Resumo diário: nenhuma entrega pendente nas últimas 24h."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Resumo diário: %d entrega(s) pendente(s) nas últimas 24h.\n", len(pendentes))
	for _, e := range pendentes {
		fmt.Fprintf(&b, "- [%s] %s\n", e.ClienteCodigo, e.Endereco)
	}
	return strings.TrimRight(b.String(), "\n")
}
