package chatbot

import (
	"fmt"
	"strings"
	"time"
)

const SPAM_TIME_WINDOW = 5 * time.Minute
const SPAM_BLOCK_THRESHOLD = 5

// SpamLimiter bloqueia conteúdo idêntico repetido pelo mesmo remetente dentro
// de uma janela móvel. O contador segue incrementando depois do bloqueio; só a
// passagem da janela reinicia.
type SpamLimiter struct {
	cache     *ttlMap[string]
	threshold int
}

func NewSpamLimiter(window time.Duration, threshold int) *SpamLimiter {
	if window <= 0 {
		window = SPAM_TIME_WINDOW
	}
	if threshold <= 0 {
		threshold = SPAM_BLOCK_THRESHOLD
	}
	return &SpamLimiter{cache: newTTLMap[string](window), threshold: threshold}
}

// ShouldBlock devolve true a partir da ocorrência que atinge o limite.
// A chave usa a identidade já resolvida, nunca o id bruto do transporte.
func (l *SpamLimiter) ShouldBlock(telefone, texto string) bool {
	key := fmt.Sprintf("%s:%s", telefone, strings.ToLower(strings.TrimSpace(texto)))
	return l.cache.touch(key) >= l.threshold
}

// Sweep remove janelas já encerradas; roda na varredura periódica.
func (l *SpamLimiter) Sweep() int {
	return l.cache.sweep()
}

func (l *SpamLimiter) Len() int {
	return l.cache.len()
}
