package chatbot

import "time"

// Janela em que um evento reentregue é tratado como duplicado.
const DEDUP_RETENTION = 5 * time.Minute

// DuplicateFilter suprime reentrega do mesmo evento pelo transporte.
type DuplicateFilter struct {
	cache *ttlMap[string]
}

func NewDuplicateFilter(retention time.Duration) *DuplicateFilter {
	if retention <= 0 {
		retention = DEDUP_RETENTION
	}
	return &DuplicateFilter{cache: newTTLMap[string](retention)}
}

// IsDuplicate devolve true se a chave foi vista dentro da janela de retenção.
// Chamada com chave nova (ou expirada) registra o evento como visto.
func (f *DuplicateFilter) IsDuplicate(eventKey string) bool {
	return f.cache.seen(eventKey)
}

// Sweep remove entradas expiradas; roda na varredura periódica.
func (f *DuplicateFilter) Sweep() int {
	return f.cache.sweep()
}

// Len é o tamanho atual do cache (exposto no /status).
func (f *DuplicateFilter) Len() int {
	return f.cache.len()
}
