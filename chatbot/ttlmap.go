package chatbot

import (
	"sync"
	"time"
)

type ttlEntry struct {
	firstSeen time.Time
	count     int
}

// ttlMap é o mapa expirável compartilhado pelo filtro de duplicadas e pelo
// limitador de spam: expiração lazy na consulta + varredura periódica.
// Toda leitura/escrita de uma chave é atômica sob o mutex; dois eventos
// concorrentes com a mesma chave nunca observam os dois "não visto".
type ttlMap[K comparable] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[K]ttlEntry
}

func newTTLMap[K comparable](ttl time.Duration) *ttlMap[K] {
	return &ttlMap[K]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[K]ttlEntry),
	}
}

// seen implementa a semântica do filtro de duplicadas: presente e dentro da
// janela devolve true sem tocar na entrada (o instante original é preservado);
// presente e expirada remove e reinsere com agora; ausente insere com agora.
func (m *ttlMap[K]) seen(key K) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if e, ok := m.entries[key]; ok {
		if now.Sub(e.firstSeen) < m.ttl {
			return true
		}
		delete(m.entries, key)
	}
	m.entries[key] = ttlEntry{firstSeen: now, count: 1}
	return false
}

// touch implementa a semântica do limitador de spam: devolve o contador da
// chave dentro da janela corrente. Primeira ocorrência (ou ocorrência após a
// janela) reinicia em 1 com a janela em agora; dentro da janela só incrementa,
// sem mexer no início da janela.
func (m *ttlMap[K]) touch(key K) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	e, ok := m.entries[key]
	if !ok || now.Sub(e.firstSeen) > m.ttl {
		m.entries[key] = ttlEntry{firstSeen: now, count: 1}
		return 1
	}
	e.count++
	m.entries[key] = e
	return e.count
}

// sweep remove entradas fora da janela; devolve quantas saíram.
func (m *ttlMap[K]) sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, e := range m.entries {
		if now.Sub(e.firstSeen) > m.ttl {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

func (m *ttlMap[K]) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
