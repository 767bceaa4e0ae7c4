package tools

import (
	"fmt"
	"strings"
	"unicode"
)

// NormalizeTelefone normaliza um telefone para o formato internacional aceito
// pelo WhatsApp (apenas dígitos, sem '+').
//
// Heurística atual (Brasil):
// - remove tudo que não é dígito
// - 10/11 dígitos (DDD+número) assume BR e prefixa 55
// - já com DDI (>= 12 dígitos) mantém
func NormalizeTelefone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("telefone vazio")
	}

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	telefone := b.String()
	telefone = strings.TrimLeft(telefone, "0")

	if len(telefone) == 10 || len(telefone) == 11 {
		telefone = "55" + telefone
	}

	// validação bem leve: DDI + número
	if len(telefone) < 12 {
		return "", fmt.Errorf("telefone com tamanho inválido: %d", len(telefone))
	}
	return telefone, nil
}
