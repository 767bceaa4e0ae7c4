package chatbot

import (
	"context"
	"log"
	"strings"
)

// ContactResolver é o pedaço do transporte que converte uma identidade
// anônima (@lid) no número real.
type ContactResolver interface {
	ResolveContact(ctx context.Context, senderID string) (string, error)
}

// IdentityResolver normaliza o remetente para o número real e estável usado
// em toda chave de cache, limiter e consulta de etapa dali em diante.
type IdentityResolver struct {
	transport ContactResolver
}

func NewIdentityResolver(transport ContactResolver) *IdentityResolver {
	return &IdentityResolver{transport: transport}
}

// Resolve devolve o número real do remetente. Falha de lookup nunca derruba o
// pipeline: degrada para o id bruto e segue.
func (r *IdentityResolver) Resolve(ctx context.Context, senderID string) string {
	if !strings.Contains(senderID, SUFIXO_LID) {
		return senderID
	}
	if r.transport == nil {
		return senderID
	}

	numeroReal, err := r.transport.ResolveContact(ctx, senderID)
	if err != nil {
		log.Printf("identity: erro ao resolver contato de %s: %v", senderID, err)
		return senderID
	}
	if strings.TrimSpace(numeroReal) == "" {
		return senderID
	}
	log.Printf("identity: convertido LID para número real: %s -> %s", senderID, numeroReal)
	return numeroReal
}
