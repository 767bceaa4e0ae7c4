package transport

import "context"

// Chat é uma conversa visível para a conta conectada.
type Chat struct {
	ID      string
	Name    string
	IsGroup bool
}

// Client é o contrato do transporte de mensagens consumido pelo core e pelos
// endpoints HTTP. O ciclo de vida (ready/disconnected) é entregue via
// callbacks registrados em SetLifecycle.
type Client interface {
	// ResolveContact converte um remetente anônimo (@lid) no número real.
	ResolveContact(ctx context.Context, senderID string) (string, error)

	// SendText envia texto e devolve o id da mensagem enviada.
	SendText(ctx context.Context, to, text string) (string, error)

	// GetChats lista as conversas da conta (usado para achar grupo por nome).
	GetChats(ctx context.Context) ([]Chat, error)

	// Initialize conecta/valida credenciais e dispara o callback de ready.
	Initialize(ctx context.Context) error

	// IsReady diz se o transporte está autenticado e conectado.
	IsReady() bool
}

// Lifecycle são os sinais que o transporte emite para quem orquestra o
// warmup e a reconexão.
type Lifecycle struct {
	OnReady         func()
	OnAuthenticated func()
	OnDisconnected  func(reason string)
}
