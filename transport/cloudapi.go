package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// WhatsAppAPIError carrega status e corpo de uma resposta de erro do Graph.
type WhatsAppAPIError struct {
	StatusCode int
	Body       string
}

func (e WhatsAppAPIError) Error() string {
	return fmt.Sprintf("whatsapp api error: status=%d body=%s", e.StatusCode, e.Body)
}

// CloudAPIClient fala com o WhatsApp Cloud API (Graph).
type CloudAPIClient struct {
	AccessToken   string
	PhoneNumberID string
	ApiVersion    string // ex: v20.0

	HTTPClient *http.Client

	lifecycle Lifecycle
	ready     atomic.Bool
}

func NewCloudAPIClient(accessToken, phoneNumberID, apiVersion string) *CloudAPIClient {
	if strings.TrimSpace(apiVersion) == "" {
		apiVersion = "v20.0"
	}
	return &CloudAPIClient{
		AccessToken:   accessToken,
		PhoneNumberID: phoneNumberID,
		ApiVersion:    apiVersion,
		HTTPClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetLifecycle registra os callbacks de ciclo de vida. Chame antes de
// Initialize.
func (c *CloudAPIClient) SetLifecycle(lc Lifecycle) {
	c.lifecycle = lc
}

// Initialize valida as credenciais consultando o próprio número; sucesso
// dispara authenticated e ready.
func (c *CloudAPIClient) Initialize(ctx context.Context) error {
	if strings.TrimSpace(c.AccessToken) == "" || strings.TrimSpace(c.PhoneNumberID) == "" {
		return fmt.Errorf("access_token e phone_number_id são obrigatórios")
	}

	url := fmt.Sprintf("https://graph.facebook.com/%s/%s", c.ApiVersion, c.PhoneNumberID)
	var parsed struct {
		ID string `json:"id"`
	}
	if err := c.get(ctx, url, &parsed); err != nil {
		c.Disconnect("INIT_FAILURE")
		return fmt.Errorf("inicializar cliente whatsapp: %w", err)
	}

	log.Printf("transport: cliente autenticado e pronto (phone_number_id=%s)", parsed.ID)
	c.ready.Store(true)
	if c.lifecycle.OnAuthenticated != nil {
		c.lifecycle.OnAuthenticated()
	}
	if c.lifecycle.OnReady != nil {
		c.lifecycle.OnReady()
	}
	return nil
}

// Disconnect marca o transporte como caído e propaga o motivo.
func (c *CloudAPIClient) Disconnect(reason string) {
	c.ready.Store(false)
	if c.lifecycle.OnDisconnected != nil {
		c.lifecycle.OnDisconnected(reason)
	}
}

func (c *CloudAPIClient) IsReady() bool {
	return c.ready.Load()
}

// SendText envia texto via Cloud API e devolve o id da mensagem. Quando a API
// não devolve id, gera um localmente para a trilha.
func (c *CloudAPIClient) SendText(ctx context.Context, to, text string) (string, error) {
	url := fmt.Sprintf("https://graph.facebook.com/%s/%s/messages", c.ApiVersion, c.PhoneNumberID)

	reqBody := map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text": map[string]any{
			"body": text,
		},
	}

	var parsed struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
	}
	if err := c.post(ctx, url, reqBody, &parsed); err != nil {
		return "", err
	}

	if len(parsed.Messages) > 0 && strings.TrimSpace(parsed.Messages[0].ID) != "" {
		return parsed.Messages[0].ID, nil
	}
	return uuid.NewString(), nil
}

// ResolveContact resolve um id anônimo (@lid) para o número real (wa_id).
func (c *CloudAPIClient) ResolveContact(ctx context.Context, senderID string) (string, error) {
	id := strings.TrimSuffix(strings.TrimSpace(senderID), "@lid")
	if id == "" {
		return "", fmt.Errorf("sender id vazio")
	}

	url := fmt.Sprintf("https://graph.facebook.com/%s/%s?fields=wa_id", c.ApiVersion, id)
	var parsed struct {
		WaID string `json:"wa_id"`
	}
	if err := c.get(ctx, url, &parsed); err != nil {
		return "", err
	}
	if strings.TrimSpace(parsed.WaID) == "" {
		return "", fmt.Errorf("contato %s sem wa_id", senderID)
	}
	return parsed.WaID, nil
}

// GetChats lista as conversas do número conectado.
func (c *CloudAPIClient) GetChats(ctx context.Context) ([]Chat, error) {
	url := fmt.Sprintf("https://graph.facebook.com/%s/%s/conversations?fields=id,name,is_group", c.ApiVersion, c.PhoneNumberID)
	var parsed struct {
		Data []struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			IsGroup bool   `json:"is_group"`
		} `json:"data"`
	}
	if err := c.get(ctx, url, &parsed); err != nil {
		return nil, err
	}

	chats := make([]Chat, 0, len(parsed.Data))
	for _, d := range parsed.Data {
		chats = append(chats, Chat{ID: d.ID, Name: d.Name, IsGroup: d.IsGroup})
	}
	return chats, nil
}

func (c *CloudAPIClient) post(ctx context.Context, url string, body any, out any) error {
	b, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *CloudAPIClient) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)

	return c.do(req, out)
}

func (c *CloudAPIClient) do(req *http.Request, out any) error {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return WhatsAppAPIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
