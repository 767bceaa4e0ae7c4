package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const statusPage = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
    <meta charset="UTF-8">
    <title>Entregabot</title>
    <style>
        body { font-family: sans-serif; display: flex; justify-content: center; padding: 40px; }
        .status { padding: 12px 24px; border-radius: 25px; font-weight: 500; }
        .status.waiting { background: #fff3cd; color: #856404; }
        .status.ready { background: #d1ecf1; color: #0c5460; }
        .status.error { background: #f8d7da; color: #721c24; }
    </style>
</head>
<body>
    <div>
        <h1>Entregabot</h1>
        <div id="status" class="status waiting">Conectando...</div>
    </div>
    <script>
        const statusDiv = document.getElementById('status');
        const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
        ws.onmessage = (raw) => {
            const msg = JSON.parse(raw.data);
            switch (msg.event) {
            case 'authenticated':
                statusDiv.textContent = 'Autenticado com sucesso!';
                statusDiv.className = 'status waiting';
                break;
            case 'ready':
            case 'warmup_started':
                statusDiv.textContent = 'Carregando histórico de mensagens, aguarde...';
                statusDiv.className = 'status waiting';
                break;
            case 'warmup_completed':
                statusDiv.textContent = 'Sistema pronto! Bot operacional.';
                statusDiv.className = 'status ready';
                break;
            case 'disconnected':
                statusDiv.textContent = 'Desconectado: ' + (msg.data || '');
                statusDiv.className = 'status error';
                break;
            }
        };
        ws.onclose = () => {
            statusDiv.textContent = 'Conexão encerrada';
            statusDiv.className = 'status error';
        };
    </script>
</body>
</html>
`

// GET / — página de status do bot.
func StatusPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(statusPage))
}
