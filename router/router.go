package router

import (
	"log"

	"entregabot/controllers"
	"entregabot/middleware"

	"github.com/gin-gonic/gin"
)

// Controllers agrupa os handlers que o servidor expõe. Diferente de um CRUD
// com funções soltas, os handlers daqui carregam estado (transporte, warmup,
// pipeline), então vão por injeção.
type Controllers struct {
	Hub      *controllers.Hub
	Webhook  *controllers.Webhook
	Messages *controllers.Messages
}

// Initialize wires all routes and middlewares.
func Initialize(r *gin.Engine, ctrl Controllers) {
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())

	// página de status + eventos em tempo real
	r.GET("/", controllers.StatusPage)
	r.GET("/ws", ctrl.Hub.Serve)
	r.GET("/status", Logger(), ctrl.Messages.Status)

	// Webhook (WhatsApp Cloud API)
	r.GET("/webhook", ctrl.Webhook.Verify)
	r.POST("/webhook", ctrl.Webhook.Update)

	// Envio manual
	r.POST("/send-message", Logger(), ctrl.Messages.SendMessage)
	r.POST("/send-group-message", Logger(), ctrl.Messages.SendGroupMessage)

	log.Printf("Routes initialized")
}
