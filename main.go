package main

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"entregabot/chatbot"
	"entregabot/config"
	"entregabot/controllers"
	"entregabot/db"
	"entregabot/flows"
	"entregabot/router"
	"entregabot/store"
	"entregabot/transport"
	"entregabot/workers"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := os.Getenv("CONFIG")
	if configPath == "" {
		configPath = "config/config.json"
	}
	cfg := config.Get(configPath)

	setupLog(cfg.LogPath)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("timezone %q inválida, usando local: %v", cfg.Timezone, err)
		loc = time.Local
	}

	db.SetConfigurations(cfg)
	database, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	etapas := store.NewEtapas(database)
	clientes := store.NewClientes(database)
	entregas := store.NewEntregas(database)
	mensagens := store.NewMensagens(database)

	hub := controllers.NewHub()

	// admissão em memória
	dedup := chatbot.NewDuplicateFilter(time.Duration(cfg.Chatbot.DedupMinutes) * time.Minute)
	spam := chatbot.NewSpamLimiter(
		time.Duration(cfg.Chatbot.SpamWindowMin)*time.Minute,
		cfg.Chatbot.SpamThreshold,
	)
	warmup := chatbot.NewWarmupGate(
		time.Duration(cfg.Chatbot.WarmupSeconds)*time.Second,
		time.Duration(cfg.Chatbot.ReconnectSeconds)*time.Second,
	)
	horario := chatbot.NewHorarioComercial(
		cfg.Horario.AberturaHora,
		cfg.Horario.AberturaMinuto,
		cfg.Horario.FechamentoHora,
		loc,
	)

	client := transport.NewCloudAPIClient(
		cfg.WhatsApp.AccessToken,
		cfg.WhatsApp.PhoneNumberID,
		cfg.WhatsApp.ApiVersion,
	)
	client.SetLifecycle(transport.Lifecycle{
		OnAuthenticated: func() {
			hub.Broadcast("authenticated", nil)
		},
		OnReady: func() {
			hub.Broadcast("ready", nil)
			warmup.OnReady()
		},
		OnDisconnected: func(reason string) {
			hub.Broadcast("disconnected", reason)
			warmup.OnDisconnect(reason)
		},
	})
	warmup.SetNotify(func(event string) {
		hub.Broadcast(event, nil)
	})
	warmup.SetReconnect(func() {
		if err := client.Initialize(context.Background()); err != nil {
			log.Printf("reconexão falhou: %v", err)
		}
	})

	codigos := &flows.CodigoParser{Clientes: clientes}
	pipeline := &chatbot.Pipeline{
		Dedup:    dedup,
		Spam:     spam,
		Warmup:   warmup,
		Horario:  horario,
		Identity: chatbot.NewIdentityResolver(client),

		Etapas:   etapas,
		Clientes: clientes,
		Codigos:  codigos,

		Transport: client,
		Empresa:   &flows.Empresa{Etapas: etapas, Entregas: entregas, Transport: client},
		Fisica:    &flows.Fisica{Etapas: etapas, Transport: client},
		Cadastro:  &flows.CadastroHandler{Clientes: clientes, Etapas: etapas, Transport: client},
		Comandos: []chatbot.Comando{
			&flows.ContarEntregas{Entregas: entregas, Transport: client},
			&flows.ListarEntregas{Entregas: entregas, Transport: client},
			&flows.ListarClientes{Clientes: clientes, Transport: client},
			&flows.DadosCadastro{Clientes: clientes, Transport: client},
			&flows.AtivarChatbot{Etapas: etapas, Transport: client},
			&flows.DesativarChatbot{Etapas: etapas, Transport: client},
			&flows.DeletarEntregas{Entregas: entregas, Transport: client},
			&flows.DeletarCliente{Clientes: clientes, Transport: client},
			&flows.ExcluirNumero{Clientes: clientes, Transport: client},
		},
		Mensagens: mensagens,
	}

	// jobs de fundo: varredura dos filtros + resumo diário
	cronJobs, err := workers.Start(
		loc,
		time.Duration(cfg.Chatbot.SweepMinutes)*time.Minute,
		[]workers.Sweeper{dedup, spam},
		entregas,
		client,
		cfg.Chatbot.AdminTelefone,
	)
	if err != nil {
		log.Fatal(err)
	}
	defer cronJobs.Stop()

	// inicialização do transporte em background: o servidor sobe mesmo com o
	// WhatsApp fora; a reconexão agendada cuida do resto
	go func() {
		if err := client.Initialize(context.Background()); err != nil {
			log.Printf("inicialização do transporte falhou: %v", err)
		}
	}()

	r := gin.New()
	r.Use(db.SetDBtoContext(database))
	router.Initialize(r, router.Controllers{
		Hub:     hub,
		Webhook: &controllers.Webhook{Pipeline: pipeline},
		Messages: &controllers.Messages{
			Transport: client,
			Warmup:    warmup,
		},
	})

	log.Printf("Entregabot listening on :%s", cfg.ApiPort)
	log.Fatal(r.Run(":" + cfg.ApiPort))
}

// setupLog espelha o log no arquivo configurado, mantendo o stdout.
func setupLog(path string) {
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("log: erro ao criar diretório: %v", err)
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("log: erro ao abrir arquivo: %v", err)
		return
	}
	log.SetOutput(io.MultiWriter(os.Stdout, f))
}
