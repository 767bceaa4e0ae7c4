package config

import (
	"encoding/json"
	"log"
	"os"
)

type Configuration struct {
	ApiPort string `json:"api_port"`
	LogPath string `json:"log_path"`

	Database string `json:"database"` // "sqlite3" ou "postgres"
	DbHost   string `json:"db_host"`
	DbPort   string `json:"db_port"`
	DbUser   string `json:"db_user"`
	DbName   string `json:"db_name"`
	DbPass   string `json:"db_pass"`

	// Timezone civil da operação; o horário comercial é avaliado nela.
	Timezone string `json:"timezone"`

	WhatsApp struct {
		AccessToken   string `json:"access_token"`
		PhoneNumberID string `json:"phone_number_id"`
		ApiVersion    string `json:"api_version"`
	} `json:"whatsapp"`

	Chatbot struct {
		WarmupSeconds    int `json:"warmup_seconds"`
		ReconnectSeconds int `json:"reconnect_seconds"`
		DedupMinutes     int `json:"dedup_minutes"`
		SpamWindowMin    int `json:"spam_window_minutes"`
		SpamThreshold    int `json:"spam_threshold"`
		SweepMinutes     int `json:"sweep_minutes"`

		// destino do resumo diário de entregas; vazio desliga o job
		AdminTelefone string `json:"admin_telefone"`
	} `json:"chatbot"`

	Horario struct {
		AberturaHora   int `json:"abertura_hora"`
		AberturaMinuto int `json:"abertura_minuto"`
		FechamentoHora int `json:"fechamento_hora"`
	} `json:"horario"`
}

func Get(path string) Configuration {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	var c Configuration
	if err := json.Unmarshal(b, &c); err != nil {
		log.Fatal(err)
	}

	// defaults (pra evitar nil/zero chato)
	if c.ApiPort == "" {
		c.ApiPort = "7005"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/server.log"
	}
	if c.Database == "" {
		c.Database = "sqlite3"
	}
	if c.Timezone == "" {
		c.Timezone = "America/Sao_Paulo"
	}
	if c.WhatsApp.ApiVersion == "" {
		c.WhatsApp.ApiVersion = "v20.0"
	}
	if c.Chatbot.WarmupSeconds <= 0 {
		c.Chatbot.WarmupSeconds = 20
	}
	if c.Chatbot.ReconnectSeconds <= 0 {
		c.Chatbot.ReconnectSeconds = 5
	}
	if c.Chatbot.DedupMinutes <= 0 {
		c.Chatbot.DedupMinutes = 5
	}
	if c.Chatbot.SpamWindowMin <= 0 {
		c.Chatbot.SpamWindowMin = 5
	}
	if c.Chatbot.SpamThreshold <= 0 {
		c.Chatbot.SpamThreshold = 5
	}
	if c.Chatbot.SweepMinutes <= 0 {
		c.Chatbot.SweepMinutes = 10
	}
	if c.Horario.AberturaHora <= 0 {
		c.Horario.AberturaHora = 9
		c.Horario.AberturaMinuto = 30
	}
	if c.Horario.FechamentoHora <= 0 {
		c.Horario.FechamentoHora = 23
	}

	return c
}
