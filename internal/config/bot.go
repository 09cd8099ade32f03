package config

import "github.com/caarlos0/env/v11"

type BotConfig struct {
	ChatAPIURL string `env:"CHAT_API_URL" envDefault:"http://localhost:5000/api"`
	ChatWSURL  string `env:"CHAT_WS_URL" envDefault:"ws://localhost:5000/ws"`
	BotToken   string `env:"BOT_TOKEN,required,notEmpty"`
	BotUserID  string `env:"BOT_USER_ID" envDefault:"bot"`
	BotName    string `env:"BOT_NAME" envDefault:"taskbot"`
	TaskID     string `env:"TASK_ID"`

	// TaskWords is the word list for the built-in word-guess task, one
	// round per word.
	TaskWords []string `env:"TASK_WORDS" envSeparator:"," envDefault:"piano,castle,shadow,lantern"`

	OpsAddr string `env:"OPS_ADDR" envDefault:":8080"`

	// PostgresDSN enables the audit store when set; empty keeps the bot
	// fully in-memory.
	PostgresDSN string `env:"POSTGRES_DSN"`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	err := env.Parse(&cfg)
	return cfg, err
}
