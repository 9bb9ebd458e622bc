package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// EnvConfig содержит секреты и переключатели из переменных окружения.
type EnvConfig struct {
	ConfigPath       string
	SlackWebhookURL  string
	TelegramBotToken string
	TelegramChatID   string
	LogLevel         string
}

// LoadEnvConfig подгружает .env (если он есть) и читает переменные окружения.
// Уже выставленные переменные окружения .env не перезаписывает.
func LoadEnvConfig(dotenvPath string) (*EnvConfig, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	}

	configPath := os.Getenv("RADAR_CONFIG")
	if configPath == "" {
		configPath = "configs/sources.yaml"
	}

	return &EnvConfig{
		ConfigPath:       configPath,
		SlackWebhookURL:  os.Getenv("SLACK_WEBHOOK_URL"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
		LogLevel:         os.Getenv("LOG_LEVEL"),
	}, nil
}
