package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()
}

type Config struct {
	// Persistence
	DBPath         string
	WhatsAppDBPath string

	// Ollama
	OllamaURL     string
	OllamaModel   string
	OllamaTimeout int // seconds

	// Reminder delivery
	ReminderPollSeconds int

	// Google Calendar (optional)
	GoogleCredentialsFile string
	GoogleTokenFile       string

	// Email copy of fired reminders (optional)
	ResendAPIKey string
	EmailFrom    string

	// Behavior
	DebugAllMessages bool
	SetupMode        bool
}

func LoadFromEnv() *Config {
	cfg := &Config{
		DBPath:         getEnvOrDefault("ASISTENTE_DB_PATH", "./asistente.db"),
		WhatsAppDBPath: getEnvOrDefault("ASISTENTE_WHATSAPP_DB_PATH", "./whatsapp.db"),

		OllamaURL:     getEnvOrDefault("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:   getEnvOrDefault("ASISTENTE_OLLAMA_MODEL", "llama3.1"),
		OllamaTimeout: getEnvAsIntOrDefault("ASISTENTE_OLLAMA_TIMEOUT", 120),

		ReminderPollSeconds: getEnvAsIntOrDefault("ASISTENTE_REMINDER_POLL_SECONDS", 30),

		GoogleCredentialsFile: getEnvOrDefault("GOOGLE_CREDENTIALS_FILE", "./credentials.json"),
		GoogleTokenFile:       getEnvOrDefault("GOOGLE_TOKEN_FILE", "./token.json"),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		EmailFrom:    getEnvOrDefault("ASISTENTE_EMAIL_FROM", "asistente@localhost"),

		DebugAllMessages: getEnvAsBoolOrDefault("ASISTENTE_DEBUG_ALL_MESSAGES", false),
		SetupMode:        getEnvAsBoolOrDefault("SETUP_MODE", false),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
