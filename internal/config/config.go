package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"model-notes-be/pkg/civitai"
	"model-notes-be/pkg/modeltype"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Models   ModelsConfig
	Civitai  CivitaiConfig
	Notes    NotesConfig
	Transfer TransferConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	// NatsURL enables forwarding progress events to JetStream when set.
	NatsURL string
}

type DatabaseConfig struct {
	Connection string
}

// ModelsConfig points at the directories the registries scan.
// Empty per-kind directories fall back to RootDir/<kind dir>.
type ModelsConfig struct {
	RootDir         string
	CheckpointDir   string
	HypernetworkDir string
	LoraDir         string
	EmbeddingsDir   string
}

type CivitaiConfig struct {
	BaseURL        string
	MaxRetries     int
	TimeoutSeconds int
}

// NotesConfig holds the flags the note UI reads. They are owned by the host
// settings and only passed through.
type NotesConfig struct {
	Autosave                 bool
	Markdown                 bool
	HideExtraNetworkNotes    bool
	InjectExtraPreviewButton bool
}

type TransferConfig struct {
	OutputDir string
}

// TracingConfig is off unless OTEL_ENABLED=true.
type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	rootDir := getEnv("MODELS_DIR", "models")

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "7861"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/model_notes.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:7860"),
			NatsURL:            getEnv("NATS_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", "notes.db"),
		},
		Models: ModelsConfig{
			RootDir:         rootDir,
			CheckpointDir:   getEnv("CHECKPOINT_DIR", filepath.Join(rootDir, "Stable-diffusion")),
			HypernetworkDir: getEnv("HYPERNETWORK_DIR", filepath.Join(rootDir, "hypernetworks")),
			LoraDir:         getEnv("LORA_DIR", filepath.Join(rootDir, "Lora")),
			EmbeddingsDir:   getEnv("EMBEDDINGS_DIR", "embeddings"),
		},
		Civitai: CivitaiConfig{
			BaseURL:        getEnv("CIVITAI_BASE_URL", civitai.DefaultBaseURL),
			MaxRetries:     getEnvAsInt("CIVITAI_MAX_RETRIES", civitai.DefaultMaxRetries),
			TimeoutSeconds: getEnvAsInt("CIVITAI_TIMEOUT_SECONDS", 30),
		},
		Notes: NotesConfig{
			Autosave:                 getEnvAsBool("MODEL_NOTE_AUTOSAVE", false),
			Markdown:                 getEnvAsBool("MODEL_NOTE_MARKDOWN", false),
			HideExtraNetworkNotes:    getEnvAsBool("MODEL_NOTE_HIDE_EXTRA_NETWORK_NOTES", false),
			InjectExtraPreviewButton: getEnvAsBool("MODEL_NOTE_INJECT_PREVIEW_BUTTON", true),
		},
		Transfer: TransferConfig{
			OutputDir: getEnv("EXPORT_DIR", "model_notes_export"),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "model-notes-backend"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := strings.TrimSpace(getEnv(key, ""))
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// Dirs maps every model kind to the directory its registry scans.
func (m ModelsConfig) Dirs() map[modeltype.Kind]string {
	return map[modeltype.Kind]string{
		modeltype.Checkpoint:       m.CheckpointDir,
		modeltype.Hypernetwork:     m.HypernetworkDir,
		modeltype.LoRA:             m.LoraDir,
		modeltype.TextualInversion: m.EmbeddingsDir,
	}
}
