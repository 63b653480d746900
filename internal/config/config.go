package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	LLM      LLMConfig
	Gen      GenConfig
	Docstore DocstoreConfig
	Image    ImageConfig
}

type LLMConfig struct {
	// Provider selects the text client: "gemini" or "groq".
	Provider string

	GeminiAPIKey string
	GeminiModel  string

	GroqAPIKey string
	GroqModel  string

	// Client-side throttle applied in front of the provider. Zero RPS
	// disables it.
	RPS   float64
	Burst int
}

type GenConfig struct {
	MaxAttempts    int
	BaseDelay      time.Duration
	AttemptTimeout time.Duration
}

type DocstoreConfig struct {
	// PostgresDSN, when set, selects the postgres adapter. MongoURI takes
	// precedence when both are set.
	PostgresDSN string
	MongoURI    string
	MongoDB     string
}

type ImageConfig struct {
	SearchEndpoint string
	SearchAPIKey   string

	S3 S3Config
}

type S3Config struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8080", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:     *port,
		Env:      env,
		LLM:      loadLLMConfig(),
		Gen:      loadGenConfig(),
		Docstore: loadDocstoreConfig(),
		Image:    loadImageConfig(env),
	}, nil
}

func loadLLMConfig() LLMConfig {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
	if provider == "" {
		provider = "gemini"
	}
	return LLMConfig{
		Provider:     provider,
		GeminiAPIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:  strings.TrimSpace(os.Getenv("GEMINI_MODEL")),
		GroqAPIKey:   strings.TrimSpace(os.Getenv("GROQ_API_KEY")),
		GroqModel:    strings.TrimSpace(os.Getenv("GROQ_MODEL")),
		RPS:          envFloat("LLM_RPS", 0),
		Burst:        envInt("LLM_BURST", 1),
	}
}

func loadGenConfig() GenConfig {
	return GenConfig{
		MaxAttempts:    envInt("GEN_MAX_ATTEMPTS", 3),
		BaseDelay:      envDuration("GEN_BASE_DELAY", 2*time.Second),
		AttemptTimeout: envDuration("GEN_ATTEMPT_TIMEOUT", 0),
	}
}

func loadDocstoreConfig() DocstoreConfig {
	return DocstoreConfig{
		PostgresDSN: strings.TrimSpace(os.Getenv("DOCSTORE_PG_DSN")),
		MongoURI:    strings.TrimSpace(os.Getenv("DOCSTORE_MONGO_URI")),
		MongoDB:     firstNonEmpty(strings.TrimSpace(os.Getenv("DOCSTORE_MONGO_DB")), "tripforge"),
	}
}

func loadImageConfig(env string) ImageConfig {
	return ImageConfig{
		SearchEndpoint: strings.TrimSpace(os.Getenv("IMAGE_SEARCH_ENDPOINT")),
		SearchAPIKey:   strings.TrimSpace(os.Getenv("IMAGE_SEARCH_API_KEY")),
		S3:             loadS3Config(env),
	}
}

func loadS3Config(env string) S3Config {
	endpoint := resolveS3Endpoint(env)
	return S3Config{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("IMAGE_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("IMAGE_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("IMAGE_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("IMAGE_S3_BUCKET")), "tripforge-images"),
		UseSSL:    resolveS3UseSSL(env),
	}
}

func resolveS3Endpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return strings.TrimSpace(os.Getenv("IMAGE_MINIO_ENDPOINT"))
	}
	return strings.TrimSpace(os.Getenv("IMAGE_S3_ENDPOINT"))
}

func resolveS3UseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("IMAGE_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
