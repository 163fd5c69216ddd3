package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Qdrant     QdrantConfig     `mapstructure:"qdrant"`
	Storage    StorageConfig    `mapstructure:"storage"`
	S3         S3Config         `mapstructure:"s3"`
	Events     EventsConfig     `mapstructure:"events"`
	Scoring    ScoringConfig    `mapstructure:"scoring"`
	Indexer    IndexerConfig    `mapstructure:"indexer"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Env            string        `mapstructure:"env"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	RateLimitMax   int           `mapstructure:"rate_limit_max"`
	RateLimitReset time.Duration `mapstructure:"rate_limit_window"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	Path     string `mapstructure:"path"`

	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	ConnLifetime time.Duration `mapstructure:"conn_lifetime"`
}

type LLMConfig struct {
	Provider string `mapstructure:"provider"`
}

type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	EmbedModel  string  `mapstructure:"embed_model"`
	Backend     string  `mapstructure:"backend"`
	Project     string  `mapstructure:"project"`
	Location    string  `mapstructure:"location"`
	Temperature float32 `mapstructure:"temperature"`
}

type OpenRouterConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type QdrantConfig struct {
	URL        string `mapstructure:"url"`
	APIKey     string `mapstructure:"api_key"`
	Collection string `mapstructure:"collection"`
	VectorSize uint64 `mapstructure:"vector_size"`
}

type StorageConfig struct {
	Backend     string `mapstructure:"backend"`
	UploadPath  string `mapstructure:"upload_path"`
	MaxFileSize int64  `mapstructure:"max_file_size"`
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

type EventsConfig struct {
	RabbitMQURL string `mapstructure:"rabbitmq_url"`
	Exchange    string `mapstructure:"exchange"`
}

type ScoringConfig struct {
	Strategy        string `mapstructure:"strategy"`
	SessionTimezone string `mapstructure:"session_timezone"`
}

type IndexerConfig struct {
	Concurrency int `mapstructure:"concurrency"`
	QueueSize   int `mapstructure:"queue_size"`
	ChunkSize   int `mapstructure:"chunk_size"`
	Overlap     int `mapstructure:"chunk_overlap"`
}

type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// envBindings keeps the flat environment names used in deployments.
var envBindings = map[string]string{
	"server.port":              "PORT",
	"server.env":               "ENV",
	"server.read_timeout":      "READ_TIMEOUT",
	"server.write_timeout":     "WRITE_TIMEOUT",
	"server.rate_limit_max":    "RATE_LIMIT_MAX",
	"server.rate_limit_window": "RATE_LIMIT_WINDOW",
	"database.driver":          "DB_DRIVER",
	"database.host":            "DB_HOST",
	"database.port":            "DB_PORT",
	"database.user":            "DB_USER",
	"database.password":        "DB_PASSWORD",
	"database.name":            "DB_NAME",
	"database.sslmode":         "DB_SSLMODE",
	"database.path":            "DB_PATH",
	"database.max_open_conns":  "DB_MAX_OPEN_CONNS",
	"database.max_idle_conns":  "DB_MAX_IDLE_CONNS",
	"database.conn_lifetime":   "DB_CONN_LIFETIME",
	"llm.provider":             "LLM_PROVIDER",
	"gemini.api_key":           "GEMINI_API_KEY",
	"gemini.model":             "GEMINI_MODEL",
	"gemini.embed_model":       "GEMINI_EMBED_MODEL",
	"gemini.backend":           "GEMINI_BACKEND",
	"gemini.project":           "GOOGLE_CLOUD_PROJECT",
	"gemini.location":          "GOOGLE_CLOUD_LOCATION",
	"gemini.temperature":       "GEMINI_TEMPERATURE",
	"openrouter.api_key":       "OPENROUTER_API_KEY",
	"openrouter.model":         "OPENROUTER_MODEL",
	"openrouter.base_url":      "OPENROUTER_BASE_URL",
	"openrouter.timeout":       "OPENROUTER_TIMEOUT",
	"qdrant.url":               "QDRANT_URL",
	"qdrant.api_key":           "QDRANT_API_KEY",
	"qdrant.collection":        "QDRANT_COLLECTION",
	"qdrant.vector_size":       "QDRANT_VECTOR_SIZE",
	"storage.backend":          "STORAGE_BACKEND",
	"storage.upload_path":      "UPLOAD_PATH",
	"storage.max_file_size":    "MAX_FILE_SIZE",
	"s3.bucket":                "S3_BUCKET",
	"s3.region":                "S3_REGION",
	"s3.endpoint":              "S3_ENDPOINT",
	"s3.access_key":            "S3_ACCESS_KEY",
	"s3.secret_key":            "S3_SECRET_KEY",
	"events.rabbitmq_url":      "RABBITMQ_URL",
	"events.exchange":          "EVENTS_EXCHANGE",
	"scoring.strategy":         "SCORING_STRATEGY",
	"scoring.session_timezone": "SESSION_TIMEZONE",
	"indexer.concurrency":      "INDEXER_CONCURRENCY",
	"indexer.queue_size":       "INDEXER_QUEUE_SIZE",
	"indexer.chunk_size":       "INDEXER_CHUNK_SIZE",
	"indexer.chunk_overlap":    "INDEXER_CHUNK_OVERLAP",
	"log.json":                 "LOG_JSON",
	"log.debug":                "LOG_DEBUG",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.read_timeout", "120s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.rate_limit_max", 20)
	v.SetDefault("server.rate_limit_window", "1m")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "resume_screener")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "./resume_screener.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_lifetime", "30m")

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("gemini.embed_model", "text-embedding-004")
	v.SetDefault("gemini.backend", "gemini")
	v.SetDefault("gemini.temperature", 0.2)
	v.SetDefault("openrouter.model", "google/gemini-flash-1.5")
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")

	v.SetDefault("qdrant.collection", "resume_screener_candidates")
	v.SetDefault("qdrant.vector_size", 768)

	v.SetDefault("storage.backend", "none")
	v.SetDefault("storage.upload_path", "./uploads")
	v.SetDefault("storage.max_file_size", 10485760)
	v.SetDefault("s3.region", "auto")

	v.SetDefault("events.exchange", "candidate_events")

	v.SetDefault("scoring.strategy", "slash-average")
	v.SetDefault("scoring.session_timezone", "Asia/Kolkata")

	v.SetDefault("indexer.concurrency", 2)
	v.SetDefault("indexer.queue_size", 100)
	v.SetDefault("indexer.chunk_size", 1000)
	v.SetDefault("indexer.chunk_overlap", 100)
}

// Load reads .env, the optional config file and the environment, in increasing priority.
func Load(configFile string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("screener")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Database.Driver) {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	switch strings.ToLower(c.LLM.Provider) {
	case "gemini", "openrouter":
	default:
		return fmt.Errorf("unsupported llm provider %q", c.LLM.Provider)
	}

	switch strings.ToLower(c.Scoring.Strategy) {
	case "slash-average", "overall-label":
	default:
		return fmt.Errorf("unsupported scoring strategy %q", c.Scoring.Strategy)
	}

	switch strings.ToLower(c.Storage.Backend) {
	case "none", "local", "s3":
	default:
		return fmt.Errorf("unsupported storage backend %q", c.Storage.Backend)
	}

	return nil
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// SessionLocation resolves the timezone used to stamp saved sessions, falling back to UTC.
func (c *Config) SessionLocation() *time.Location {
	loc, err := time.LoadLocation(c.Scoring.SessionTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}
