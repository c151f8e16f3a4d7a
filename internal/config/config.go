// Package config loads Interview Pilot settings.
//
// Values are resolved in increasing order of precedence:
//
//  1. built-in defaults
//  2. the TOML config file (default ~/.interview-pilot/config.toml)
//  3. a .env file in the working directory
//  4. process environment variables
//
// Validate fails fast when a required value is missing or out of range.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/interview-pilot/internal/core/domain"
)

// Chunking bounds accepted by Validate.
const (
	MinChunkSize    = 100
	MaxChunkSize    = 2000
	MinChunkOverlap = 0
	MaxChunkOverlap = 200
)

// Vector backends.
const (
	BackendSQLite = "sqlite"
	BackendQdrant = "qdrant"
	BackendMemory = "memory"
)

// Evaluation parsers.
const (
	ParserLine = "line"
	ParserJSON = "json"
)

// Voices are the TTS voices the voice runtime accepts.
var Voices = []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"}

// LogLevels are the accepted LOG_LEVEL values.
var LogLevels = []string{"DEBUG", "INFO", "WARNING", "ERROR"}

// Config is the complete application configuration.
type Config struct {
	LiveKit    LiveKitConfig    `toml:"livekit"`
	OpenAI     OpenAIConfig     `toml:"openai"`
	Knowledge  KnowledgeConfig  `toml:"knowledge"`
	Vector     VectorConfig     `toml:"vector"`
	Evaluation EvaluationConfig `toml:"evaluation"`
	NATS       NATSConfig       `toml:"nats"`

	// DataDir holds the session database and editable prompts.
	DataDir string `toml:"data_dir"`

	LogLevel string `toml:"log_level"`
	Debug    bool   `toml:"debug"`
}

// LiveKitConfig holds credentials for the real-time voice runtime.
type LiveKitConfig struct {
	URL       string `toml:"url"`
	APIKey    string `toml:"api_key"`
	APISecret string `toml:"api_secret"`
}

// OpenAIConfig configures the chat, embedding and speech models.
type OpenAIConfig struct {
	APIKey              string  `toml:"api_key"`
	BaseURL             string  `toml:"base_url"`
	Model               string  `toml:"model"`
	TTSVoice            string  `toml:"tts_voice"`
	EmbeddingModel      string  `toml:"embedding_model"`
	EmbeddingDimensions int     `toml:"embedding_dimensions"`
	TimeoutSeconds      int     `toml:"timeout_seconds"`
	MaxRetries          int     `toml:"max_retries"`
	RequestsPerSecond   float64 `toml:"requests_per_second"`
}

// Timeout returns the request timeout as a duration.
func (c OpenAIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// KnowledgeConfig configures loading and chunking.
type KnowledgeConfig struct {
	Dir          string `toml:"dir"`
	Recursive    bool   `toml:"recursive"`
	ChunkSize    int    `toml:"chunk_size"`
	ChunkOverlap int    `toml:"chunk_overlap"`
}

// VectorConfig selects and configures the vector backend.
type VectorConfig struct {
	Backend    string  `toml:"backend"`
	PersistDir string  `toml:"persist_dir"`
	Collection string  `toml:"collection"`
	BatchSize  int     `toml:"batch_size"`
	QdrantAddr string  `toml:"qdrant_addr"`
	DefaultK   int     `toml:"default_k"`
	Threshold  float64 `toml:"threshold"`
}

// EvaluationConfig configures the response evaluator.
type EvaluationConfig struct {
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float64 `toml:"temperature"`
	Parser      string  `toml:"parser"`
}

// NATSConfig configures session event publishing. Empty URL disables it.
type NATSConfig struct {
	URL     string `toml:"url"`
	Subject string `toml:"subject"`
}

// Default returns a configuration populated with built-in defaults.
func Default() *Config {
	return &Config{
		OpenAI: OpenAIConfig{
			Model:             "gpt-4o",
			TTSVoice:          "alloy",
			EmbeddingModel:    "text-embedding-3-small",
			TimeoutSeconds:    60,
			MaxRetries:        3,
			RequestsPerSecond: 5,
		},
		Knowledge: KnowledgeConfig{
			Dir:          "./knowledge_base",
			Recursive:    true,
			ChunkSize:    512,
			ChunkOverlap: 50,
		},
		Vector: VectorConfig{
			Backend:    BackendSQLite,
			PersistDir: "./data/chroma",
			Collection: "interview_knowledge",
			BatchSize:  100,
			QdrantAddr: "localhost:6334",
			DefaultK:   4,
			Threshold:  0.7,
		},
		Evaluation: EvaluationConfig{
			Model:       "gpt-4o-mini",
			MaxTokens:   200,
			Temperature: 0.3,
			Parser:      ParserLine,
		},
		NATS: NATSConfig{
			Subject: "interview.session.ended",
		},
		DataDir:  defaultDataDir(),
		LogLevel: "INFO",
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(defaultDataDir(), "config.toml")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".interview-pilot"
	}
	return filepath.Join(home, ".interview-pilot")
}

// Load resolves configuration from defaults, the TOML file at path,
// .env and the environment, then validates it.
// A missing config file is not an error; an unreadable or malformed one is.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// load resolves configuration without validating it.
func load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	// .env is optional; variables already set in the environment win.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overlays environment variables onto the configuration.
func (c *Config) applyEnv() error {
	var env envReader

	env.setString(&c.LiveKit.URL, "LIVEKIT_URL")
	env.setString(&c.LiveKit.APIKey, "LIVEKIT_API_KEY")
	env.setString(&c.LiveKit.APISecret, "LIVEKIT_API_SECRET")

	env.setString(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	env.setString(&c.OpenAI.BaseURL, "OPENAI_BASE_URL")
	env.setString(&c.OpenAI.Model, "OPENAI_MODEL")
	env.setString(&c.OpenAI.TTSVoice, "OPENAI_TTS_VOICE")
	env.setString(&c.OpenAI.EmbeddingModel, "EMBEDDING_MODEL")
	env.setInt(&c.OpenAI.EmbeddingDimensions, "EMBEDDING_DIMENSIONS")
	env.setInt(&c.OpenAI.TimeoutSeconds, "OPENAI_TIMEOUT_SECONDS")
	env.setInt(&c.OpenAI.MaxRetries, "OPENAI_MAX_RETRIES")
	env.setFloat(&c.OpenAI.RequestsPerSecond, "OPENAI_REQUESTS_PER_SECOND")

	env.setString(&c.Knowledge.Dir, "KNOWLEDGE_BASE_DIR")
	env.setBool(&c.Knowledge.Recursive, "KNOWLEDGE_BASE_RECURSIVE")
	env.setInt(&c.Knowledge.ChunkSize, "CHUNK_SIZE")
	env.setInt(&c.Knowledge.ChunkOverlap, "CHUNK_OVERLAP")

	env.setString(&c.Vector.Backend, "VECTOR_BACKEND")
	env.setString(&c.Vector.PersistDir, "CHROMA_PERSIST_DIR")
	env.setString(&c.Vector.PersistDir, "VECTOR_PERSIST_DIR")
	env.setString(&c.Vector.Collection, "VECTOR_COLLECTION")
	env.setInt(&c.Vector.BatchSize, "VECTOR_BATCH_SIZE")
	env.setString(&c.Vector.QdrantAddr, "QDRANT_ADDR")
	env.setInt(&c.Vector.DefaultK, "RETRIEVAL_K")
	env.setFloat(&c.Vector.Threshold, "RETRIEVAL_THRESHOLD")

	env.setString(&c.Evaluation.Model, "EVALUATION_MODEL")
	env.setInt(&c.Evaluation.MaxTokens, "EVALUATION_MAX_TOKENS")
	env.setFloat(&c.Evaluation.Temperature, "EVALUATION_TEMPERATURE")
	env.setString(&c.Evaluation.Parser, "EVALUATION_PARSER")

	env.setString(&c.NATS.URL, "NATS_URL")
	env.setString(&c.NATS.Subject, "NATS_SUBJECT")

	env.setString(&c.DataDir, "PILOT_DATA_DIR")
	env.setString(&c.LogLevel, "LOG_LEVEL")
	env.setBool(&c.Debug, "DEBUG")

	c.LogLevel = strings.ToUpper(c.LogLevel)
	c.OpenAI.TTSVoice = strings.ToLower(c.OpenAI.TTSVoice)
	c.Vector.Backend = strings.ToLower(c.Vector.Backend)

	return errors.Join(env.errs...)
}

// LoadSettings is Load without the credential check, for tooling that
// never opens a voice room. Ranges and enumerations are still validated.
func LoadSettings(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateSettings(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required values and ranges.
// Missing values wrap domain.ErrMissingConfig; bad values wrap domain.ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := c.ValidateCredentials(); err != nil {
		return err
	}
	return c.ValidateSettings()
}

// ValidateCredentials checks that the voice runtime and OpenAI
// credentials are present.
func (c *Config) ValidateCredentials() error {
	var missing []string
	for _, req := range []struct {
		name  string
		value string
	}{
		{"LIVEKIT_URL", c.LiveKit.URL},
		{"LIVEKIT_API_KEY", c.LiveKit.APIKey},
		{"LIVEKIT_API_SECRET", c.LiveKit.APISecret},
		{"OPENAI_API_KEY", c.OpenAI.APIKey},
	} {
		if strings.TrimSpace(req.value) == "" {
			missing = append(missing, req.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}

// ValidateSettings checks ranges and enumerations only.
func (c *Config) ValidateSettings() error {
	switch {
	case !contains(Voices, c.OpenAI.TTSVoice):
		return invalid("OPENAI_TTS_VOICE must be one of %s, got %q", strings.Join(Voices, ", "), c.OpenAI.TTSVoice)
	case !contains(LogLevels, c.LogLevel):
		return invalid("LOG_LEVEL must be one of %s, got %q", strings.Join(LogLevels, ", "), c.LogLevel)
	case c.Knowledge.ChunkSize < MinChunkSize || c.Knowledge.ChunkSize > MaxChunkSize:
		return invalid("CHUNK_SIZE must be between %d and %d, got %d", MinChunkSize, MaxChunkSize, c.Knowledge.ChunkSize)
	case c.Knowledge.ChunkOverlap < MinChunkOverlap || c.Knowledge.ChunkOverlap > MaxChunkOverlap:
		return invalid("CHUNK_OVERLAP must be between %d and %d, got %d",
			MinChunkOverlap, MaxChunkOverlap, c.Knowledge.ChunkOverlap)
	case c.Knowledge.ChunkOverlap >= c.Knowledge.ChunkSize:
		return invalid("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)",
			c.Knowledge.ChunkOverlap, c.Knowledge.ChunkSize)
	case !contains([]string{BackendSQLite, BackendQdrant, BackendMemory}, c.Vector.Backend):
		return invalid("VECTOR_BACKEND must be sqlite, qdrant or memory, got %q", c.Vector.Backend)
	case c.Vector.BatchSize <= 0:
		return invalid("VECTOR_BATCH_SIZE must be positive, got %d", c.Vector.BatchSize)
	case c.Vector.Threshold < 0 || c.Vector.Threshold > 1:
		return invalid("RETRIEVAL_THRESHOLD must be between 0 and 1, got %g", c.Vector.Threshold)
	case c.Evaluation.Parser != ParserLine && c.Evaluation.Parser != ParserJSON:
		return invalid("EVALUATION_PARSER must be line or json, got %q", c.Evaluation.Parser)
	}
	return nil
}

// EffectiveLogLevel returns DEBUG when the debug flag is set, else LogLevel.
func (c *Config) EffectiveLogLevel() string {
	if c.Debug {
		return "DEBUG"
	}
	return c.LogLevel
}

// SessionDBDir is where the session history database lives.
func (c *Config) SessionDBDir() string {
	return filepath.Join(c.DataDir, "data")
}

// PromptDir is where user-editable prompt templates live.
func (c *Config) PromptDir() string {
	return filepath.Join(c.DataDir, "prompts")
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// envReader overlays environment variables and collects parse errors.
type envReader struct {
	errs []error
}

func (r *envReader) lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (r *envReader) setString(dst *string, key string) {
	if v, ok := r.lookup(key); ok {
		*dst = v
	}
}

func (r *envReader) setInt(dst *int, key string) {
	if v, ok := r.lookup(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			r.errs = append(r.errs, fmt.Errorf("%w: %s must be an integer, got %q", domain.ErrInvalidConfig, key, v))
			return
		}
		*dst = n
	}
}

func (r *envReader) setFloat(dst *float64, key string) {
	if v, ok := r.lookup(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			r.errs = append(r.errs, fmt.Errorf("%w: %s must be a number, got %q", domain.ErrInvalidConfig, key, v))
			return
		}
		*dst = f
	}
}

func (r *envReader) setBool(dst *bool, key string) {
	if v, ok := r.lookup(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			r.errs = append(r.errs, fmt.Errorf("%w: %s must be a boolean, got %q", domain.ErrInvalidConfig, key, v))
			return
		}
		*dst = b
	}
}
