package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port     string `yaml:"port" validate:"required"`
	Debug    bool   `yaml:"debug"`
	LogJSON  bool   `yaml:"log_json"`
	DataRoot string `yaml:"data_root"`

	LLM    LLM    `yaml:"llm"`
	Render Render `yaml:"render"`
	Store  Store  `yaml:"store"`
	OCR    OCR    `yaml:"ocr"`
}

type LLM struct {
	Provider      string        `yaml:"provider" validate:"oneof=ollama openai mock"`
	Model         string        `yaml:"model"`
	VisionModel   string        `yaml:"vision_model"`
	OllamaURL     string        `yaml:"ollama_url"`
	OllamaKey     string        `yaml:"ollama_key"`
	OpenAIURL     string        `yaml:"openai_url"`
	OpenAIKey     string        `yaml:"openai_key" validate:"required_if=Provider openai"`
	MaxConcurrent int64         `yaml:"max_concurrent" validate:"gte=1"`
	Timeout       time.Duration `yaml:"timeout"`
}

type Render struct {
	DotBinary     string `yaml:"dot_binary"`
	Quality       string `yaml:"quality" validate:"oneof=standard high"`
	MaxConcurrent int64  `yaml:"max_concurrent" validate:"gte=1"`
}

type Store struct {
	Backend     string `yaml:"backend" validate:"oneof=fs s3"`
	S3Bucket    string `yaml:"s3_bucket" validate:"required_if=Backend s3"`
	S3Region    string `yaml:"s3_region"`
	S3Endpoint  string `yaml:"s3_endpoint"`
	S3AccessKey string `yaml:"s3_access_key"`
	S3SecretKey string `yaml:"s3_secret_key"`
	S3Prefix    string `yaml:"s3_prefix"`
}

type OCR struct {
	Enabled   bool     `yaml:"enabled"`
	Languages []string `yaml:"languages"`
}

func Default() Config {
	return Config{
		Port:     "8081",
		DataRoot: "./projects",
		LLM: LLM{
			Provider:      "ollama",
			OllamaURL:     "http://localhost:11434",
			MaxConcurrent: 2,
			Timeout:       90 * time.Second,
		},
		Render: Render{
			DotBinary:     "dot",
			Quality:       "high",
			MaxConcurrent: 4,
		},
		Store: Store{Backend: "fs", S3Region: "us-east-1"},
		OCR:   OCR{Languages: []string{"eng"}},
	}
}

// Load reads .env, then the YAML file named by PFD_CONFIG, then the
// environment; later sources win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("PFD_CONFIG"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func applyEnv(c *Config) error {
	str(&c.Port, "PORT")
	str(&c.DataRoot, "DATA_ROOT")
	str(&c.LLM.Provider, "LLM_PROVIDER")
	str(&c.LLM.Model, "LLM_MODEL")
	str(&c.LLM.VisionModel, "LLM_VISION_MODEL")
	str(&c.LLM.OllamaURL, "OLLAMA_URL")
	str(&c.LLM.OllamaKey, "OLLAMA_API_KEY")
	str(&c.LLM.OpenAIURL, "OPENAI_BASE_URL")
	str(&c.LLM.OpenAIKey, "OPENAI_API_KEY")
	str(&c.Render.DotBinary, "DOT_BINARY")
	str(&c.Render.Quality, "RENDER_QUALITY")
	str(&c.Store.Backend, "STORE_BACKEND")
	str(&c.Store.S3Bucket, "AWS_BUCKET")
	str(&c.Store.S3Region, "AWS_REGION")
	str(&c.Store.S3Endpoint, "AWS_ENDPOINT")
	str(&c.Store.S3AccessKey, "AWS_ACCESS_KEY")
	str(&c.Store.S3SecretKey, "AWS_SECRET_KEY")
	str(&c.Store.S3Prefix, "AWS_PREFIX")
	if v := os.Getenv("OCR_LANGUAGES"); v != "" {
		c.OCR.Languages = strings.Split(v, ",")
	}

	for _, f := range []struct {
		key string
		fn  func(string) error
	}{
		{"DEBUG", boolean(&c.Debug)},
		{"LOG_JSON", boolean(&c.LogJSON)},
		{"OCR_ENABLED", boolean(&c.OCR.Enabled)},
		{"LLM_MAX_CONCURRENT", integer(&c.LLM.MaxConcurrent)},
		{"RENDER_MAX_CONCURRENT", integer(&c.Render.MaxConcurrent)},
		{"LLM_TIMEOUT", duration(&c.LLM.Timeout)},
	} {
		v := os.Getenv(f.key)
		if v == "" {
			continue
		}
		if err := f.fn(v); err != nil {
			return fmt.Errorf("config: %s: %w", f.key, err)
		}
	}
	return nil
}

func str(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func boolean(dst *bool) func(string) error {
	return func(v string) (err error) {
		*dst, err = strconv.ParseBool(v)
		return err
	}
}

func integer(dst *int64) func(string) error {
	return func(v string) (err error) {
		*dst, err = strconv.ParseInt(v, 10, 64)
		return err
	}
}

func duration(dst *time.Duration) func(string) error {
	return func(v string) (err error) {
		*dst, err = time.ParseDuration(v)
		return err
	}
}
