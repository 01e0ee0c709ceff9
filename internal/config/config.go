package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	YouTube      YouTubeConfig      `yaml:"youtube"`
	Reddit       RedditConfig       `yaml:"reddit"`
	GoogleTrends GoogleTrendsConfig `yaml:"google_trends"`
	Generate     GenerateConfig     `yaml:"generate"`
	Paths        PathsConfig        `yaml:"paths"`
	Ollama       OllamaConfig       `yaml:"ollama"`
	Telegram     TelegramConfig     `yaml:"telegram"`
}

type YouTubeConfig struct {
	APIKey   string        `yaml:"api_key"`
	Region   string        `yaml:"region"`
	MaxItems int           `yaml:"max_items"`
	Timeout  time.Duration `yaml:"timeout"`
}

type RedditConfig struct {
	ClientID     string        `yaml:"client_id"`
	ClientSecret string        `yaml:"client_secret"`
	UserAgent    string        `yaml:"user_agent"`
	Subreddits   []string      `yaml:"subreddits"`
	Limit        int           `yaml:"limit"`
	Timeout      time.Duration `yaml:"timeout"`
}

type GoogleTrendsConfig struct {
	Enabled bool          `yaml:"enabled"`
	Geo     string        `yaml:"geo"`
	Timeout time.Duration `yaml:"timeout"`
}

// GenerateConfig controls the idea generator. FallbackProbability is the
// chance a category value is drawn from the default list even when seeds
// are available.
type GenerateConfig struct {
	Draws               int     `yaml:"draws"`
	Keep                int     `yaml:"keep"`
	FallbackProbability float64 `yaml:"fallback_probability"`
	MinDuration         int     `yaml:"min_duration"`
	MaxDuration         int     `yaml:"max_duration"`
	AspectRatio         string  `yaml:"aspect_ratio"`
	Scoring             string  `yaml:"scoring"` // off | heuristic | llm
}

type PathsConfig struct {
	Seeds    string `yaml:"seeds"`
	Canon    string `yaml:"canon"`
	OutDir   string `yaml:"out_dir"`
	Database string `yaml:"database"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
	// PackURL is linked at the end of the pack message when set.
	PackURL string `yaml:"pack_url"`
}

type OllamaConfig struct {
	Address  string `yaml:"address"`
	Model    string `yaml:"model"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Default returns the configuration used when no YAML file is present.
func Default() *Config {
	return &Config{
		YouTube: YouTubeConfig{
			Region:   "US",
			MaxItems: 30,
			Timeout:  20 * time.Second,
		},
		Reddit: RedditConfig{
			UserAgent:  "baxter-trends/1.0",
			Subreddits: []string{"funny", "contagiouslaughter", "MadeMeSmile"},
			Limit:      30,
			Timeout:    15 * time.Second,
		},
		GoogleTrends: GoogleTrendsConfig{
			Enabled: true,
			Geo:     "US",
			Timeout: 15 * time.Second,
		},
		Generate: GenerateConfig{
			Draws:               60,
			Keep:                30,
			FallbackProbability: 0.15,
			MinDuration:         10,
			MaxDuration:         20,
			AspectRatio:         "16:9",
			Scoring:             "heuristic",
		},
		Paths: PathsConfig{
			Seeds:    "seeds.json",
			Canon:    "cat.json",
			OutDir:   "public",
			Database: "data/ideapack.db",
		},
		Ollama: OllamaConfig{
			Address: "http://localhost:11434",
			Model:   "gemma3:4b",
		},
	}
}

func Load(path string) (*Config, error) {
	// .env never overrides variables already present in the process.
	_ = godotenv.Load(".env")

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv overrides config fields with environment variables when set.
// Env vars take precedence over YAML config values.
func applyEnv(cfg *Config) {
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		cfg.YouTube.APIKey = v
	}
	if v := os.Getenv("REDDIT_CLIENT_ID"); v != "" {
		cfg.Reddit.ClientID = v
	}
	if v := os.Getenv("REDDIT_CLIENT_SECRET"); v != "" {
		cfg.Reddit.ClientSecret = v
	}
	if v := os.Getenv("REDDIT_USER_AGENT"); v != "" {
		cfg.Reddit.UserAgent = v
	}
	if v := os.Getenv("OLLAMA_ADDRESS"); v != "" {
		cfg.Ollama.Address = v
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		cfg.Ollama.Model = v
	}
	if v := os.Getenv("OLLAMA_USERNAME"); v != "" {
		cfg.Ollama.Username = v
	}
	if v := os.Getenv("OLLAMA_PASSWORD"); v != "" {
		cfg.Ollama.Password = v
	}
	if v := os.Getenv("TG_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TG_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
}
