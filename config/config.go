package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Server struct {
	Host         string        `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port         int           `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	PublicURL    string        `yaml:"public_url" env:"SERVER_PUBLIC_URL" env-default:"http://localhost:8080"`
	JWTSecret    string        `env:"JWT_SECRET" env-required:"true"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"60s"`
}

type Redis struct {
	Endpoint string `yaml:"endpoint" env:"REDIS_ENDPOINT"`
}

type OpenAI struct {
	APIKey  string `env:"OPENAI_API_KEY"`
	BaseURL string `yaml:"base_url" env:"OPENAI_BASE_URL"`
}

type DeepSeek struct {
	APIKey  string `env:"DEEPSEEK_API_KEY"`
	BaseURL string `yaml:"base_url" env:"DEEPSEEK_BASE_URL" env-default:"https://api.deepseek.com/v1"`
}

type Ollama struct {
	BaseURL string `yaml:"base_url" env:"OLLAMA_BASE_URL" env-default:"http://localhost:11434"`
}

type Offline struct {
	Model    string `yaml:"model" env:"OFFLINE_MODEL" env-default:"nova-mini"`
	ModelURL string `yaml:"model_url" env:"OFFLINE_MODEL_URL"`
	CacheDir string `yaml:"cache_dir" env:"OFFLINE_CACHE_DIR" env-default:".nova/models"`
}

type Weather struct {
	APIKey  string `env:"WEATHER_API_KEY"`
	BaseURL string `yaml:"base_url" env:"WEATHER_API_URL" env-default:"https://api.weatherapi.com/v1"`
}

type News struct {
	APIKey  string `env:"NEWS_API_KEY"`
	BaseURL string `yaml:"base_url" env:"NEWS_API_URL" env-default:"https://newsapi.org/v2"`
}

type TMDB struct {
	APIKey       string `env:"TMDB_API_KEY"`
	BaseURL      string `yaml:"base_url" env:"TMDB_API_URL" env-default:"https://api.themoviedb.org/3"`
	ImageBaseURL string `yaml:"image_base_url" env:"TMDB_IMAGE_URL" env-default:"https://image.tmdb.org/t/p/original"`
}

type Search struct {
	BaseURL string `yaml:"base_url" env:"SEARCH_API_URL" env-default:"https://api.duckduckgo.com"`
}

type Quota struct {
	DailyImageLimit  int `yaml:"daily_image_limit" env-default:"10"`
	DailySearchLimit int `yaml:"daily_search_limit" env-default:"10"`
}

type ModelEntry struct {
	Name      string `yaml:"name"`
	ID        string `yaml:"id"`
	Kind      string `yaml:"kind"`
	MaxTokens int    `yaml:"max_tokens"`
}

type RoleModels struct {
	Role   string   `yaml:"role"`
	Models []string `yaml:"models"`
}

type Chat struct {
	Models               []ModelEntry  `yaml:"models"`
	AccessModelsPerRoles []RoleModels  `yaml:"access_models_per_roles"`
	DefaultModel         string        `yaml:"default_model" env-default:"gpt-4o-mini"`
	ModelTemperature     float32       `yaml:"model_temperature" env-default:"0.7"`
	ProviderTimeout      time.Duration `yaml:"provider_timeout" env-default:"30s"`
	DeepThinkDelay       time.Duration `yaml:"deepthink_delay" env-default:"1500ms"`
	HistoryTokenLimit    int           `yaml:"history_token_limit" env-default:"3500"`
}

type Users struct {
	AdminEmailList   []string `yaml:"admin_emails" env:"ADMIN_EMAILS" env-separator:","`
	PremiumEmailList []string `yaml:"premium_emails" env:"PREMIUM_EMAILS" env-separator:","`
}

type Log struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

type Config struct {
	Server   Server   `yaml:"server"`
	Redis    Redis    `yaml:"redis"`
	OpenAI   OpenAI   `yaml:"openai"`
	DeepSeek DeepSeek `yaml:"deepseek"`
	Ollama   Ollama   `yaml:"ollama"`
	Offline  Offline  `yaml:"offline"`
	Weather  Weather  `yaml:"weather"`
	News     News     `yaml:"news"`
	TMDB     TMDB     `yaml:"tmdb"`
	Search   Search   `yaml:"search"`
	Quota    Quota    `yaml:"quota"`
	Chat     Chat     `yaml:"chat"`
	Users    Users    `yaml:"users"`
	Log      Log      `yaml:"log"`
}

func LoadConfig(cfgPath string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(cfgPath, &cfg); err != nil {
		return nil, err
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
