package config

import (
	"fmt"
	"os"
	"time"

	"moviequiz/internal/logger"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Redis  RedisConfig
	LLM    LLMConfig
	OMDB   OMDBConfig
	Logger logger.Config
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// LLMConfig selects the text-generation backend. Source is "openai" or "ollama".
type LLMConfig struct {
	Source    string
	Model     string
	ServerURL string // ollama only
	APIKey    string // openai only
	MaxTokens int
	Timeout   time.Duration
}

type OMDBConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("llm.source", "ollama")
	viper.SetDefault("llm.model", "qwen3:0.6b")
	viper.SetDefault("llm.max_tokens", 400)
	viper.SetDefault("llm.timeout", 20)
	viper.SetDefault("omdb.base_url", "http://www.omdbapi.com/")
	viper.SetDefault("omdb.timeout", 10)
	viper.SetDefault("logger.level", "info")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		LLM: LLMConfig{
			Source:    viper.GetString("llm.source"),
			Model:     viper.GetString("llm.model"),
			ServerURL: viper.GetString("llm.server"),
			APIKey:    viper.GetString("llm.api_key"),
			MaxTokens: viper.GetInt("llm.max_tokens"),
			Timeout:   viper.GetDuration("llm.timeout") * time.Second,
		},
		OMDB: OMDBConfig{
			BaseURL: viper.GetString("omdb.base_url"),
			APIKey:  viper.GetString("omdb.api_key"),
			Timeout: viper.GetDuration("omdb.timeout") * time.Second,
		},
		Logger: logger.Config{
			Level: viper.GetString("logger.level"),
			Env:   os.Getenv("ENV"),
		},
	}

	// Override with environment variables if set
	if llmServer := os.Getenv("LLM_SERVER"); llmServer != "" {
		config.LLM.ServerURL = llmServer
	}
	if openAIKey := os.Getenv("OPENAI_API_KEY"); openAIKey != "" {
		config.LLM.APIKey = openAIKey
	}
	if omdbKey := os.Getenv("OMDB_API_KEY"); omdbKey != "" {
		config.OMDB.APIKey = omdbKey
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}

	return config, nil
}
