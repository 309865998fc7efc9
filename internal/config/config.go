package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
}

type FileConfig struct {
	Path string `yaml:"path"`
}

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// StorageConfig selects and parameterizes the document store driver.
type StorageConfig struct {
	Driver string      `yaml:"driver"` // file, memory, postgres, redis
	File   FileConfig  `yaml:"file"`
	DB     DBConfig    `yaml:"db"`
	Redis  RedisConfig `yaml:"redis"`
}

type MQConfig struct {
	URL string `yaml:"url"` // empty disables event publishing
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	JWT     JWTConfig     `yaml:"jwt"`
	Storage StorageConfig `yaml:"storage"`
	MQ      MQConfig      `yaml:"mq"`
}

// Load reads config.yaml when present, starts from defaults otherwise, then
// applies environment overrides. Environment always wins.
func Load() *Config {
	cfg := defaults()

	f, err := os.Open("config.yaml")
	if err == nil {
		defer f.Close()
		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(cfg); err != nil {
			log.Fatalf("failed to decode config.yaml: %v", err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("failed to open config.yaml: %v", err)
	}

	overrideFromEnv(cfg)
	return cfg
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{Port: ":8080"},
		JWT:    JWTConfig{Secret: "flatboard-dev-secret"},
		Storage: StorageConfig{
			Driver: "file",
			File:   FileConfig{Path: "data.json"},
			DB:     DBConfig{Host: "localhost", Port: 5432, User: "flatboard", Name: "flatboard"},
			Redis:  RedisConfig{Addr: "localhost:6379"},
		},
	}
}

func overrideFromEnv(cfg *Config) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}
	if driver := os.Getenv("STORAGE_DRIVER"); driver != "" {
		cfg.Storage.Driver = driver
	}
	if path := os.Getenv("STORAGE_FILE_PATH"); path != "" {
		cfg.Storage.File.Path = path
	}
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Storage.DB.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Storage.DB.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Storage.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Storage.DB.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Storage.DB.Name = name
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Storage.Redis.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Storage.Redis.Password = password
	}
	if url := os.Getenv("MQ_URL"); url != "" {
		cfg.MQ.URL = url
	}
}
