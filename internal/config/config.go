package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env           string            `yaml:"env" env:"ENV" env-default:"local"`
	DSN           string            `yaml:"dsn" env:"DATABASE_URL" env-required:"true"`
	TokenTTL      time.Duration     `yaml:"token_ttl" env-default:"12h"`
	TokenSecret   string            `yaml:"token_secret" env:"TOKEN_SECRET" env-required:"true"`
	SessionSecret string            `yaml:"session_secret" env:"SESSION_SECRET" env-required:"true"`
	HTTP          HTTPConfig        `yaml:"http"`
	FileStorage   FileStorageConfig `yaml:"file_storage"`
	S3            S3Config          `yaml:"s3"`
	Redis         RedisConf         `yaml:"redis"`
	Cache         CacheConfig       `yaml:"cache"`
	Admin         AdminConfig       `yaml:"admin"`
}

type HTTPConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port" env:"PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

type FileStorageConfig struct {
	// local | s3
	Driver     string `yaml:"driver" env-default:"local"`
	BaseDir    string `yaml:"base_dir" env-default:"./uploads"`
	BaseURL    string `yaml:"base_url" env-default:"/uploads"`
	PublicPath string `yaml:"public_path" env-default:"/uploads"`
	MaxSize    int64  `yaml:"max_size" env-default:"52428800"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket" env:"S3_BUCKET"`
	Region    string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	Endpoint  string `yaml:"endpoint" env:"S3_ENDPOINT"`
	AccessKey string `yaml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"S3_SECRET_KEY"`
	Prefix    string `yaml:"prefix"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string `yaml:"redispassword" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db"`
}

type CacheConfig struct {
	TTL time.Duration `yaml:"ttl" env-default:"5m"`
}

// AdminConfig учетная запись администратора, которую создает команда seed
type AdminConfig struct {
	Login    string `yaml:"login" env:"ADMIN_LOGIN" env-default:"admin"`
	Password string `yaml:"password" env:"ADMIN_PASSWORD"`
}

// Load читает конфиг по пути из флага --config, иначе из CONFIG_PATH
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	// check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	return &cfg, nil
}

func MustLoadPath(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err.Error())
	}

	return cfg
}
