// config предоставляет структуру конфигурации клиента и функции
// загрузки из файла/переменных окружения с предсказуемым приоритетом.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Бэкенды хранилища учётных данных.
const (
	StoreFile  = "file"
	StoreRedis = "redis"
)

// Config — корневая конфигурация клиента.
// Источники значений (по убыванию приоритета):
//  1. явный путь через флаг --config;
//  2. путь в переменной окружения CONFIG_PATH;
//  3. файл local.yaml из рабочей директории;
//  4. переменные окружения (cleanenv).
type Config struct {
	Env     string        `yaml:"env" env:"ENV" env-default:"local"`
	API     APIConfig     `yaml:"api"`
	Store   StoreConfig   `yaml:"store"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// APIConfig — параметры подключения к бэкенду WaxiPay.
type APIConfig struct {
	// BaseURL — базовый адрес API, например https://api.waxipay.sn/api.
	BaseURL string `yaml:"base_url" env:"API_BASE_URL" env-required:"true"`
	// Timeout — фиксированный таймаут каждого сетевого вызова.
	Timeout time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"30s"`
}

// StoreConfig — хранилище учётных данных (сессия переживает перезапуск).
type StoreConfig struct {
	// Backend — "file" (по умолчанию) или "redis".
	Backend string `yaml:"backend" env:"STORE_BACKEND" env-default:"file"`
	// Path — путь к файлу сессии для backend=file.
	Path string `yaml:"path" env:"STORE_PATH" env-default:".waxipay/session.json"`
	// RedisURL — адрес Redis для backend=redis (redis://:pass@host:6379/0).
	RedisURL string `yaml:"redis_url" env:"STORE_REDIS_URL"`
	// RedisKey — ключ сессии в Redis; пустой — ключ по умолчанию.
	RedisKey string `yaml:"redis_key" env:"STORE_REDIS_KEY"`
}

// MetricsConfig — счётчики Prometheus; выключены, пока не задан адрес.
type MetricsConfig struct {
	// Addr — адрес HTTP-эндпоинта /metrics, например 127.0.0.1:9105.
	// Пустое значение — метрики не снимаются и слушатель не поднимается.
	Addr string `yaml:"addr" env:"METRICS_ADDR"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// ВАЖНО: после чтения файла накладываем ENV-переменные поверх значений из YAML.
func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 1) --config
	if path != "" {
		return tryRead(path)
	}

	// 2) CONFIG_PATH
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	// 3) ./local.yaml
	if _, err := os.Stat("local.yaml"); err == nil {
		if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("failed to read local.yaml: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 4) только ENV
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	return &cfg, nil
}
