package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type BaseEnv struct {
	Env      string `envconfig:"ENV" default:"local"`
	HTTPHost string `envconfig:"HTTP_HOST" default:""`
	HTTPPort string `envconfig:"HTTP_PORT" default:"3200"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"debug"`
	APIKey   string `envconfig:"API_KEY" required:"true"`
}

type StorageEnv struct {
	// memory keeps the board in process only; local and s3 save snapshots.
	Type    string `envconfig:"STORAGE_TYPE" default:"memory"`
	BaseDir string `envconfig:"STORAGE_BASE_DIR" default:".goalboard/data"`
	// S3 settings (used when Type == "s3")
	S3Bucket string `envconfig:"S3_BUCKET"`
	S3Prefix string `envconfig:"S3_PREFIX" default:"goalboard/"`
	S3Region string `envconfig:"S3_REGION" default:"ap-northeast-1"`
}

type GenerationEnv struct {
	URL     string        `envconfig:"GENERATION_URL" default:"http://localhost:8000/generate-tasks"`
	Timeout time.Duration `envconfig:"GENERATION_TIMEOUT" default:"60s"`
}

type BoardEnv struct {
	Name string `envconfig:"BOARD_NAME" default:"Goals"`
}

type Env struct {
	BaseEnv
	StorageEnv
	GenerationEnv
	BoardEnv
}

const namespace = "GOALBOARD"

func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	switch env.StorageEnv.Type {
	case "memory", "local", "s3":
	default:
		return nil, fmt.Errorf("unknown storage type %q", env.StorageEnv.Type)
	}
	return &env, nil
}

func (e *BaseEnv) SlogLevel() slog.Level {
	if e == nil {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelDebug
	}
	return level
}

func BaseEnvFromEnv(env *Env) *BaseEnv {
	return &env.BaseEnv
}

func StorageEnvFromEnv(env *Env) *StorageEnv {
	return &env.StorageEnv
}

func GenerationEnvFromEnv(env *Env) *GenerationEnv {
	return &env.GenerationEnv
}
