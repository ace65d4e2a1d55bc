package keysource

import (
	"context"
	"fmt"
	"os"
	"strings"
)

type envConfig struct {
	Name string `json:"name"`
}

type envSource struct {
	name string
}

func init() {
	Register("env", createEnvSource)
}

func createEnvSource(args interface{}) (Source, error) {
	cfg := &envConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = "OPENAI_API_KEY"
	}
	return &envSource{name: cfg.Name}, nil
}

func (s *envSource) Fetch(ctx context.Context) (string, error) {
	_ = ctx
	key := strings.TrimSpace(os.Getenv(s.name))
	if key == "" {
		return "", fmt.Errorf("environment variable %s is not set", s.name)
	}
	return key, nil
}
