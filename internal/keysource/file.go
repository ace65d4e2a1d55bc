package keysource

import (
	"context"
	"fmt"
	"os"
	"strings"
)

type fileConfig struct {
	Path string `json:"path"`
}

type fileSource struct {
	path string
}

func init() {
	Register("file", createFileSource)
}

func createFileSource(args interface{}) (Source, error) {
	cfg := &fileConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("file key source path is required")
	}
	return &fileSource{path: cfg.Path}, nil
}

func (s *fileSource) Fetch(ctx context.Context) (string, error) {
	_ = ctx
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read api key file: %w", err)
	}
	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", fmt.Errorf("api key file %s is empty", s.path)
	}
	return key, nil
}
