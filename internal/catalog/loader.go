package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KevinKickass/OpenPanelIO/internal/types"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Source yields raw catalog entries, e.g. from Postgres.
type Source interface {
	LoadComponentCatalog(ctx context.Context) (map[string]types.ComponentDescriptor, error)
}

type Loader struct {
	validator *Validator
	logger    *zap.Logger
}

func NewLoader(logger *zap.Logger) (*Loader, error) {
	validator, err := NewValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create validator: %w", err)
	}

	return &Loader{
		validator: validator,
		logger:    logger,
	}, nil
}

// LoadFile reads a JSON or YAML (by extension) catalog and validates it.
func (l *Loader) LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
		}
	}

	c, err := l.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	l.logger.Info("Component catalog loaded",
		zap.String("path", path),
		zap.Int("components", c.Len()))

	return c, nil
}

// Parse validates JSON catalog data and decodes it.
func (l *Loader) Parse(data []byte) (*Catalog, error) {
	if err := l.validator.Validate(data); err != nil {
		return nil, err
	}

	var entries map[string]types.ComponentDescriptor
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}

	return New(entries), nil
}

// LoadSource reads a catalog from src and validates it like a file.
func (l *Loader) LoadSource(ctx context.Context, src Source) (*Catalog, error) {
	entries, err := src.LoadComponentCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog: %w", err)
	}

	c, err := l.Parse(data)
	if err != nil {
		return nil, err
	}

	l.logger.Info("Component catalog loaded from database", zap.Int("components", c.Len()))
	return c, nil
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
