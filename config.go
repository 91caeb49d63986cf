package chainz

import (
	"errors"
	"fmt"
	"sync"

	"github.com/goccy/go-yaml"
)

// ChainConfig is the declarative form of a chain: a name, an ordered
// list of registered stage names, and optional null-tolerance settings.
// A config says nothing about shapes - those come from the registered
// stages, and Build validates the pairings with the same resolution
// table And uses.
//
// Example document:
//
//	name: greeting
//	stages:
//	  - fetch-greeting
//	  - upper
//	default: "Hello"
type ChainConfig struct {
	Default  any      `yaml:"default"`
	Name     string   `yaml:"name"`
	Stages   []string `yaml:"stages"`
	Tolerant bool     `yaml:"tolerant"`
}

// ParseConfig decodes a YAML chain definition.
func ParseConfig(data []byte) (ChainConfig, error) {
	var cfg ChainConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ChainConfig{}, fmt.Errorf("parse chain config: %w", err)
	}
	if cfg.Name == "" {
		return ChainConfig{}, errors.New("chain config requires a name")
	}
	if len(cfg.Stages) == 0 {
		return ChainConfig{}, fmt.Errorf("chain config %q requires at least one stage", cfg.Name)
	}
	return cfg, nil
}

// Registry maps stage names to lifted stages so chains can be assembled
// from configuration. It is safe for concurrent use.
type Registry struct {
	stages map[Name]Stage
	mu     sync.RWMutex
}

// NewRegistry creates an empty stage registry.
func NewRegistry() *Registry {
	return &Registry{stages: make(map[Name]Stage)}
}

// Register adds a stage under its own name. Registering two stages with
// the same name is an error; a registry entry is never silently
// replaced.
func (r *Registry) Register(stage Stage) error {
	if stage.run == nil {
		panic("Register requires a wrapped stage")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.stages[stage.name]; exists {
		return fmt.Errorf("stage %q already registered", stage.name)
	}
	r.stages[stage.name] = stage
	return nil
}

// Lookup returns the stage registered under name.
func (r *Registry) Lookup(name Name) (Stage, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stage, ok := r.stages[name]
	return stage, ok
}

// Build assembles a Chain from a parsed config. Each stage name must be
// registered (ErrUnknownStage otherwise), each pairing must be defined
// by the resolution table (ErrInvalidComposition otherwise), and the
// default/tolerant settings must match the resulting chain's shape.
func (r *Registry) Build(cfg ChainConfig) (*Chain, error) {
	if len(cfg.Stages) == 0 {
		return nil, fmt.Errorf("chain %q requires at least one stage", cfg.Name)
	}
	head, ok := r.Lookup(cfg.Stages[0])
	if !ok {
		return nil, fmt.Errorf("chain %q: %w: %q", cfg.Name, ErrUnknownStage, cfg.Stages[0])
	}
	chain := NewChain(cfg.Name, head)

	for _, name := range cfg.Stages[1:] {
		stage, ok := r.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("chain %q: %w: %q", cfg.Name, ErrUnknownStage, name)
		}
		if err := chain.And(stage); err != nil {
			return nil, fmt.Errorf("chain %q: stage %q: %w", cfg.Name, name, err)
		}
	}

	if cfg.Default != nil {
		if err := chain.WithDefault(cfg.Default); err != nil {
			return nil, fmt.Errorf("chain %q: %w", cfg.Name, err)
		}
	}
	if cfg.Tolerant {
		if err := chain.Tolerant(); err != nil {
			return nil, fmt.Errorf("chain %q: %w", cfg.Name, err)
		}
	}
	return chain, nil
}
