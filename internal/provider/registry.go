package provider

import (
	"fmt"

	"github.com/mohameodo/nova-v5/internal/model"
)

// Registry is the immutable model table built once at startup. It
// resolves user-facing model ids to their configuration and picks the
// backend for each provider kind.
type Registry struct {
	configs   map[string]model.ModelConfig
	order     []string
	providers map[model.ProviderKind]Provider
}

func NewRegistry(configs []model.ModelConfig, providers map[model.ProviderKind]Provider) *Registry {
	byID := make(map[string]model.ModelConfig, len(configs))
	order := make([]string, 0, len(configs))
	for _, cfg := range configs {
		if _, ok := byID[cfg.ID]; ok {
			continue
		}
		byID[cfg.ID] = cfg
		order = append(order, cfg.ID)
	}
	return &Registry{
		configs:   byID,
		order:     order,
		providers: providers,
	}
}

func (r *Registry) Resolve(modelID string) (model.ModelConfig, error) {
	cfg, ok := r.configs[modelID]
	if !ok {
		return model.ModelConfig{}, fmt.Errorf("%w: %s", model.ErrModelNotFound, modelID)
	}
	return cfg, nil
}

func (r *Registry) ProviderFor(kind model.ProviderKind) (Provider, error) {
	p, ok := r.providers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: no provider for kind %s", model.ErrModelNotFound, kind)
	}
	return p, nil
}

func (r *Registry) List() []model.ModelConfig {
	configs := make([]model.ModelConfig, 0, len(r.order))
	for _, id := range r.order {
		configs = append(configs, r.configs[id])
	}
	return configs
}
