package indicator

import (
	"sort"
	"sync"

	"github.com/rxtech-lab/argo-bars/internal/types"
	"github.com/rxtech-lab/argo-bars/pkg/errors"
)

// IndicatorRegistry manages all available indicators.
type IndicatorRegistry interface {
	RegisterIndicator(descriptor Descriptor) error
	GetIndicator(name types.IndicatorType) (Descriptor, error)
	ListIndicators() []types.IndicatorType
	RemoveIndicator(name types.IndicatorType) error
}

// IndicatorRegistryV1 manages all available indicators.
type IndicatorRegistryV1 struct {
	indicators map[types.IndicatorType]Descriptor
	mu         sync.RWMutex
}

// NewIndicatorRegistry creates an empty indicator registry.
func NewIndicatorRegistry() IndicatorRegistry {
	return &IndicatorRegistryV1{
		indicators: make(map[types.IndicatorType]Descriptor),
		mu:         sync.RWMutex{},
	}
}

// NewDefaultRegistry creates a registry holding every built-in indicator.
func NewDefaultRegistry() IndicatorRegistry {
	registry := NewIndicatorRegistry()

	for _, descriptor := range builtinIndicators() {
		// built-in names are unique
		_ = registry.RegisterIndicator(descriptor)
	}

	return registry
}

func builtinIndicators() []Descriptor {
	return []Descriptor{
		NewSMA(),
		NewEMA(),
		NewWMA(),
		NewDEMA(),
		NewRSI(),
		NewMOM(),
		NewROC(),
		NewSTDDEV(),
		NewMAX(),
		NewMIN(),
		NewWILLR(),
		NewCCI(),
		NewATR(),
		NewBollingerBands(),
		NewMACD(),
		NewOBV(),
	}
}

// RegisterIndicator adds an indicator to the registry.
func (r *IndicatorRegistryV1) RegisterIndicator(descriptor Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if descriptor.Name == "" || descriptor.Compute == nil {
		return errors.New(errors.ErrCodeInvalidParameter, "indicator needs a name and a compute function")
	}

	if _, exists := r.indicators[descriptor.Name]; exists {
		return errors.Newf(errors.ErrCodeIndicatorAlreadyExists, "indicator with name %s already registered", descriptor.Name)
	}

	r.indicators[descriptor.Name] = descriptor

	return nil
}

// GetIndicator retrieves an indicator by name.
func (r *IndicatorRegistryV1) GetIndicator(name types.IndicatorType) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descriptor, exists := r.indicators[name]
	if !exists {
		return Descriptor{}, errors.Newf(errors.ErrCodeIndicatorNotFound, "indicator with name %s not found", name)
	}

	return descriptor, nil
}

// ListIndicators returns all registered indicator names in sorted order.
func (r *IndicatorRegistryV1) ListIndicators() []types.IndicatorType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]types.IndicatorType, 0, len(r.indicators))
	for name := range r.indicators {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	return names
}

// RemoveIndicator removes an indicator from the registry.
func (r *IndicatorRegistryV1) RemoveIndicator(name types.IndicatorType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.indicators[name]; !exists {
		return errors.Newf(errors.ErrCodeIndicatorNotFound, "indicator with name %s not found", name)
	}

	delete(r.indicators, name)

	return nil
}
