package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// Factory creates a Store from a configuration map.
type Factory func(context.Context, map[string]interface{}) (Store, error)

var registry = make(map[string]Factory)

// Register adds a factory to the registry under the given key.
// Implementations call this from an init function.
func Register(key string, f Factory) {
	registry[key] = f
}

// Create creates a Store using the factory registered under key.
func Create(ctx context.Context, key string, conf map[string]interface{}) (Store, error) {
	f, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("key %s not found in registry", key)
	}
	return f(ctx, conf)
}

// CreateNested creates the Store described by the "nested" parameter of conf,
// whose own "type" parameter selects the factory.
// It is for use by stores that wrap other stores.
func CreateNested(ctx context.Context, conf map[string]interface{}) (Store, error) {
	nested, ok := conf["nested"].(map[string]interface{})
	if !ok {
		return nil, errors.New(`missing "nested" parameter`)
	}
	nestedType, ok := nested["type"].(string)
	if !ok {
		return nil, errors.New(`"nested" parameter missing "type"`)
	}
	s, err := Create(ctx, nestedType, nested)
	return s, errors.Wrap(err, "creating nested store")
}

// Keys lists the registered keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
