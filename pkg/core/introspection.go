package core

import (
	"fmt"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Key        string `json:"key"`
	StoreType  string `json:"store_type"`
	IDStrategy string `json:"id_strategy"`
	ReadOnly   bool   `json:"read_only"`
	Watchable  bool   `json:"watchable"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	storeType := fmt.Sprintf("%T", r.store)
	if comp, ok := r.store.(introspection.Component); ok {
		storeType = comp.ComponentType()
	}

	_, watchable := r.store.(Watchable)

	return RepositoryState{
		Key:        r.key,
		StoreType:  storeType,
		IDStrategy: fmt.Sprint(r.ids),
		ReadOnly:   r.readOnly,
		Watchable:  watchable,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
