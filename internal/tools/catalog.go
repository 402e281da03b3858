package tools

import (
	"sejmlex/internal/logging"
	"sejmlex/internal/service"
	"sejmlex/internal/store"
)

// DefaultLimit caps list-producing tools unless the caller asks for more.
const DefaultLimit = 20

// Deps are the services the catalog dispatches to.
type Deps struct {
	Metadata *service.MetadataService
	Search   *service.SearchService
	Changes  *service.ChangesService
	Acts     *service.ActService
	Docs     *store.DocumentStore
	Results  *store.ResultSetStore
	Logger   logging.Logger
}

// NewCatalog builds the registry with the full tool catalog.
func NewCatalog(deps Deps) *Registry {
	registry := NewRegistry(deps.Logger)

	registerMetadataTool(registry, deps)
	registerSearchTools(registry, deps)
	registerActTools(registry, deps)
	registerStoreTools(registry, deps)
	registerUtilityTools(registry, deps)

	return registry
}

// schema builds a JSON-schema object description for tools/list.
func schema(props map[string]any, required ...string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func prop(typ, description string) map[string]any {
	return map[string]any{"type": typ, "description": description}
}

func arrayProp(itemType, description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": itemType},
		"description": description,
	}
}
