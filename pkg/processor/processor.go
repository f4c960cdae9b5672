// Package processor materializes ONDC usecase documents from their JSON
// schemas. A schema is first walked into a template (every `const` becomes a
// concrete value), then static values from a YAML file and dynamic resolvers
// are overlaid at dot-separated paths, and the final document is validated
// against the schema.
package processor

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// Processor builds a usecase document from a schema plus static and dynamic
// values
type Processor struct {
	schema     map[string]any
	validator  *openapi3.Schema
	static     map[string]any
	parsed     map[string]any
	resolvers  []dynamicResolver
	httpClient *http.Client
}

type dynamicResolver struct {
	path     string
	resolver Resolver
}

// Option is a functional option for Processor configuration
type Option func(*Processor) error

// WithValuesFile loads static values from a YAML file. Keys are
// dot-separated paths (e.g. "context.location.city").
func WithValuesFile(path string) Option {
	return func(p *Processor) error {
		raw, err := os.ReadFile(path)
		if err != nil {
			return goerr.Wrap(err, "failed to read static values file", goerr.V("path", path))
		}

		var values map[string]any
		if err := yaml.Unmarshal(raw, &values); err != nil {
			return goerr.Wrap(err, "failed to parse static values YAML", goerr.V("path", path))
		}

		for k, v := range values {
			p.static[k] = v
		}
		return nil
	}
}

// WithValues merges static values given directly. Keys are dot-separated
// paths.
func WithValues(values map[string]any) Option {
	return func(p *Processor) error {
		for k, v := range values {
			p.static[k] = v
		}
		return nil
	}
}

// WithHTTPClient overrides the HTTP client used by URL resolvers
func WithHTTPClient(client *http.Client) Option {
	return func(p *Processor) error {
		p.httpClient = client
		return nil
	}
}

// New creates a Processor for the given usecase schema
func New(schema map[string]any, opts ...Option) (*Processor, error) {
	// "$schema" is metadata for schema tooling, not a validation keyword.
	cleaned := make(map[string]any, len(schema))
	for k, v := range schema {
		if k == "$schema" {
			continue
		}
		cleaned[k] = v
	}

	// kin-openapi does not know the `const` keyword, so the validator is
	// compiled from a copy where each const becomes a single-value enum,
	// which it does enforce.
	raw, err := json.Marshal(constToEnum(cleaned))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode usecase schema")
	}

	var validator openapi3.Schema
	if err := validator.UnmarshalJSON(raw); err != nil {
		return nil, goerr.Wrap(err, "failed to compile usecase schema")
	}

	p := &Processor{
		schema:     cleaned,
		validator:  &validator,
		static:     map[string]any{},
		httpClient: http.DefaultClient,
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// StaticResolve builds the usecase template from the schema and overlays all
// static values
func (p *Processor) StaticResolve() error {
	template := templateFromSchema(p.schema)

	doc, ok := template.(map[string]any)
	if !ok {
		return goerr.New("usecase schema does not describe an object",
			goerr.V("type", p.schema["type"]),
		)
	}

	for path, value := range p.static {
		setNestedValue(doc, path, value)
	}

	p.parsed = doc
	return nil
}

// AddDynamicResolver registers a resolver whose value is set at the given
// dot-separated path during DynamicResolve. Resolvers apply in registration
// order.
func (p *Processor) AddDynamicResolver(path string, resolver Resolver) {
	p.resolvers = append(p.resolvers, dynamicResolver{path: path, resolver: resolver})
}

// DynamicResolve evaluates all registered resolvers and writes their values
// into the usecase document
func (p *Processor) DynamicResolve(ctx context.Context) error {
	if p.parsed == nil {
		if err := p.StaticResolve(); err != nil {
			return err
		}
	}

	doc := deepCopy(p.parsed).(map[string]any)

	for _, entry := range p.resolvers {
		value, err := entry.resolver.resolve(ctx, p.httpClient)
		if err != nil {
			return goerr.Wrap(err, "dynamic resolver failed", goerr.V("path", entry.path))
		}
		setNestedValue(doc, entry.path, value)
	}

	p.parsed = doc
	return nil
}

// Document returns the current materialized document without validating it
func (p *Processor) Document() map[string]any {
	return p.parsed
}

// ParsedUsecase validates the current document against the schema and
// returns it
func (p *Processor) ParsedUsecase() (map[string]any, error) {
	if p.parsed == nil {
		return nil, goerr.New("usecase not resolved yet")
	}

	if err := p.validator.VisitJSON(p.parsed, openapi3.MultiErrors()); err != nil {
		return nil, goerr.Wrap(err, "usecase document does not satisfy schema")
	}

	return p.parsed, nil
}

// templateFromSchema walks the schema into a document template. A `const`
// value is taken as-is; objects and arrays recurse; anything else is left as
// a schema summary for later overlay.
func templateFromSchema(schema map[string]any) any {
	if v, ok := schema["const"]; ok {
		return v
	}

	schemaType, _ := schema["type"].(string)

	if schemaType == "object" {
		if props, ok := schema["properties"].(map[string]any); ok {
			out := make(map[string]any, len(props))
			for key, prop := range props {
				if propSchema, ok := prop.(map[string]any); ok {
					out[key] = templateFromSchema(propSchema)
				}
			}
			return out
		}
	}

	if schemaType == "array" {
		if items, ok := schema["items"].(map[string]any); ok {
			return []any{templateFromSchema(items)}
		}
	}

	summary := map[string]any{"type": schemaType}
	for _, key := range []string{"properties", "items", "required", "oneOf", "additionalProperties"} {
		if v, ok := schema[key]; ok {
			summary[key] = v
		}
	}
	return summary
}

// constToEnum rewrites every `const: v` in the schema tree into `enum: [v]`
// so the compiled validator enforces it
func constToEnum(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(tv))
		c, hasConst := tv["const"]
		if hasConst {
			out["enum"] = []any{c}
		}
		for k, item := range tv {
			if k == "const" || (k == "enum" && hasConst) {
				continue
			}
			out[k] = constToEnum(item)
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, item := range tv {
			out[i] = constToEnum(item)
		}
		return out
	default:
		return v
	}
}

// setNestedValue sets a value in a nested document using a dot-separated key
// path, creating intermediate objects as needed
func setNestedValue(doc map[string]any, path string, value any) {
	keys := strings.Split(path, ".")
	current := doc
	for _, key := range keys[:len(keys)-1] {
		next, ok := current[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[key] = next
		}
		current = next
	}
	current[keys[len(keys)-1]] = value
}

// deepCopy clones JSON-like documents (maps, slices, scalars)
func deepCopy(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, item := range tv {
			out[k] = deepCopy(item)
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, item := range tv {
			out[i] = deepCopy(item)
		}
		return out
	default:
		return v
	}
}
