package modules

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"regexp"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/aretw0/deckcal/internal/logging"
	"github.com/aretw0/deckcal/internal/shareddata"
	"github.com/aretw0/deckcal/pkg/domain"
)

const (
	v1BundlePath   = "module/definitions/1.json"
	v2DefinitionFS = "module/definitions/2"
	v2SchemaPath   = "module/schemas/2.json"
)

var schemaTagPattern = regexp.MustCompile(`^module/schemas/([0-9]+)$`)

// Loader reads module definitions from an artifact tree and builds
// geometries from them.
type Loader struct {
	fsys   fs.FS
	logger *slog.Logger

	schemaOnce sync.Once
	schema     *openapi3.Schema
	schemaErr  error
}

// LoaderOption configures the Loader.
type LoaderOption func(*Loader)

// WithLogger sets the sink for definition diagnostics.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithFS replaces the embedded definition artifacts. v2 documents are
// always validated against the embedded schema.
func WithFS(fsys fs.FS) LoaderOption {
	return func(l *Loader) {
		l.fsys = fsys
	}
}

// NewLoader creates a Loader backed by the bundled definitions.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		fsys:   shareddata.FS(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var defaultLoader = NewLoader()

// LoadModule loads the bundled definition of model and builds it on parent
// using the default Loader.
func LoadModule(ctx context.Context, model Model, parent domain.Location, apiLevel domain.APIVersion) (*ModuleGeometry, error) {
	return defaultLoader.LoadModule(ctx, model, parent, apiLevel)
}

// LoadModuleFromDefinition builds def on parent using the default Loader.
func LoadModuleFromDefinition(ctx context.Context, def Definition, parent domain.Location, apiLevel domain.APIVersion) (*ModuleGeometry, error) {
	return defaultLoader.LoadModuleFromDefinition(ctx, def, parent, apiLevel)
}

// LoadModule is LoadDefinition followed by LoadModuleFromDefinition.
// A zero apiLevel means MaxSupportedVersion.
func (l *Loader) LoadModule(ctx context.Context, model Model, parent domain.Location, apiLevel domain.APIVersion) (*ModuleGeometry, error) {
	apiLevel = effectiveLevel(apiLevel)
	def, err := l.LoadDefinition(ctx, apiLevel, model)
	if err != nil {
		return nil, err
	}
	return l.LoadModuleFromDefinition(ctx, def, parent, apiLevel)
}

// LoadDefinition returns the definition document for model at apiLevel.
// Below V2ModuleDefVersion only the legacy models exist.
func (l *Loader) LoadDefinition(ctx context.Context, apiLevel domain.APIVersion, model Model) (Definition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	apiLevel = effectiveLevel(apiLevel)

	if apiLevel.Less(V2ModuleDefVersion) {
		name, ok := legacyLoadNames[model]
		if !ok {
			return nil, &UnsupportedModuleError{Model: model, APILevel: apiLevel, MinVersion: V2ModuleDefVersion}
		}
		data, err := fs.ReadFile(l.fsys, v1BundlePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read v1 definitions: %w", err)
		}
		var bundle map[string]Definition
		if err := json.Unmarshal(data, &bundle); err != nil {
			return nil, fmt.Errorf("failed to parse v1 definitions: %w", err)
		}
		def, ok := bundle[name]
		if !ok {
			return nil, &UnsupportedModuleError{Model: model, APILevel: apiLevel}
		}
		return def, nil
	}

	if model == "" || strings.ContainsAny(string(model), `/\`) {
		return nil, &UnsupportedModuleError{Model: model, APILevel: apiLevel}
	}
	data, err := fs.ReadFile(l.fsys, path.Join(v2DefinitionFS, string(model)+".json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &UnsupportedModuleError{Model: model, APILevel: apiLevel}
		}
		return nil, fmt.Errorf("failed to read definition for %s: %w", model, err)
	}
	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse definition for %s: %w", model, err)
	}
	return def, nil
}

// LoadModuleFromDefinition builds a geometry from def, placed on parent.
//
// Untagged documents are v1. Documents tagged "module/schemas/2" are
// checked against the bundled schema first; a document that fails the
// check is never built. Any other tag is rejected.
func (l *Loader) LoadModuleFromDefinition(ctx context.Context, def Definition, parent domain.Location, apiLevel domain.APIVersion) (*ModuleGeometry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	apiLevel = effectiveLevel(apiLevel)

	tag, tagged := def[SchemaKey]
	if !tagged || tag == nil || tag == "" {
		return buildFromV1(def, parent, apiLevel)
	}

	if tag == schemaV2 {
		if err := l.validateV2(def); err != nil {
			l.logger.Error("Failed to validate module definition schema", "error", err, "api_level", apiLevel.String())
			return nil, domain.ErrDefinitionInvalid
		}
		return buildFromV2(def, parent, apiLevel)
	}

	if s, ok := tag.(string); ok {
		if m := schemaTagPattern.FindStringSubmatch(s); m != nil {
			return nil, &UnsupportedSchemaError{Version: m[1]}
		}
	}
	l.logger.Error("Bad module definition", "schema", fmt.Sprint(tag))
	return nil, domain.ErrDefinitionInvalid
}

func (l *Loader) validateV2(def Definition) error {
	schema, err := l.loadSchema()
	if err != nil {
		return err
	}
	// Normalize to plain JSON values (float64, []any, map[string]any).
	raw, err := json.Marshal(def)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	return schema.VisitJSON(doc)
}

func (l *Loader) loadSchema() (*openapi3.Schema, error) {
	l.schemaOnce.Do(func() {
		data, err := shareddata.Load(v2SchemaPath)
		if err != nil {
			l.schemaErr = fmt.Errorf("failed to read module schema: %w", err)
			return
		}
		schema := &openapi3.Schema{}
		if err := json.Unmarshal(data, schema); err != nil {
			l.schemaErr = fmt.Errorf("failed to parse module schema: %w", err)
			return
		}
		l.schema = schema
	})
	return l.schema, l.schemaErr
}

func effectiveLevel(v domain.APIVersion) domain.APIVersion {
	if v.IsZero() {
		return MaxSupportedVersion
	}
	return v
}
