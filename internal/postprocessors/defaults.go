package postprocessors

import (
	"github.com/custodia-labs/attachtext/internal/core/domain"
	"github.com/custodia-labs/attachtext/internal/core/ports/driven"
	"github.com/custodia-labs/attachtext/internal/postprocessors/controlchars"
	"github.com/custodia-labs/attachtext/internal/postprocessors/lineendings"
	"github.com/custodia-labs/attachtext/internal/postprocessors/truncate"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register(lineendings.Name, buildLineEndings)
	r.Register(controlchars.Name, buildControlChars)
	r.Register(truncate.Name, buildTruncate)
}

// BuildPipeline creates the normalisation pipeline from settings.
// Line ending normalisation always runs first, whether or not it is listed.
func BuildPipeline(r *Registry, settings []domain.ProcessorSettings) (*Pipeline, error) {
	p := NewPipeline(lineendings.New())
	for _, s := range settings {
		if s.Name == lineendings.Name {
			continue
		}
		processor, err := r.Build(s.Name, s.Options)
		if err != nil {
			return nil, err
		}
		p.Add(processor)
	}
	return p, nil
}

func buildLineEndings(_ map[string]any) (driven.PostProcessor, error) {
	return lineendings.New(), nil
}

func buildControlChars(_ map[string]any) (driven.PostProcessor, error) {
	return controlchars.New(), nil
}

// buildTruncate creates a truncation processor from generic config.
// Supported config keys:
//   - max_bytes (int): Maximum UTF-8 bytes of text kept (default: 1 MiB)
func buildTruncate(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []truncate.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, "max_bytes"); size > 0 {
			opts = append(opts, truncate.WithMaxBytes(size))
		}
	}

	return truncate.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/YAML parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
