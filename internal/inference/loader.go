package inference

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ayush/sustainawatt/internal/config"
)

// ObjectSource fetches model artifacts from object storage.
type ObjectSource interface {
	Download(ctx context.Context, key string) ([]byte, string, error)
}

// Loader resolves artifact names to models according to ModelsConfig.Source.
type Loader struct {
	cfg        config.ModelsConfig
	objects    ObjectSource
	httpClient *http.Client
}

// NewLoader builds a Loader. objects is only consulted for the "minio" source
// and httpClient only for "remote"; either may be nil otherwise.
func NewLoader(cfg config.ModelsConfig, objects ObjectSource, httpClient *http.Client) *Loader {
	return &Loader{cfg: cfg, objects: objects, httpClient: httpClient}
}

func (l *Loader) Load(ctx context.Context, name string) (Model, error) {
	switch l.cfg.Source {
	case "file":
		data, err := os.ReadFile(filepath.Join(l.cfg.Dir, name))
		if err != nil {
			return nil, fmt.Errorf("read model %s: %w", name, err)
		}
		return decodeNamed(data, name)
	case "minio":
		if l.objects == nil {
			return nil, fmt.Errorf("load model %s: no object store configured", name)
		}
		data, _, err := l.objects.Download(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("download model %s: %w", name, err)
		}
		return decodeNamed(data, name)
	case "remote":
		return NewRemoteModel(l.cfg.ServiceURL, name, l.httpClient), nil
	default:
		return nil, fmt.Errorf("unknown model source %q", l.cfg.Source)
	}
}

// Set is the three models the application serves.
type Set struct {
	PowerScore    Model
	PowerGen      Model
	GridStability Model
}

func (l *Loader) LoadSet(ctx context.Context) (*Set, error) {
	var (
		s   Set
		err error
	)
	if s.PowerScore, err = l.Load(ctx, l.cfg.PowerScore); err != nil {
		return nil, err
	}
	if s.PowerGen, err = l.Load(ctx, l.cfg.PowerGen); err != nil {
		return nil, err
	}
	if s.GridStability, err = l.Load(ctx, l.cfg.GridStability); err != nil {
		return nil, err
	}
	return &s, nil
}

func decodeNamed(data []byte, name string) (Model, error) {
	m, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", name, err)
	}
	if m.ModelName == "" {
		m.ModelName = name
	}
	return m, nil
}
