package registry

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/fluree/vg-engine/internal/config"
	"github.com/fluree/vg-engine/internal/models"
	"github.com/fluree/vg-engine/pkg/errors"
	"github.com/fluree/vg-engine/pkg/nameservice"
)

// Loader constructs an unconstructed VirtualGraph from its nameservice
// descriptor; Registry.Load calls Initialize on the result before caching
// it.
type Loader func(desc models.VGDescriptor) (VirtualGraph, error)

// Validator checks a type's config map at create time (spec §4.1
// "per-type validation").
type Validator func(cfg map[string]any) error

// DepValidator checks a type's declared dependency list at create time
// (spec §4.1's BM25-specific "requires exactly one source ledger" is a
// constraint on dependencies, not config).
type DepValidator func(deps []string) error

// eager reports whether a type constructs and initializes immediately at
// create time rather than lazily on first query reference (spec §4.1:
// "for types whose state must be warm (e.g., BM25), eagerly initialize").
type typeEntry struct {
	loader    Loader
	validator Validator
	depValidator DepValidator
	eager     bool
}

// Registry is the process-wide VG lifecycle owner (spec §3.3
// "Ownership"): create/drop/load, backed by a nameservice for durable
// descriptors and an in-memory cache of live instances. Guarded by a
// single lock for create/drop; Load's cache-hit path is effectively
// lock-free (spec §5 "Shared-resource policy").
type Registry struct {
	mu            sync.Mutex
	ns            nameservice.Service
	defaultBranch string
	artifactsRoot string
	types         map[models.VGType]typeEntry
	loaded        map[string]VirtualGraph
}

// NewRegistry returns a Registry with no registered types; callers wire
// Iceberg/R2RML/BM25 (or any other VGType) via RegisterType.
func NewRegistry(ns nameservice.Service, cfg config.Registry) *Registry {
	return &Registry{
		ns:            ns,
		defaultBranch: cfg.DefaultBranch,
		artifactsRoot: cfg.ArtifactsRoot,
		types:         map[models.VGType]typeEntry{},
		loaded:        map[string]VirtualGraph{},
	}
}

// RegisterType wires a VGType's loader and config validator into the
// registry. eager mirrors spec §4.1: eager types are constructed and
// initialized during Create; lazy types wait for first Load. depValidator
// may be nil for types with no dependency-count constraint.
func (r *Registry) RegisterType(t models.VGType, loader Loader, validator Validator, depValidator DepValidator, eager bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[t] = typeEntry{loader: loader, validator: validator, depValidator: depValidator, eager: eager}
}

// Create validates and persists a new VG definition (spec §4.1 `create`).
func (r *Registry) Create(ctx context.Context, name string, vgType models.VGType, cfg map[string]any, deps []string) (models.VGDescriptor, error) {
	if name == "" || strings.Contains(name, "@") {
		return models.VGDescriptor{}, errors.NewInvalidConfigError("name", "must be non-empty and must not contain '@'")
	}

	r.mu.Lock()
	entry, ok := r.types[vgType]
	r.mu.Unlock()
	if !ok {
		return models.VGDescriptor{}, errors.NewInvalidConfigError("type", fmt.Sprintf("unregistered VG type: %s", vgType))
	}
	if entry.validator != nil {
		if err := entry.validator(cfg); err != nil {
			return models.VGDescriptor{}, err
		}
	}
	if entry.depValidator != nil {
		if err := entry.depValidator(deps); err != nil {
			return models.VGDescriptor{}, err
		}
	}

	alias := normalizeAlias(name, r.defaultBranch)

	if _, err := r.ns.Get(ctx, alias); err == nil {
		return models.VGDescriptor{}, errors.NewAlreadyExistsError(alias)
	}

	for _, dep := range deps {
		exists, err := r.ns.LedgerExists(ctx, dep)
		if err != nil {
			return models.VGDescriptor{}, err
		}
		if !exists {
			return models.VGDescriptor{}, errors.NewMissingDependencyError(dep)
		}
	}

	desc := models.VGDescriptor{Name: alias, Type: vgType, Config: cfg, Dependencies: deps}

	if err := r.publishWithRetry(ctx, desc); err != nil {
		return models.VGDescriptor{}, err
	}

	if entry.eager {
		vg, err := entry.loader(desc)
		if err != nil {
			return models.VGDescriptor{}, err
		}
		if err := vg.Initialize(ctx); err != nil {
			return models.VGDescriptor{}, err
		}
		r.mu.Lock()
		r.loaded[alias] = vg
		r.mu.Unlock()
	}

	zap.S().Named("registry").Infow("created virtual graph", "alias", alias, "type", vgType, "eager", entry.eager)
	return desc, nil
}

// publishWithRetry publishes desc, retrying once after a short backoff on
// a transient nameservice error (spec §7: "single retry on transient I/O
// failures is permitted"), the same exponential-backoff shape the
// teacher's console service uses for its own publish loop.
func (r *Registry) publishWithRetry(ctx context.Context, desc models.VGDescriptor) error {
	err := r.ns.Publish(ctx, desc)
	if err == nil {
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = time.Second

	select {
	case <-time.After(b.NextBackOff()):
	case <-ctx.Done():
		return ctx.Err()
	}

	return r.ns.Publish(ctx, desc)
}

// Drop retracts alias and releases any cached live instance (spec §4.1
// `drop`). Idempotent: dropping an absent VG MUST NOT error.
func (r *Registry) Drop(ctx context.Context, name string) error {
	alias := normalizeAlias(name, r.defaultBranch)

	r.mu.Lock()
	vg, ok := r.loaded[alias]
	delete(r.loaded, alias)
	r.mu.Unlock()

	if ok {
		if err := vg.Close(); err != nil {
			zap.S().Named("registry").Warnw("error closing virtual graph on drop", "alias", alias, "err", err)
		}
	}

	if err := r.ns.Retract(ctx, alias); err != nil {
		return err
	}

	// Best-effort artifact cleanup (spec §6.4): the nameservice/storage
	// backend's recursive-delete capability is an external collaborator,
	// so a real backend would delete artifactsRoot+"/"+alias here; this
	// registry only logs the path it would have removed.
	zap.S().Named("registry").Infow("dropped virtual graph", "alias", alias, "artifacts", r.artifactsRoot+"/"+alias)
	return nil
}

// List returns every VG descriptor the nameservice currently holds
// (admin surface "GET /vgs").
func (r *Registry) List(ctx context.Context) ([]models.VGDescriptor, error) {
	return r.ns.List(ctx)
}

// Load returns the live VirtualGraph for alias, constructing and
// initializing it on first reference (spec §4.1 `load`).
func (r *Registry) Load(ctx context.Context, name string) (VirtualGraph, error) {
	alias := normalizeAlias(name, r.defaultBranch)

	r.mu.Lock()
	if vg, ok := r.loaded[alias]; ok {
		r.mu.Unlock()
		return vg, nil
	}
	r.mu.Unlock()

	desc, err := r.ns.Get(ctx, alias)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	entry, ok := r.types[desc.Type]
	r.mu.Unlock()
	if !ok {
		return nil, errors.NewInvalidConfigError("type", fmt.Sprintf("unregistered VG type: %s", desc.Type))
	}

	vg, err := entry.loader(desc)
	if err != nil {
		return nil, err
	}
	if err := vg.Initialize(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.loaded[alias] = vg
	r.mu.Unlock()

	return vg, nil
}

// normalizeAlias applies spec §4.1's "name:branch" normalization,
// defaulting the branch when name carries none.
func normalizeAlias(name, defaultBranch string) string {
	if strings.Contains(name, ":") {
		return name
	}
	return name + ":" + defaultBranch
}
