// Package nameservice defines the contract the VG registry publishes VG
// descriptors to. The real nameservice/storage backends are external
// collaborators (spec §1, out of scope); this package carries the
// interface plus an in-memory reference implementation used by tests and
// by the CLI in standalone mode.
package nameservice

import (
	"context"
	"sync"

	"github.com/fluree/vg-engine/internal/models"
	srvErrors "github.com/fluree/vg-engine/pkg/errors"
)

// Service is what the registry needs from a nameservice: publish, fetch,
// retract, and list VG descriptors, plus existence checks for dependency
// ledgers.
type Service interface {
	Publish(ctx context.Context, desc models.VGDescriptor) error
	Get(ctx context.Context, alias string) (models.VGDescriptor, error)
	Retract(ctx context.Context, alias string) error
	List(ctx context.Context) ([]models.VGDescriptor, error)
	LedgerExists(ctx context.Context, ledger string) (bool, error)
}

// InMemory is a map-backed Service for tests and standalone operation. It
// is not safe to use across process boundaries.
type InMemory struct {
	mu      sync.RWMutex
	records map[string]models.VGDescriptor
	ledgers map[string]bool
}

func NewInMemory() *InMemory {
	return &InMemory{
		records: map[string]models.VGDescriptor{},
		ledgers: map[string]bool{},
	}
}

// RegisterLedger marks a source ledger as existing, for dependency checks.
func (n *InMemory) RegisterLedger(ledger string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ledgers[ledger] = true
}

func (n *InMemory) Publish(_ context.Context, desc models.VGDescriptor) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.records[desc.Name] = desc
	return nil
}

func (n *InMemory) Get(_ context.Context, alias string) (models.VGDescriptor, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	desc, ok := n.records[alias]
	if !ok {
		return models.VGDescriptor{}, srvErrors.NewNotFoundError(alias)
	}
	return desc, nil
}

// Retract removes alias's descriptor; registered ledgers are left as they
// are. It is a no-op,
// not an error, when alias is absent (spec §4.1 drop idempotence).
func (n *InMemory) Retract(_ context.Context, alias string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.records, alias)
	return nil
}

func (n *InMemory) List(_ context.Context) ([]models.VGDescriptor, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]models.VGDescriptor, 0, len(n.records))
	for _, d := range n.records {
		out = append(out, d)
	}
	return out, nil
}

func (n *InMemory) LedgerExists(_ context.Context, ledger string) (bool, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.ledgers[ledger], nil
}
