// Package livescene keeps a retained scene graph consistent with the edit
// batches a virtual-tree diffing engine emits.
//
// A Reconciler owns a template catalog, the element id map and, during a
// pass, the operand stack. Each pass first compiles any announced templates
// and then applies the batch's edits strictly in order. Every failure is
// fatal: the pass aborts and the reconciler refuses further work, leaving
// the decision to rebuild from scratch to the caller.
package livescene

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/livefir/livescene/host"
	"github.com/livefir/livescene/internal/attr"
	"github.com/livefir/livescene/internal/catalog"
	"github.com/livefir/livescene/internal/idmap"
	"github.com/livefir/livescene/internal/metrics"
	"github.com/livefir/livescene/protocol"
)

// Call modes, as reported to a Recorder
const (
	ModeRebuild = "rebuild"
	ModeUpdate  = "update"
)

// Reconciler applies mutation batches to a host tree
type Reconciler struct {
	config     Config
	log        *zap.Logger
	root       host.Entity
	translator *attr.Translator
	catalog    *catalog.Catalog
	ids        *idmap.Map
	metrics    *metrics.Collector

	built   bool
	failure error
}

// New creates a reconciler mounting into root, which is mapped to protocol.Root
func New(root host.Entity, opts ...Option) *Reconciler {
	config := Config{IDCapacity: 64}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	if config.Metrics == nil {
		config.Metrics = metrics.NewCollector()
	}

	translator := attr.New()
	r := &Reconciler{
		config:     config,
		log:        config.Logger,
		root:       root,
		translator: translator,
		catalog:    catalog.New(translator),
		ids:        idmap.New(config.IDCapacity),
		metrics:    config.Metrics,
	}
	// the root id is always in range
	_ = r.ids.Set(protocol.Root, root)
	return r
}

// Rebuild applies the initial batch against a tree holding no reconciled content
func (r *Reconciler) Rebuild(h host.Host, m protocol.Mutations) error {
	if r.failure != nil {
		return r.poisoned()
	}
	if r.built {
		return ErrAlreadyBuilt
	}
	if err := r.apply(h, m, ModeRebuild); err != nil {
		return err
	}
	r.built = true
	return nil
}

// Update applies an incremental batch against the tree left by earlier passes
func (r *Reconciler) Update(h host.Host, m protocol.Mutations) error {
	if r.failure != nil {
		return r.poisoned()
	}
	if !r.built {
		return ErrNotBuilt
	}
	return r.apply(h, m, ModeUpdate)
}

// Built reports whether Rebuild has succeeded
func (r *Reconciler) Built() bool {
	return r.built
}

// Err returns the failure that poisoned the reconciler, if any
func (r *Reconciler) Err() error {
	return r.failure
}

// Root returns the mount point entity
func (r *Reconciler) Root() host.Entity {
	return r.root
}

// Lookup returns the entity mapped to id
func (r *Reconciler) Lookup(id protocol.ElementID) (host.Entity, error) {
	return r.ids.Get(id)
}

// Templates returns the names of every compiled template
func (r *Reconciler) Templates() []string {
	return r.catalog.Names()
}

// Metrics returns the collector counting this reconciler's work
func (r *Reconciler) Metrics() *metrics.Collector {
	return r.metrics
}

func (r *Reconciler) poisoned() error {
	return fmt.Errorf("%w: %w", ErrPoisoned, r.failure)
}

func (r *Reconciler) apply(h host.Host, m protocol.Mutations, mode string) error {
	start := time.Now()

	err := r.run(h, m)
	if err != nil {
		r.failure = err
		r.metrics.IncrementBatchFailed()
		r.log.Error("reconciliation pass failed",
			zap.String("mode", mode),
			zap.Int("templates", len(m.Templates)),
			zap.Int("edits", len(m.Edits)),
			zap.Error(err))
		return err
	}

	took := time.Since(start)
	r.metrics.RecordBatch(len(m.Edits), took)
	r.log.Debug("applied batch",
		zap.String("mode", mode),
		zap.Int("templates", len(m.Templates)),
		zap.Int("edits", len(m.Edits)),
		zap.Duration("duration", took))
	return nil
}

func (r *Reconciler) run(h host.Host, m protocol.Mutations) error {
	for _, tmpl := range m.Templates {
		if err := r.catalog.Add(tmpl); err != nil {
			return classify(TemplatePhase, "", err)
		}
		r.metrics.IncrementTemplateCompiled()
	}

	p := &pass{r: r, h: h}
	for i, e := range m.Edits {
		if err := p.exec(e); err != nil {
			op := protocol.Op("")
			if e != nil {
				op = e.Op()
			}
			return classify(i, op, err)
		}
		r.metrics.IncrementOp(string(e.Op()))
	}

	// the stack does not outlive the batch
	if n := len(p.stack); n != 0 {
		r.metrics.AddLeftoverOperands(n)
		r.log.Warn("batch left operands on the stack",
			zap.Int("operands", n),
			zap.Int("edits", len(m.Edits)))
	}
	return nil
}
