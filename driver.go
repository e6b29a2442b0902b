package livescene

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/livefir/livescene/host"
	"github.com/livefir/livescene/protocol"
)

// Source yields the batches a diffing engine produced since the last call
type Source interface {
	Pending() ([]protocol.Mutations, error)
}

// Recorder is told about every batch the driver hands to the reconciler,
// together with the error applying it returned
type Recorder interface {
	Record(ctx context.Context, mode string, m protocol.Mutations, failure error) error
}

// Driver runs a reconciler once per host tick. Setup performs the initial
// build; every Tick drains the source and applies its batches as updates.
// The host is only touched under the driver's lock.
type Driver struct {
	Reconciler *Reconciler
	Host       host.Host
	Source     Source
	// Journal is optional
	Journal Recorder

	mu sync.Mutex
}

// NewDriver wires a reconciler to a host and a source
func NewDriver(r *Reconciler, h host.Host, src Source) *Driver {
	return &Driver{Reconciler: r, Host: h, Source: src}
}

// Setup applies the first pending batch as the initial build. With nothing
// pending the build is an empty pass. Remaining batches are applied as updates.
func (d *Driver) Setup() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setup()
}

func (d *Driver) setup() error {
	batches, err := d.Source.Pending()
	if err != nil {
		return fmt.Errorf("failed to read pending batches: %w", err)
	}

	first := protocol.Mutations{}
	if len(batches) > 0 {
		first, batches = batches[0], batches[1:]
	}
	err = d.Reconciler.Rebuild(d.Host, first)
	if err := d.record(ModeRebuild, first, err); err != nil {
		return err
	}
	return d.update(batches)
}

// Tick applies every pending batch in order. Before Setup it performs it.
// Once a pass has failed every Tick returns ErrPoisoned.
func (d *Driver) Tick() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.Reconciler.Err() != nil {
		return d.Reconciler.poisoned()
	}
	if !d.Reconciler.Built() {
		return d.setup()
	}

	batches, err := d.Source.Pending()
	if err != nil {
		return fmt.Errorf("failed to read pending batches: %w", err)
	}
	return d.update(batches)
}

func (d *Driver) update(batches []protocol.Mutations) error {
	for _, b := range batches {
		if b.IsEmpty() {
			continue
		}
		err := d.Reconciler.Update(d.Host, b)
		if err := d.record(ModeUpdate, b, err); err != nil {
			return err
		}
	}
	return nil
}

// record journals a batch and returns the error that should stop the driver:
// the pass failure first, then a journal failure
func (d *Driver) record(mode string, m protocol.Mutations, failure error) error {
	if d.Journal == nil {
		return failure
	}
	if err := d.Journal.Record(context.Background(), mode, m, failure); err != nil && failure == nil {
		return fmt.Errorf("failed to journal batch: %w", err)
	}
	return failure
}

// Run ticks every interval until ctx is done or a pass fails
func (d *Driver) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := d.Tick(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Inspect runs fn with exclusive access to the host between ticks
func (d *Driver) Inspect(fn func(h host.Host, r *Reconciler)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.Host, d.Reconciler)
}
