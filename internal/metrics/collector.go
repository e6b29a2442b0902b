package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector provides simple built-in metrics collection with no external dependencies
type Collector struct {
	reconcileMetrics *ReconcileMetrics
	opCounters       map[string]*int64
	mu               sync.RWMutex
	startTime        time.Time
}

// ReconcileMetrics tracks reconciliation activity
type ReconcileMetrics struct {
	// Batches
	BatchesApplied int64 `json:"batches_applied"`
	BatchesFailed  int64 `json:"batches_failed"`
	EditsApplied   int64 `json:"edits_applied"`

	// Templates
	TemplatesCompiled int64 `json:"templates_compiled"`

	// Host tree
	NodesSpawned    int64 `json:"nodes_spawned"`
	SubtreesRemoved int64 `json:"subtrees_removed"`

	// Operand stack
	MaxStackDepth    int64 `json:"max_stack_depth"`
	LeftoverOperands int64 `json:"leftover_operands"`

	// Timing
	LastBatchDuration  time.Duration `json:"last_batch_duration"`
	TotalBatchDuration time.Duration `json:"total_batch_duration"`

	// Uptime
	StartTime time.Time     `json:"start_time"`
	Uptime    time.Duration `json:"uptime"`
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	now := time.Now()
	return &Collector{
		reconcileMetrics: &ReconcileMetrics{
			StartTime: now,
		},
		opCounters: make(map[string]*int64),
		startTime:  now,
	}
}

// RecordBatch records a successfully applied batch
func (c *Collector) RecordBatch(edits int, took time.Duration) {
	atomic.AddInt64(&c.reconcileMetrics.BatchesApplied, 1)
	atomic.AddInt64(&c.reconcileMetrics.EditsApplied, int64(edits))
	atomic.StoreInt64((*int64)(&c.reconcileMetrics.LastBatchDuration), int64(took))
	atomic.AddInt64((*int64)(&c.reconcileMetrics.TotalBatchDuration), int64(took))
}

// IncrementBatchFailed records a batch aborted by a fatal error
func (c *Collector) IncrementBatchFailed() {
	atomic.AddInt64(&c.reconcileMetrics.BatchesFailed, 1)
}

// IncrementTemplateCompiled records a template added to the catalog
func (c *Collector) IncrementTemplateCompiled() {
	atomic.AddInt64(&c.reconcileMetrics.TemplatesCompiled, 1)
}

// AddNodesSpawned records n nodes spawned on the host
func (c *Collector) AddNodesSpawned(n int) {
	atomic.AddInt64(&c.reconcileMetrics.NodesSpawned, int64(n))
}

// IncrementSubtreeRemoved records a subtree destroyed on the host
func (c *Collector) IncrementSubtreeRemoved() {
	atomic.AddInt64(&c.reconcileMetrics.SubtreesRemoved, 1)
}

// ObserveStackDepth raises the max operand stack depth if depth exceeds it
func (c *Collector) ObserveStackDepth(depth int) {
	current := int64(depth)
	for {
		max := atomic.LoadInt64(&c.reconcileMetrics.MaxStackDepth)
		if current <= max {
			break
		}
		if atomic.CompareAndSwapInt64(&c.reconcileMetrics.MaxStackDepth, max, current) {
			break
		}
	}
}

// AddLeftoverOperands records n operands still on the stack when a batch ended
func (c *Collector) AddLeftoverOperands(n int) {
	atomic.AddInt64(&c.reconcileMetrics.LeftoverOperands, int64(n))
}

// IncrementOp increments the counter of a named edit operation
func (c *Collector) IncrementOp(name string) {
	c.mu.RLock()
	counter, exists := c.opCounters[name]
	c.mu.RUnlock()
	if exists {
		atomic.AddInt64(counter, 1)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if counter, exists := c.opCounters[name]; exists {
		atomic.AddInt64(counter, 1)
	} else {
		var newCounter int64 = 1
		c.opCounters[name] = &newCounter
	}
}

// GetMetrics returns a snapshot of the current metrics
func (c *Collector) GetMetrics() ReconcileMetrics {
	c.mu.RLock()
	startTime := c.startTime
	c.mu.RUnlock()

	return ReconcileMetrics{
		BatchesApplied:     atomic.LoadInt64(&c.reconcileMetrics.BatchesApplied),
		BatchesFailed:      atomic.LoadInt64(&c.reconcileMetrics.BatchesFailed),
		EditsApplied:       atomic.LoadInt64(&c.reconcileMetrics.EditsApplied),
		TemplatesCompiled:  atomic.LoadInt64(&c.reconcileMetrics.TemplatesCompiled),
		NodesSpawned:       atomic.LoadInt64(&c.reconcileMetrics.NodesSpawned),
		SubtreesRemoved:    atomic.LoadInt64(&c.reconcileMetrics.SubtreesRemoved),
		MaxStackDepth:      atomic.LoadInt64(&c.reconcileMetrics.MaxStackDepth),
		LeftoverOperands:   atomic.LoadInt64(&c.reconcileMetrics.LeftoverOperands),
		LastBatchDuration:  time.Duration(atomic.LoadInt64((*int64)(&c.reconcileMetrics.LastBatchDuration))),
		TotalBatchDuration: time.Duration(atomic.LoadInt64((*int64)(&c.reconcileMetrics.TotalBatchDuration))),
		StartTime:          startTime,
		Uptime:             time.Since(startTime),
	}
}

// GetOpCounters returns all per-operation counters
func (c *Collector) GetOpCounters() map[string]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]int64, len(c.opCounters))
	for name, counter := range c.opCounters {
		result[name] = atomic.LoadInt64(counter)
	}
	return result
}

// Snapshot is the combined view served over HTTP
type Snapshot struct {
	ReconcileMetrics
	Ops map[string]int64 `json:"ops"`
}

// GetSnapshot returns metrics and op counters together
func (c *Collector) GetSnapshot() Snapshot {
	return Snapshot{ReconcileMetrics: c.GetMetrics(), Ops: c.GetOpCounters()}
}

// Reset resets all metrics to zero
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	atomic.StoreInt64(&c.reconcileMetrics.BatchesApplied, 0)
	atomic.StoreInt64(&c.reconcileMetrics.BatchesFailed, 0)
	atomic.StoreInt64(&c.reconcileMetrics.EditsApplied, 0)
	atomic.StoreInt64(&c.reconcileMetrics.TemplatesCompiled, 0)
	atomic.StoreInt64(&c.reconcileMetrics.NodesSpawned, 0)
	atomic.StoreInt64(&c.reconcileMetrics.SubtreesRemoved, 0)
	atomic.StoreInt64(&c.reconcileMetrics.MaxStackDepth, 0)
	atomic.StoreInt64(&c.reconcileMetrics.LeftoverOperands, 0)
	atomic.StoreInt64((*int64)(&c.reconcileMetrics.LastBatchDuration), 0)
	atomic.StoreInt64((*int64)(&c.reconcileMetrics.TotalBatchDuration), 0)

	c.opCounters = make(map[string]*int64)

	c.startTime = time.Now()
	c.reconcileMetrics.StartTime = c.startTime
}

// GetFailureRate returns the percentage of batches that failed
func (c *Collector) GetFailureRate() float64 {
	applied := atomic.LoadInt64(&c.reconcileMetrics.BatchesApplied)
	failed := atomic.LoadInt64(&c.reconcileMetrics.BatchesFailed)

	total := applied + failed
	if total == 0 {
		return 0.0
	}
	return float64(failed) / float64(total) * 100.0
}

// GetAverageBatchDuration returns the mean time spent per applied batch
func (c *Collector) GetAverageBatchDuration() time.Duration {
	applied := atomic.LoadInt64(&c.reconcileMetrics.BatchesApplied)
	if applied == 0 {
		return 0
	}
	total := atomic.LoadInt64((*int64)(&c.reconcileMetrics.TotalBatchDuration))
	return time.Duration(total / applied)
}
