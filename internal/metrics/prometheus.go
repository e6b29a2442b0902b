package metrics

import (
	"fmt"
	"sort"
	"strings"
)

type promSample struct {
	name  string
	help  string
	kind  string
	value float64
}

// ExportPrometheusText renders the metrics in the Prometheus text exposition format
func (c *Collector) ExportPrometheusText() string {
	m := c.GetMetrics()

	samples := []promSample{
		{"livescene_batches_applied_total", "Edit batches applied", "counter", float64(m.BatchesApplied)},
		{"livescene_batches_failed_total", "Edit batches aborted by a fatal error", "counter", float64(m.BatchesFailed)},
		{"livescene_edits_applied_total", "Edits applied", "counter", float64(m.EditsApplied)},
		{"livescene_templates_compiled_total", "Templates added to the catalog", "counter", float64(m.TemplatesCompiled)},
		{"livescene_nodes_spawned_total", "Host nodes spawned", "counter", float64(m.NodesSpawned)},
		{"livescene_subtrees_removed_total", "Host subtrees destroyed", "counter", float64(m.SubtreesRemoved)},
		{"livescene_operand_stack_max_depth", "Deepest operand stack seen", "gauge", float64(m.MaxStackDepth)},
		{"livescene_leftover_operands_total", "Operands still on the stack when a batch ended", "counter", float64(m.LeftoverOperands)},
		{"livescene_last_batch_seconds", "Duration of the last applied batch", "gauge", m.LastBatchDuration.Seconds()},
		{"livescene_uptime_seconds", "Seconds since the collector started", "gauge", m.Uptime.Seconds()},
	}

	var b strings.Builder
	for _, s := range samples {
		fmt.Fprintf(&b, "# HELP %s %s\n", s.name, s.help)
		fmt.Fprintf(&b, "# TYPE %s %s\n", s.name, s.kind)
		fmt.Fprintf(&b, "%s %g\n", s.name, s.value)
	}

	ops := c.GetOpCounters()
	if len(ops) > 0 {
		names := make([]string, 0, len(ops))
		for name := range ops {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteString("# HELP livescene_edit_ops_total Edits applied per operation\n")
		b.WriteString("# TYPE livescene_edit_ops_total counter\n")
		for _, name := range names {
			fmt.Fprintf(&b, "livescene_edit_ops_total{op=%q} %d\n", name, ops[name])
		}
	}
	return b.String()
}
