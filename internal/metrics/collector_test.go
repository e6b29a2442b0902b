package metrics

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNewCollector(t *testing.T) {
	collector := NewCollector()

	if collector == nil {
		t.Fatal("NewCollector() returned nil")
	}

	if collector.reconcileMetrics == nil {
		t.Fatal("reconcileMetrics not initialized")
	}

	if collector.opCounters == nil {
		t.Fatal("opCounters not initialized")
	}

	metrics := collector.GetMetrics()
	if metrics.BatchesApplied != 0 || metrics.MaxStackDepth != 0 {
		t.Errorf("Expected zeroed metrics, got %+v", metrics)
	}
	if collector.GetFailureRate() != 0.0 {
		t.Errorf("Expected failure rate 0 with no batches, got %f", collector.GetFailureRate())
	}
}

func TestBatchMetrics(t *testing.T) {
	collector := NewCollector()

	collector.RecordBatch(4, 2*time.Millisecond)
	collector.RecordBatch(6, 4*time.Millisecond)
	collector.IncrementBatchFailed()

	metrics := collector.GetMetrics()
	if metrics.BatchesApplied != 2 {
		t.Errorf("Expected 2 batches applied, got %d", metrics.BatchesApplied)
	}
	if metrics.EditsApplied != 10 {
		t.Errorf("Expected 10 edits applied, got %d", metrics.EditsApplied)
	}
	if metrics.LastBatchDuration != 4*time.Millisecond {
		t.Errorf("Expected last batch 4ms, got %v", metrics.LastBatchDuration)
	}
	if got := collector.GetAverageBatchDuration(); got != 3*time.Millisecond {
		t.Errorf("Expected average 3ms, got %v", got)
	}

	rate := collector.GetFailureRate()
	if rate < 33.3 || rate > 33.4 {
		t.Errorf("Expected failure rate ~33.3%%, got %f", rate)
	}
}

func TestTreeMetrics(t *testing.T) {
	collector := NewCollector()

	collector.IncrementTemplateCompiled()
	collector.AddNodesSpawned(7)
	collector.AddNodesSpawned(1)
	collector.IncrementSubtreeRemoved()

	metrics := collector.GetMetrics()
	if metrics.TemplatesCompiled != 1 {
		t.Errorf("Expected 1 template compiled, got %d", metrics.TemplatesCompiled)
	}
	if metrics.NodesSpawned != 8 {
		t.Errorf("Expected 8 nodes spawned, got %d", metrics.NodesSpawned)
	}
	if metrics.SubtreesRemoved != 1 {
		t.Errorf("Expected 1 subtree removed, got %d", metrics.SubtreesRemoved)
	}
}

func TestStackDepthKeepsMaximum(t *testing.T) {
	collector := NewCollector()

	for _, d := range []int{1, 5, 3, 2} {
		collector.ObserveStackDepth(d)
	}
	if got := collector.GetMetrics().MaxStackDepth; got != 5 {
		t.Errorf("Expected max depth 5, got %d", got)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(d int) {
			defer wg.Done()
			collector.ObserveStackDepth(d)
		}(i)
	}
	wg.Wait()

	if got := collector.GetMetrics().MaxStackDepth; got != 49 {
		t.Errorf("Expected max depth 49 after concurrent observations, got %d", got)
	}
}

func TestOpCounters(t *testing.T) {
	collector := NewCollector()

	collector.IncrementOp("LoadTemplate")
	collector.IncrementOp("LoadTemplate")
	collector.IncrementOp("AppendChildren")

	counters := collector.GetOpCounters()

	if counters["LoadTemplate"] != 2 {
		t.Errorf("Expected LoadTemplate count 2, got %d", counters["LoadTemplate"])
	}

	if counters["AppendChildren"] != 1 {
		t.Errorf("Expected AppendChildren count 1, got %d", counters["AppendChildren"])
	}
}

func TestSnapshotJSON(t *testing.T) {
	collector := NewCollector()
	collector.RecordBatch(1, time.Millisecond)
	collector.IncrementOp("SetText")

	data, err := json.Marshal(collector.GetSnapshot())
	if err != nil {
		t.Fatalf("Failed to marshal snapshot: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to parse snapshot JSON: %v", err)
	}

	if decoded["batches_applied"] != 1.0 {
		t.Errorf("Expected batches_applied 1, got %v", decoded["batches_applied"])
	}
	ops, ok := decoded["ops"].(map[string]any)
	if !ok || ops["SetText"] != 1.0 {
		t.Errorf("Expected ops.SetText 1, got %v", decoded["ops"])
	}
}

func TestPrometheusExport(t *testing.T) {
	collector := NewCollector()
	collector.RecordBatch(3, time.Millisecond)
	collector.IncrementOp("PushRoot")

	textExport := collector.ExportPrometheusText()

	if !strings.Contains(textExport, "# HELP") {
		t.Error("Prometheus text export missing HELP comments")
	}

	if !strings.Contains(textExport, "# TYPE livescene_batches_applied_total counter") {
		t.Error("Prometheus text export missing TYPE line for batches")
	}

	if !strings.Contains(textExport, "livescene_edits_applied_total 3\n") {
		t.Errorf("Prometheus text export missing edit count:\n%s", textExport)
	}

	if !strings.Contains(textExport, `livescene_edit_ops_total{op="PushRoot"} 1`) {
		t.Errorf("Prometheus text export missing op counter:\n%s", textExport)
	}
}

func TestMetricsReset(t *testing.T) {
	collector := NewCollector()

	collector.RecordBatch(2, time.Millisecond)
	collector.AddNodesSpawned(3)
	collector.ObserveStackDepth(2)
	collector.IncrementOp("Remove")

	if collector.GetMetrics().BatchesApplied == 0 {
		t.Error("Expected non-zero batches before reset")
	}

	collector.Reset()

	metrics := collector.GetMetrics()
	if metrics.BatchesApplied != 0 || metrics.NodesSpawned != 0 || metrics.MaxStackDepth != 0 {
		t.Errorf("Expected zeroed metrics after reset, got %+v", metrics)
	}
	if len(collector.GetOpCounters()) != 0 {
		t.Error("Expected op counters cleared after reset")
	}
}

func TestLeftoverOperands(t *testing.T) {
	collector := NewCollector()

	collector.AddLeftoverOperands(2)
	collector.AddLeftoverOperands(1)

	if got := collector.GetMetrics().LeftoverOperands; got != 3 {
		t.Errorf("Expected 3 leftover operands, got %d", got)
	}
	if !strings.Contains(collector.ExportPrometheusText(), "livescene_leftover_operands_total 3") {
		t.Error("Expected leftover operands in Prometheus output")
	}

	collector.Reset()
	if got := collector.GetMetrics().LeftoverOperands; got != 0 {
		t.Errorf("Expected 0 leftover operands after reset, got %d", got)
	}
}
