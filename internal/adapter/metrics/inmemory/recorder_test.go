package inmemory

import (
	"testing"
	"time"
)

func TestRecorderSnapshot(t *testing.T) {
	r := NewRecorder()
	r.RecordDispatch("HarvestResource", true, 2*time.Millisecond)
	r.RecordDispatch("HarvestResource", false, 4*time.Millisecond)
	r.RecordError("HarvestResource")
	r.RecordUnhandled("Teleport")

	s := r.Snapshot()
	if s.DispatchTotal != 4 {
		t.Fatalf("expected total 4, got %d", s.DispatchTotal)
	}
	if s.DispatchSuccess != 1 || s.DispatchFailure != 1 {
		t.Fatalf("expected success/failure 1/1, got %d/%d", s.DispatchSuccess, s.DispatchFailure)
	}
	if s.DispatchErrors != 1 || s.DispatchUnhandled != 1 {
		t.Fatalf("expected errors/unhandled 1/1, got %d/%d", s.DispatchErrors, s.DispatchUnhandled)
	}
	harvest := s.ByCommandType["HarvestResource"]
	if harvest.Total != 3 {
		t.Fatalf("expected harvest total 3, got %d", harvest.Total)
	}
	if harvest.AvgLatencyMs != 3 {
		t.Fatalf("expected avg latency 3ms, got %v", harvest.AvgLatencyMs)
	}
	if s.ByCommandType["Teleport"].Unhandled != 1 {
		t.Fatalf("expected Teleport unhandled count 1")
	}
}

func TestRecorderSnapshot_IsACopy(t *testing.T) {
	r := NewRecorder()
	r.RecordDispatch("RegisterNode", true, 0)
	s := r.Snapshot()
	r.RecordDispatch("RegisterNode", true, 0)
	if s.ByCommandType["RegisterNode"].Success != 1 {
		t.Fatalf("snapshot changed after later recordings")
	}
}
