package commandbus

import "encoding/json"

// BatchCommandResult aggregates the per-command results of one batch in
// submission order. Build it with NewBatchCommandResult.
type BatchCommandResult struct {
	results    []Result
	cancelled  bool
	rolledBack bool
}

func NewBatchCommandResult(results []Result, cancelled bool) BatchCommandResult {
	out := make([]Result, len(results))
	copy(out, results)
	return BatchCommandResult{results: out, cancelled: cancelled}
}

func (b BatchCommandResult) Results() []Result {
	out := make([]Result, len(b.results))
	copy(out, b.results)
	return out
}

func (b BatchCommandResult) TotalCount() int { return len(b.results) }

func (b BatchCommandResult) SuccessCount() int {
	n := 0
	for _, r := range b.results {
		if r.Success {
			n++
		}
	}
	return n
}

func (b BatchCommandResult) FailedCount() int { return b.TotalCount() - b.SuccessCount() }

// AllSucceeded is vacuously true for an empty batch.
func (b BatchCommandResult) AllSucceeded() bool { return b.FailedCount() == 0 }

func (b BatchCommandResult) AnyFailed() bool { return b.FailedCount() > 0 }

// SuccessRate is a percentage in [0, 100]; empty batches report 0.
func (b BatchCommandResult) SuccessRate() float64 {
	total := b.TotalCount()
	if total == 0 {
		return 0
	}
	return 100 * float64(b.SuccessCount()) / float64(total)
}

func (b BatchCommandResult) Cancelled() bool { return b.cancelled }

// RolledBack reports that a transactional batch failed and its unit of work
// was rolled back.
func (b BatchCommandResult) RolledBack() bool { return b.rolledBack }

func (b BatchCommandResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Results      []Result `json:"results"`
		TotalCount   int      `json:"total_count"`
		SuccessCount int      `json:"success_count"`
		FailedCount  int      `json:"failed_count"`
		AllSucceeded bool     `json:"all_succeeded"`
		SuccessRate  float64  `json:"success_rate"`
		Cancelled    bool     `json:"cancelled"`
		RolledBack   bool     `json:"rolled_back"`
	}{
		Results:      b.Results(),
		TotalCount:   b.TotalCount(),
		SuccessCount: b.SuccessCount(),
		FailedCount:  b.FailedCount(),
		AllSucceeded: b.AllSucceeded(),
		SuccessRate:  b.SuccessRate(),
		Cancelled:    b.cancelled,
		RolledBack:   b.rolledBack,
	})
}
