package commandbus

// BatchExecutionOptions controls DispatchBatch. The zero value is not the
// default; start from DefaultBatchOptions.
type BatchExecutionOptions struct {
	StopOnFirstFailure     bool
	UseTransaction         bool
	MaxDegreeOfParallelism int
}

func DefaultBatchOptions() BatchExecutionOptions {
	return BatchExecutionOptions{
		StopOnFirstFailure:     true,
		UseTransaction:         false,
		MaxDegreeOfParallelism: 1,
	}
}

func ContinueOnFailure() BatchExecutionOptions {
	return DefaultBatchOptions().WithStopOnFirstFailure(false)
}

func Transactional() BatchExecutionOptions {
	return DefaultBatchOptions().WithTransaction(true)
}

func (o BatchExecutionOptions) WithStopOnFirstFailure(stop bool) BatchExecutionOptions {
	o.StopOnFirstFailure = stop
	return o
}

func (o BatchExecutionOptions) WithTransaction(useTx bool) BatchExecutionOptions {
	o.UseTransaction = useTx
	return o
}

func (o BatchExecutionOptions) WithMaxDegreeOfParallelism(n int) BatchExecutionOptions {
	o.MaxDegreeOfParallelism = n
	return o
}

// stopsOnFailure is forced on for transactional batches.
func (o BatchExecutionOptions) stopsOnFailure() bool {
	return o.StopOnFirstFailure || o.UseTransaction
}

func (o BatchExecutionOptions) parallelism() int {
	if o.UseTransaction || o.MaxDegreeOfParallelism < 1 {
		return 1
	}
	return o.MaxDegreeOfParallelism
}
