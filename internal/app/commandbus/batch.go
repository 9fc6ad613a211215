package commandbus

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

var errBatchRolledBack = errors.New("batch rolled back")

// DispatchBatch dispatches cmds in order under the given options (or
// DefaultBatchOptions). Results always come back in submission order.
func (d *Dispatcher) DispatchBatch(ctx context.Context, cmds []Command, opts ...BatchExecutionOptions) (BatchCommandResult, error) {
	o := DefaultBatchOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.UseTransaction && d.tx != nil {
		return d.dispatchInTx(ctx, cmds, o)
	}
	return d.runBatch(ctx, cmds, o)
}

func (d *Dispatcher) dispatchInTx(ctx context.Context, cmds []Command, o BatchExecutionOptions) (BatchCommandResult, error) {
	var out BatchCommandResult
	err := d.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var runErr error
		out, runErr = d.runBatch(txCtx, cmds, o)
		if runErr != nil {
			return runErr
		}
		if out.AnyFailed() || out.Cancelled() {
			return errBatchRolledBack
		}
		return nil
	})
	if errors.Is(err, errBatchRolledBack) {
		out.rolledBack = true
		d.logger.Info("transactional batch rolled back",
			"total", out.TotalCount(), "failed", out.FailedCount(), "cancelled", out.Cancelled())
		return out, nil
	}
	return out, err
}

func (d *Dispatcher) runBatch(ctx context.Context, cmds []Command, o BatchExecutionOptions) (BatchCommandResult, error) {
	if o.parallelism() > 1 {
		return d.runParallel(ctx, cmds, o)
	}
	stop := o.stopsOnFailure()
	results := make([]Result, 0, len(cmds))
	for _, cmd := range cmds {
		if ctx.Err() != nil {
			return NewBatchCommandResult(results, true), nil
		}
		res, err := d.Dispatch(ctx, cmd)
		if err != nil {
			return NewBatchCommandResult(results, false), err
		}
		results = append(results, res)
		if !res.Success && stop {
			break
		}
	}
	return NewBatchCommandResult(results, false), nil
}

// runParallel keeps at most MaxDegreeOfParallelism commands in flight. Once a
// failure is seen under stop-on-failure, a handler returns an error, or ctx is
// cancelled, no new command starts; commands already running are awaited and
// recorded.
func (d *Dispatcher) runParallel(ctx context.Context, cmds []Command, o BatchExecutionOptions) (BatchCommandResult, error) {
	stop := o.stopsOnFailure()
	slots := make([]Result, len(cmds))
	recorded := make([]bool, len(cmds))
	var failed, aborted, cancelled atomic.Bool

	halted := func() bool {
		if aborted.Load() || (stop && failed.Load()) {
			return true
		}
		if ctx.Err() != nil {
			cancelled.Store(true)
			return true
		}
		return false
	}

	g := new(errgroup.Group)
	g.SetLimit(o.parallelism())
	for i, cmd := range cmds {
		if halted() {
			break
		}
		g.Go(func() error {
			// g.Go may have blocked for a slot; re-check before dispatching.
			if halted() {
				return nil
			}
			res, err := d.Dispatch(ctx, cmd)
			if err != nil {
				aborted.Store(true)
				return err
			}
			slots[i] = res
			recorded[i] = true
			if !res.Success {
				failed.Store(true)
			}
			return nil
		})
	}
	err := g.Wait()

	results := make([]Result, 0, len(cmds))
	for i := range slots {
		if recorded[i] {
			results = append(results, slots[i])
		}
	}
	return NewBatchCommandResult(results, cancelled.Load()), err
}
