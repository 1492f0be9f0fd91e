// Package pipeline runs the fulfillment stages of one order.
//
// A stage is a simulated external call (StageWork) plus an optional side effect. The Executor
// times the call, appends the handling record and applies the side effect in one transaction,
// then publishes the stage outcome. Failed calls are data: they produce a FAILED record and a
// FAILED event, never an error. Errors returned by the Executor are infrastructure failures.
//
//	executor := pipeline.NewExecutor(uowFactory, publisher, logger)
//	run := pipeline.NewRun(o, time.Now())
//	for _, work := range pipeline.DefaultStages(uowFactory, carrier, marketplace, clock) {
//	    status, err := executor.RunStage(ctx, run, work)
//	    ...
//	}
package pipeline
