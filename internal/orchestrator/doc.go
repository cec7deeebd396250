// Package orchestrator runs every asset in a catalog through a transfer
// worker with bounded parallelism.
//
// # Usage
//
//	summary := orchestrator.Run(ctx, cat, orchestrator.Options{
//	    Concurrency: 2,
//	    Worker:      transfer.NewWorker(workerOpts),
//	    Reporter:    reporter,
//	})
//	fmt.Println(summary.Line()) // Complete: 4/5
//
// # Scheduling
//
// One goroutine is started per asset. Each waits for a slot in the gate,
// runs its transfer and sends the outcome back tagged with its catalog
// index. Only Run writes the outcome slice. Run returns once every asset has
// an outcome; assets still waiting when ctx is canceled get an exception
// outcome with detail "canceled". Nothing is retried.
package orchestrator
