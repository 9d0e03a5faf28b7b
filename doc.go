// Package tpool implements a fixed-size thread pool.
//
// A Pool spawns a fixed number of long-lived worker goroutines that take
// jobs from one shared, unbounded FIFO queue and run them to completion.
// Submission never blocks. Stop closes the queue, lets the workers drain
// whatever is already buffered, and waits for every worker to exit.
//
//	pool := tpool.New(4)
//	defer pool.Stop(ctx)
//
//	pool.Execute(func() { handle(conn) })
//
// Submitting to a stopped pool, submitting a nil job, and creating a pool
// with a non-positive size are programming errors and panic.
package tpool
