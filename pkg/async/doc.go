// Package async provides futures for running independent work concurrently.
//
// Async starts a function in its own goroutine and returns a Future; Await
// blocks for the value and error. A failing future never affects another one,
// which is what request-scoped lookups rely on:
//
//	sessionF := async.Async(ctx, client, fetchSession)
//	userF := async.Async(ctx, client, fetchUser)
//
//	session, sessionErr := sessionF.Await()
//	user, userErr := userF.Await()
//
// AwaitWithTimeout bounds the wait and returns ErrTimeout. WaitAll collects
// every result. Exec and ExecAll are the error-only variants, used for
// readiness checks:
//
//	futures := make([]*async.ExecFuture, len(checks))
//	for i, check := range checks {
//		futures[i] = async.Exec(ctx, check, runCheck)
//	}
//	err := async.ExecAll(futures...)
//
// A context that is already done when the goroutine starts short-circuits with
// ctx.Err(). A panic inside the function completes the future with *PanicError
// instead of crashing the process.
package async
