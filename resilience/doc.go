// Package resilience holds the fault-tolerance helpers used around result
// producing operations.
//
//   - Retry and RetryResult retry with exponential backoff. By default only
//     Generic failures and unclassified errors are retried.
//   - Breaker fails fast after repeated failures of a dependency.
//   - Bulkhead bounds concurrency and doubles as a result.Executor:
//
//	bh := resilience.NewBulkhead(resilience.BulkheadConfig{Name: "reports", MaxConcurrent: 4})
//	future := result.AsyncOn(bh, func() result.Result[Report] { return build(ctx) })
//	r := future.Await(ctx)
//
// database.Open retries connection attempts with Retry and the Kafka event
// publisher wraps its writer in a Breaker.
package resilience
