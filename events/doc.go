// Package events publishes the outcome of result-returning operations.
//
// Emission is explicit: the caller runs the operation and hands the result
// to Emit, or lets Run do both. Options.On decides which outcomes publish
// (OnSuccess by default), and the event name falls back to the operation
// name. The result itself is returned unchanged.
//
//	r := events.Run(ctx, bus, events.Options{Name: "user.created"}, "CreateUser",
//	    func(ctx context.Context) result.Result[User] { return repo.Create(ctx, u) }, u)
//
// Publishers:
//
//   - Bus: in-memory, synchronous fan-out to glob-pattern subscribers
//   - LogPublisher: one zerolog line per event
//   - KafkaPublisher: JSON messages on a Kafka topic (segmentio/kafka-go)
//   - Stream: Server-Sent Events for browsers and CLIs
//
// Multi combines several of them.
package events
