// Package testingx provides test doubles for ember components.
//
// Overview:
//   - Responsibility: Reusable fakes for tests across ember packages and consumers
//   - Key Types: MockLogger capturing log entries, RecordingListener capturing
//     lifecycle phases
//   - Concurrency Model: All doubles are safe for concurrent use
//   - Error Semantics: Doubles never fail on their own; injected errors are
//     returned verbatim
//   - Performance Notes: Test-only, unoptimized
//
// Usage:
//
//	logger := testingx.NewMockLogger(t)
//	svc := NewService(logger)
//	svc.DoWork()
//	logger.AssertLogged("INFO", "work done")
package testingx
