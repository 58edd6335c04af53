// Package bootx provides application bootstrap with ordered lifecycle notification.
//
// Overview:
//   - Responsibility: Drive application startup through well-defined phases and
//     notify registered listeners at each transition
//   - Key Types: Phase for lifecycle stages, RunListener for phase callbacks,
//     Notifier for ordered dispatch, Options and Run for one-call startup
//   - Concurrency Model: Notifier is safe for concurrent use; listener callbacks
//     run synchronously on the driver goroutine in registration order
//   - Error Semantics: A listener error aborts the current phase and propagates
//     to the driver; the driver then fires Failed exactly once
//   - Performance Notes: Dispatch is a plain slice walk, no allocation per phase
//
// Usage:
//
//	bootx.Run(ctx, bootx.Options{
//		ServiceName: "my-service",
//		Config:      &AppConfig{},
//		Binding:     configx.NewBinding("app"),
//		Register: func(app *bootx.App) error {
//			app.Mux().HandleFunc("/greet", greetHandler)
//			return nil
//		},
//	})
package bootx
