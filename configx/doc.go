// Package configx provides prefix-scoped configuration binding over merged
// key-value sources.
//
// # Overview
//
// configx aggregates multiple configuration sources (environment, files,
// static maps), merges them deterministically, and binds dotted keys onto
// struct fields using relaxed name matching: a field named DriverClassName
// matches the keys driver-class-name, driver_class_name and driverclassname
// alike. Binding policy is carried by an immutable Binding value: a key
// prefix plus flags controlling how unknown keys and unconvertible values
// are treated.
//
// # Features
//
//   - Multiple sources with last-wins merge semantics
//   - Prefix-scoped struct binding with relaxed key matching
//   - Strict or lenient handling of unknown and invalid fields
//   - Debounced hot updates with subscription callbacks
//   - Post-bind struct validation via validator tags
//
// # Usage
//
//	mgr, err := configx.NewManager(ctx, configx.Options{
//		Logger:  logger,
//		Sources: []configx.Source{configx.NewEnvSource(configx.EnvOptions{DotKeys: true})},
//	})
//	if err != nil { panic(err) }
//
//	var ds DatasourceConfig
//	if err := mgr.Bind(&ds, configx.NewBinding("app.datasource")); err != nil { panic(err) }
//
// # Layer
//
// configx depends only on core and is consumed by bootx.
//
// # Stability
//
// Stable since v0.1.0. Backward-compatible API changes may occur with minor versions.
package configx
