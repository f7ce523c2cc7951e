// Package task holds the configuration state of a single SIMBAD search task:
// the named parameter store, the append-only extension list of pass-through
// command-line fragments, and the Task aggregate that binds them to a run
// mode.
//
// Architecture:
//
// A task is configured in a write phase (CLI flags, task file, interactive
// configure session) and then read as a settled snapshot by the invocation
// synthesizer. The two value types reflect that split:
//
//   - Parameters: keyed scalar values. Writes are serialized with a mutex so
//     hosts that configure from multiple events cannot interleave partial
//     updates; reads during synthesis observe a settled snapshot.
//   - Extensions: an ordered list of opaque "<flag> <value>" fragments.
//     Entries are appended, never parsed, validated, or de-duplicated; the
//     external program owns the grammar, and stored order is preserved
//     exactly because later flags may override earlier ones on re-parse.
//
// Fixed parameter keys:
//
// The command contract fixes the spelling of the required keys (KeyHKLIN,
// KeyF, KeySIGF, ...). Every other key is free-form and simply travels with
// the task.
//
// Task files:
//
// Tasks round-trip through YAML files with the fields name, mode, parameters
// and extensions:
//
//	t, err := task.LoadFromFile("toxd.yaml")
//	...
//	err = task.SaveToFile(t, "toxd.yaml")
package task
