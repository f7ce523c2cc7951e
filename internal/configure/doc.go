// Package configure implements the interactive task editor.
//
// The editor is a small REPL over one task: the operator inspects and edits
// the parameter store, switches the search mode, appends raw extension
// fragments, runs the column-type detector against the reflection file, and
// previews the exact command line the current state would synthesize. 'save'
// persists the task through the shared task store.
//
// Command execution is split from the readline loop so the commands can be
// driven directly in tests without a terminal.
package configure
