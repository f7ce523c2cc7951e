// Package execute launches synthesized command strings as external processes
// and tracks their lifecycle.
//
// # Run Lifecycle
//
// A Run moves through a fixed set of states:
//
//	pending -> starting -> running -> succeeded
//	                               -> failed
//
// State transitions are reported through an optional StateChangeCallback so a
// host (CLI progress view, run report) can react without polling. The callback
// fires outside the run's lock and only when the state actually changes.
//
// # Command Handling
//
// The command string handed to a Run is executed verbatim through the
// configured shell ("sh -c <command>"). It is never tokenized, quoted, or
// otherwise re-parsed here: the synthesizer produced the exact string and the
// shell is the only interpreter. Program lookup honors an optional binary
// directory by prepending it to PATH in the child's environment rather than
// by rewriting the command.
//
// # Output Capture
//
// Stdout and stderr of the child are pumped line by line into the launcher's
// capture log and mirrored to the logging subsystem, so a live view can follow
// the program's progress while the full transcript lands on disk.
package execute
