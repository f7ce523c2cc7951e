// Package monitor follows a run's work directory while the external program
// writes into it.
//
// Two observers cover the two things a live view needs:
//
//   - SummaryWatcher watches for the search summary CSV files
//     (latt/lattice_mr.csv, cont/contaminant_mr.csv) to appear or grow and
//     emits a debounced event per file so the host can re-parse and show
//     intermediate rankings. Work directories are created by the external
//     program after launch, so the watcher begins at the run directory and
//     picks up the work directory and its subdirectories as they appear.
//
//   - LogTailer follows the program's own log file (simbad.log) line by
//     line, rate limited so a burst of output cannot flood the display.
//
// Both observers are started with a context and deliver through channels the
// caller owns. Neither closes its channel; cancelling the context or calling
// Stop ends delivery.
package monitor
