// Package results reads the MR summary files the SIMBAD programs leave in
// their work directory, ranks the scored entries, and copies the winning
// refinement outputs to the task's declared output paths.
//
// Each program variant writes a per-phase CSV summary (latt/lattice_mr.csv,
// cont/contaminant_mr.csv) with one row per database hit: a pdb_code column
// plus numeric score columns such as final_r_fact and final_r_free. Ranking
// by final_r_free ascending is the conventional ordering; an entry is
// considered solved when both refinement R values fall below the acceptance
// threshold.
//
// The package interprets only the summary files. The external program's own
// pass/fail is reported by the execute package and never derived here.
package results
