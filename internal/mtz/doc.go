// Package mtz reads the header of CCP4 MTZ reflection files and derives
// configuration hints from their column catalogue.
//
// Architecture:
//
// The package splits into a reader and two pure queries over its output:
//
//   - Open parses the binary MTZ header (magic word, header offset, machine
//     stamp, 80-byte ASCII records) into a File: title, cell, space group,
//     resolution range and the ordered column catalogue. Reflection data is
//     never read.
//   - DetectFromCatalogue classifies the catalogue as merged intensities,
//     amplitudes, or undetermined. Intensity columns (type J) take priority
//     over amplitude columns (type F); a catalogue with neither is
//     undetermined. DetectPreferredInterpretation is the path-taking
//     wrapper: a missing or unreadable file is a normal "not configured
//     yet" state and yields Undetermined without an error.
//   - SuggestLabels picks default column labels (F, SIGF, FreeR flag and
//     the anomalous pairs) the way the search pipeline conventionally
//     derives them from a truncated data set.
//
// Both queries are idempotent and side-effect free; callers re-run them
// whenever the input file parameter changes and apply the result to the
// task's parameter store themselves.
package mtz
