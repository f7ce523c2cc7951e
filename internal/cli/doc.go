// Package cli provides presentation helpers shared by the command layer:
// output format selection (table, json, yaml), rounded-table rendering for
// modes, MTZ columns, parameters and ranked candidates, progress spinners,
// and message formatting.
//
// Commands decide WHAT to show; this package only decides HOW it looks, so
// the renderers take an io.Writer and plain row types that also carry the
// json/yaml struct tags used by the structured formats.
package cli
