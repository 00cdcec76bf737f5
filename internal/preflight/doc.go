// Package preflight provides readiness checks for the paths, binaries, and
// credentials a run depends on.
//
// The pipeline calls RunAll before touching any file so a doomed run fails
// in seconds instead of partway through a library. The CLI "deps" command
// reuses the individual check functions to display the same information.
package preflight
