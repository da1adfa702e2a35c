// Package preflight provides readiness checks for the filesystem paths and
// optional services photowall depends on.
//
// The CLI "photowall check" command runs RunAll and renders the results as a
// table; "photowall export" runs the output directory check before starting a
// session so a doomed export fails before any page is rendered.
package preflight
