// Package session owns one import session: the imported items in their
// current order, the frozen option snapshot, and the export coordinator.
//
// OptionsFromConfig is the single place where the loaded configuration is
// turned into the typed values the pipeline consumes.
package session
