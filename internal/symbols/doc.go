// Package symbols holds the class model and the symbol registries.
//
// Registries are owned by the caller and passed into every compilation, so
// a session can fold each file's classes, protocols and typedefs into the
// same tables. Every insertion goes through Registry.Add, which keeps the
// case-insensitive misspelling index in lockstep with the table.
//
// Nothing here reports diagnostics or checks for collisions; the compiler
// does that before it registers a definition.
package symbols
