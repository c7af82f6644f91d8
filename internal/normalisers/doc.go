// Package normalisers provides implementations of the Normaliser interface
// for the document formats found in the data directory. Each normaliser
// knows how to extract text content from a specific MIME type.
//
// Normalisers are registered with the Registry at startup; the registry
// dispatches each raw document to the highest-priority normaliser that
// supports its MIME type.
package normalisers
