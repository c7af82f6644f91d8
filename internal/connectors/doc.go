// Package connectors provides implementations of the Connector interface.
// A connector discovers raw documents in a document source and reports
// changes to it; text extraction is left to the normalisers.
package connectors
