// Package overlay implements a modal dialog over an abstract host document.
//
// The host supplies document-level listeners, the body scroll style and a
// detached overlay layer. MemoryDocument is the in-process host used by the
// live channel and by tests.
package overlay
