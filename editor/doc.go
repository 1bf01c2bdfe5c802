// Package editor provides the integration layer between a doc.Document and the
// extensions that build on it.
//
// An Editor owns one document, one viewport and one set of bound extensions,
// so several editors can live side by side. It is also a Bubble Tea component:
// Update routes key messages to extension key handlers before default editing,
// and View renders the document with lipgloss.
package editor
