package editor

// Clipboard provides editor-level clipboard integration.
//
// Errors must not interrupt editing; failures are logged and ignored.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(s string) error
}

// MemoryClipboard is a process-local Clipboard.
type MemoryClipboard struct {
	text string
}

func (c *MemoryClipboard) ReadText() (string, error) { return c.text, nil }

func (c *MemoryClipboard) WriteText(s string) error {
	c.text = s
	return nil
}
