package editor

import (
	"github.com/atotto/clipboard"

	"github.com/bethropolis/quill/internal/logger"
)

// Clipboard stores yanked text, optionally mirroring the system
// clipboard. System clipboard failures fall back to the internal
// register.
type Clipboard struct {
	system  bool
	content string
}

func newClipboard(system bool) *Clipboard {
	return &Clipboard{system: system}
}

// Write stores text in the register and, when enabled, the system
// clipboard.
func (c *Clipboard) Write(s string) error {
	c.content = s
	if c.system {
		if err := clipboard.WriteAll(s); err != nil {
			logger.Warnf("clipboard: system write failed: %v", err)
		}
	}
	return nil
}

// Read returns the system clipboard content when enabled and
// available, otherwise the internal register.
func (c *Clipboard) Read() (string, error) {
	if c.system {
		s, err := clipboard.ReadAll()
		if err == nil {
			return s, nil
		}
		logger.Warnf("clipboard: system read failed: %v", err)
	}
	return c.content, nil
}
