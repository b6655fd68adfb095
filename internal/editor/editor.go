// Package editor is a minimal terminal shell around a document: blocks
// render as lines and keys map onto cursor operations.
package editor

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/quill/document"
	"github.com/bethropolis/quill/internal/config"
	"github.com/bethropolis/quill/internal/logger"
)

// Editor owns the screen, the document and the editing cursor.
type Editor struct {
	screen   tcell.Screen
	doc      *document.TextDocument
	cursor   *document.TextCursor
	cfg      *config.Config
	clip     *Clipboard
	callback document.CallbackID

	filePath string
	dirty    bool
	edits    int
	topLine  int
	status   string
	quit     bool
}

// New creates an editor over the given file; an empty path starts a
// scratch document.
func New(filePath string, cfg *config.Config) (*Editor, error) {
	doc := document.New()
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("cannot read %s: %w", filePath, err)
		}
		if len(data) > 0 {
			if err := doc.SetPlainText(string(data)); err != nil {
				return nil, err
			}
		}
	}
	e := &Editor{
		doc:      doc,
		cursor:   doc.Cursor(),
		cfg:      cfg,
		clip:     newClipboard(cfg.Editor.SystemClipboard),
		filePath: filePath,
	}
	e.callback = doc.RegisterCallbacks(e.onTextChange, nil)
	e.dirty = false
	return e, nil
}

// onTextChange tracks modification state for the status bar.
func (e *Editor) onTextChange(ch document.TextChange) {
	e.dirty = true
	e.edits++
	logger.Debugf("editor: change at %d (-%d +%d)", ch.Position, ch.Removed, ch.Added)
}

// Run initializes the screen and processes events until quit.
func (e *Editor) Run() error {
	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create tcell screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("failed to initialize tcell screen: %w", err)
	}
	defer s.Fini()
	s.SetStyle(tcell.StyleDefault)
	e.screen = s

	for !e.quit {
		e.draw()
		switch ev := s.PollEvent().(type) {
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventKey:
			e.handleKey(ev)
		}
	}
	e.doc.UnregisterCallbacks(e.callback)
	return nil
}

func (e *Editor) handleKey(ev *tcell.EventKey) {
	e.status = ""
	mode := document.MoveAnchor
	if ev.Modifiers()&tcell.ModShift != 0 {
		mode = document.KeepAnchor
	}
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		e.quit = true
	case tcell.KeyCtrlS:
		e.save()
	case tcell.KeyLeft:
		e.cursor.MovePosition(document.PreviousCharacter, mode, 1)
	case tcell.KeyRight:
		e.cursor.MovePosition(document.NextCharacter, mode, 1)
	case tcell.KeyUp:
		e.cursor.MovePosition(document.PreviousBlock, mode, 1)
	case tcell.KeyDown:
		e.cursor.MovePosition(document.NextBlock, mode, 1)
	case tcell.KeyHome:
		e.cursor.MovePosition(document.StartOfBlock, mode, 1)
	case tcell.KeyEnd:
		e.cursor.MovePosition(document.EndOfBlock, mode, 1)
	case tcell.KeyEnter:
		_, err := e.cursor.InsertBlock(nil)
		e.report(err)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		e.report(e.cursor.DeletePreviousCharacter())
	case tcell.KeyDelete:
		e.report(e.cursor.DeleteCharacter())
	case tcell.KeyTab:
		e.report(e.cursor.InsertText("\t"))
	case tcell.KeyCtrlK:
		e.report(e.yank())
	case tcell.KeyCtrlV:
		e.report(e.paste())
	case tcell.KeyRune:
		e.report(e.cursor.InsertText(string(ev.Rune())))
	}
}

func (e *Editor) report(err error) {
	if err != nil {
		e.status = err.Error()
		logger.Errorf("editor: %v", err)
	}
}

func (e *Editor) save() {
	if e.filePath == "" {
		e.status = "no file to save to"
		return
	}
	if err := os.WriteFile(e.filePath, []byte(e.doc.PlainText()), 0644); err != nil {
		e.report(err)
		return
	}
	e.dirty = false
	e.status = fmt.Sprintf("saved %s", e.filePath)
	logger.Infof("editor: saved %s", e.filePath)
}

func (e *Editor) yank() error {
	if !e.cursor.HasSelection() {
		return nil
	}
	return e.clip.Write(e.cursor.SelectedText())
}

func (e *Editor) paste() error {
	s, err := e.clip.Read()
	if err != nil || s == "" {
		return err
	}
	return e.cursor.InsertText(s)
}
