package editor

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

func (e *Editor) draw() {
	e.screen.Clear()
	width, height := e.screen.Size()
	textRows := height - e.cfg.Editor.StatusBarHeight
	if textRows < 1 {
		textRows = 1
	}

	// plain text lines match the document's blocks one to one
	lines := strings.Split(e.doc.PlainText(), "\n")
	curLine, curCol := e.cursorLineCol()
	if curLine < e.topLine {
		e.topLine = curLine
	}
	if curLine >= e.topLine+textRows {
		e.topLine = curLine - textRows + 1
	}

	selLo, selHi := e.cursor.SelectionStart(), e.cursor.SelectionEnd()
	offset := 0
	for i, line := range lines {
		if i >= e.topLine && i-e.topLine < textRows {
			e.drawLine(i-e.topLine, line, offset, selLo, selHi, width)
		}
		offset += len([]rune(line)) + 1
	}

	e.drawStatusBar(width, height-1, curLine, curCol)
	if curLine < len(lines) {
		e.screen.ShowCursor(visualColumn(lines[curLine], curCol), curLine-e.topLine)
	}
	e.screen.Show()
}

// cursorLineCol maps the cursor offset to a (line, column) pair. Lines
// are block numbers; the column is the block-local offset.
func (e *Editor) cursorLineCol() (int, int) {
	b := e.cursor.CurrentBlock()
	if b == nil {
		return 0, 0
	}
	return b.Number(), e.cursor.Position() - b.Position()
}

func (e *Editor) drawLine(row int, line string, lineOffset, selLo, selHi, width int) {
	style := tcell.StyleDefault
	selStyle := style.Reverse(true)
	x := 0
	runeIdx := 0
	gr := uniseg.NewGraphemes(line)
	for gr.Next() {
		if x >= width {
			break
		}
		runes := gr.Runes()
		st := style
		pos := lineOffset + runeIdx
		if selLo != selHi && pos >= selLo && pos < selHi {
			st = selStyle
		}
		var comb []rune
		if len(runes) > 1 {
			comb = runes[1:]
		}
		e.screen.SetContent(x, row, runes[0], comb, st)
		x += gr.Width()
		runeIdx += len(runes)
	}
}

// visualColumn converts a rune index into a screen column, walking
// grapheme clusters so wide and combining characters land correctly.
func visualColumn(line string, runeIndex int) int {
	if runeIndex <= 0 {
		return 0
	}
	visualWidth := 0
	currentRuneIndex := 0
	gr := uniseg.NewGraphemes(line)
	for gr.Next() {
		if currentRuneIndex >= runeIndex {
			break
		}
		visualWidth += gr.Width()
		currentRuneIndex += len(gr.Runes())
	}
	return visualWidth
}

func (e *Editor) drawStatusBar(width, y, line, col int) {
	style := tcell.StyleDefault.Reverse(true)
	name := e.filePath
	if name == "" {
		name = "[scratch]"
	}
	mod := ""
	if e.dirty {
		mod = " [+]"
	}
	left := fmt.Sprintf(" %s%s", name, mod)
	if e.status != "" {
		left = " " + e.status
	}
	right := fmt.Sprintf("blk %d/%d  pos %d:%d  edits %d ",
		line+1, len(e.doc.Blocks()), e.cursor.Position(), col, e.edits)

	x := 0
	for _, r := range left {
		if x >= width {
			break
		}
		e.screen.SetContent(x, y, r, nil, style)
		x++
	}
	for ; x < width-len([]rune(right)); x++ {
		e.screen.SetContent(x, y, ' ', nil, style)
	}
	for _, r := range right {
		if x >= width {
			break
		}
		e.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
