package lsp

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/Sumatoshi-tech/tsguard/pkg/safeconv"
)

// lineIndex converts between byte columns and LSP UTF-16 positions.
type lineIndex struct {
	lines []string
}

func newLineIndex(text string) lineIndex {
	return lineIndex{lines: strings.Split(text, "\n")}
}

// position converts a 1-based line and 1-based byte column.
func (li lineIndex) position(line, column int) protocol.Position {
	row := line - 1
	if row < 0 {
		return protocol.Position{}
	}

	if row >= len(li.lines) {
		return protocol.Position{Line: protocol.UInteger(safeconv.MustIntToUint32(row))}
	}

	text := li.lines[row]
	byteCol := min(max(column-1, 0), len(text))

	return protocol.Position{
		Line:      protocol.UInteger(safeconv.MustIntToUint32(row)),
		Character: protocol.UInteger(safeconv.MustIntToUint32(utf16Len(text[:byteCol]))),
	}
}

// offset converts an LSP position into a byte offset in the text.
func (li lineIndex) offset(pos protocol.Position) int {
	offset := 0
	row := int(pos.Line)

	for i := 0; i < row && i < len(li.lines); i++ {
		offset += len(li.lines[i]) + 1
	}

	if row >= len(li.lines) {
		return max(offset-1, 0)
	}

	text := li.lines[row]
	units := 0

	for idx, r := range text {
		if units >= int(pos.Character) {
			return offset + idx
		}

		units += len(utf16.Encode([]rune{r}))
	}

	return offset + len(text)
}

func utf16Len(text string) int {
	units := 0

	for len(text) > 0 {
		r, size := utf8.DecodeRuneInString(text)
		text = text[size:]

		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
	}

	return units
}

// applyChange returns text with an incremental edit applied.
func applyChange(text string, change protocol.TextDocumentContentChangeEvent) string {
	if change.Range == nil {
		return change.Text
	}

	index := newLineIndex(text)
	start := index.offset(change.Range.Start)
	end := index.offset(change.Range.End)

	if start > end {
		start, end = end, start
	}

	return text[:start] + change.Text + text[end:]
}
