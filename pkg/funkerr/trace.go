package funkerr

import (
	"fmt"
	"strings"
)

// Painter decorates parts of a trace, typically with terminal colours.
// Nil funcs leave the text unchanged.
type Painter struct {
	Header  func(a ...interface{}) string
	Pointer func(a ...interface{}) string
}

func (p Painter) header(s string) string {
	if p.Header == nil {
		return s
	}
	return p.Header(s)
}

func (p Painter) pointer(s string) string {
	if p.Pointer == nil {
		return s
	}
	return p.Pointer(s)
}

// Trace renders the error for humans: a header naming the kind and the
// location, the surrounding source lines with a caret under the column,
// and the message.
//
// Example output:
//
//	Runtime error in file main.funk at line 2, column 13
//	  1 | numb x = 5;
//	> 2 | numb z = 10 / 0;
//	    |             ^
//	Division by zero
func (e *Error) Trace(source string) string {
	return e.TraceWith(source, Painter{})
}

// TraceWith is Trace with a Painter applied to the header and the caret.
func (e *Error) TraceWith(source string, p Painter) string {
	var buf strings.Builder

	file := e.Pos.File
	if file == "" {
		file = "<input>"
	}
	if e.Pos.IsValid() {
		buf.WriteString(p.header(fmt.Sprintf("%s in file %s at line %d, column %d", e.Kind, file, e.Pos.Line, e.Pos.Column)))
	} else {
		buf.WriteString(p.header(fmt.Sprintf("%s in file %s", e.Kind, file)))
	}
	buf.WriteByte('\n')
	buf.WriteString(GenerateErrorContext(source, e.Pos.Line, e.Pos.Column, p))
	buf.WriteString(e.Message)
	return buf.String()
}

// GenerateErrorContext renders up to two lines before and after line, the
// error line marked with '>' and followed by a caret at column.
func GenerateErrorContext(source string, line, column int, p Painter) string {
	if source == "" || line <= 0 {
		return ""
	}

	lines := strings.Split(source, "\n")
	// a final newline does not start another line unless the error is there
	if len(lines) > line && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if line > len(lines) {
		return ""
	}

	start := line - 3
	if start < 0 {
		start = 0
	}
	end := line + 2
	if end > len(lines) {
		end = len(lines)
	}

	var buf strings.Builder
	width := len(fmt.Sprintf("%d", end))

	for i := start; i < end; i++ {
		lineNum := i + 1
		content := strings.TrimRight(lines[i], "\r")
		if lineNum != line {
			buf.WriteString(fmt.Sprintf("  %*d | %s\n", width, lineNum, content))
			continue
		}
		buf.WriteString(fmt.Sprintf("> %*d | %s\n", width, lineNum, content))
		indent := column - 1
		if indent < 0 {
			indent = 0
		}
		// tabs are kept so the caret lines up in a terminal
		runes := []rune(content)
		var pad strings.Builder
		for j := 0; j < indent; j++ {
			if j < len(runes) && runes[j] == '\t' {
				pad.WriteByte('\t')
			} else {
				pad.WriteByte(' ')
			}
		}
		buf.WriteString(fmt.Sprintf("  %s | %s%s\n", strings.Repeat(" ", width), pad.String(), p.pointer("^")))
	}

	return buf.String()
}
