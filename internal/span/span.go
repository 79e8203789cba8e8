// Package span defines the opaque source-location value object threaded
// through the compiler core. The surface parser (out of scope for this
// module) is the sole producer of spans; every other component only
// carries them along for error reporting.
package span

import "fmt"

// Span is an opaque, comparable value object identifying a region of
// source text. The compiler core never inspects its fields beyond
// formatting them in diagnostics.
type Span struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// Zero is the Span used when no real location is available (e.g.
// synthesized nodes produced by lowering or optimization).
var Zero = Span{}

func (s Span) String() string {
	if s == Zero {
		return "<unknown>"
	}
	if s.StartLine == s.EndLine {
		return fmt.Sprintf("%s:%d:%d-%d", s.File, s.StartLine, s.StartCol, s.EndCol)
	}
	return fmt.Sprintf("%s:%d:%d-%d:%d", s.File, s.StartLine, s.StartCol, s.EndLine, s.EndCol)
}

// IsZero reports whether this span carries no location information.
func (s Span) IsZero() bool {
	return s == Zero
}
