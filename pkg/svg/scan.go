package svg

import (
	"math"

	"github.com/tdewolff/parse/v2/strconv"

	"github.com/matzehuels/pagefit/pkg/errors"
)

// scanner tokenizes the number lists used by path data, transform lists,
// points and viewBox attributes. Numbers follow the SVG grammar, so "1-2.5.5"
// reads as 1, -2.5 and .5.
type scanner struct {
	s   string
	buf []byte
	pos int
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// skipSep skips whitespace and commas.
func (sc *scanner) skipSep() {
	for sc.pos < len(sc.s) && (isSpace(sc.s[sc.pos]) || sc.s[sc.pos] == ',') {
		sc.pos++
	}
}

func (sc *scanner) skipSpace() {
	for sc.pos < len(sc.s) && isSpace(sc.s[sc.pos]) {
		sc.pos++
	}
}

func (sc *scanner) done() bool {
	sc.skipSep()
	return sc.pos >= len(sc.s)
}

// peek returns the next non-separator byte without consuming it.
func (sc *scanner) peek() byte {
	sc.skipSep()
	if sc.pos >= len(sc.s) {
		return 0
	}
	return sc.s[sc.pos]
}

// atNumber reports whether a number starts at the next non-separator byte.
func (sc *scanner) atNumber() bool {
	c := sc.peek()
	return isDigit(c) || c == '.' || c == '-' || c == '+'
}

func (sc *scanner) number() (float64, error) {
	sc.skipSep()
	if sc.buf == nil {
		sc.buf = []byte(sc.s)
	}
	v, n := strconv.ParseFloat(sc.buf[sc.pos:])
	if n == 0 {
		return 0, sc.errorf("expected number")
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, sc.errorf("number %q out of range", sc.s[sc.pos:sc.pos+n])
	}
	sc.pos += n
	return v, nil
}

// numbers reads n numbers.
func (sc *scanner) numbers(n int) ([]float64, error) {
	out := make([]float64, n)
	for i := range out {
		v, err := sc.number()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// flag reads an arc flag. Flags may be written without separators ("01").
func (sc *scanner) flag() (bool, error) {
	sc.skipSep()
	if sc.pos < len(sc.s) {
		switch sc.s[sc.pos] {
		case '0':
			sc.pos++
			return false, nil
		case '1':
			sc.pos++
			return true, nil
		}
	}
	return false, sc.errorf("expected flag 0 or 1")
}

func (sc *scanner) errorf(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidInput, format+" at offset %d in %q", append(args, sc.pos, sc.s)...)
}

// parseNumbers splits a whitespace or comma separated list of numbers.
func parseNumbers(s string) ([]float64, error) {
	sc := &scanner{s: s}
	var out []float64
	for !sc.done() {
		v, err := sc.number()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
