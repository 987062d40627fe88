package jsonv

import "fmt"
import "bytes"
import "strconv"
import "unicode/utf8"
import "unicode/utf16"

import "github.com/bnclabs/mcpalloc/api"
import "github.com/bnclabs/mcpalloc/lib"

// Parser for JSON text, immutable after creation and safe for
// concurrent use with distinct arenas.
type Parser struct {
	maxdepth int
	unescape bool
}

// NewParser return a parser configured by `setts`, refer to
// Defaultsettings.
func NewParser(setts lib.Settings) *Parser {
	setts = Defaultsettings().Mixin(setts)
	return &Parser{
		maxdepth: setts.Int("maxdepth"),
		unescape: setts.Bool("unescape"),
	}
}

var defaultparser = NewParser(nil)

// Parse `text` with default settings, refer to Parser.Parse.
func Parse(a *Arena, text []byte) (*Value, error) {
	return defaultparser.Parse(a, text)
}

// Parsestring is Parse for string input.
func Parsestring(a *Arena, text string) (*Value, error) {
	return defaultparser.Parse(a, []byte(text))
}

// Parse `text` into a value. Nodes come from arena `a`, or from Go heap
// if `a` is nil. On error nothing is returned, nodes already allocated
// from `a` are reclaimed by resetting the arena.
func (p *Parser) Parse(a *Arena, text []byte) (*Value, error) {
	s := &scanner{p: p, a: a, text: text}
	s.skipws()
	v, err := s.value(0)
	if err == nil {
		if s.skipws(); s.off < len(s.text) {
			err = s.errorf("trailing characters")
		}
	}
	if err != nil {
		errorf("jsonv: %v\n", err)
		if a == nil {
			Destroy(v)
		}
		return nil, err
	}
	return v, nil
}

type scanner struct {
	p    *Parser
	a    *Arena
	text []byte
	off  int
}

func (s *scanner) errorf(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%w: %v at offset %v", api.ErrorParse, msg, s.off)
}

func (s *scanner) outofmemory() error {
	return fmt.Errorf("%w: at offset %v", api.ErrorOutofMemory, s.off)
}

func (s *scanner) skipws() {
	for ; s.off < len(s.text); s.off++ {
		switch s.text[s.off] {
		case ' ', '\t', '\n', '\r':
		default:
			return
		}
	}
}

func (s *scanner) value(depth int) (*Value, error) {
	if s.off >= len(s.text) {
		return nil, s.errorf("unexpected end of input")
	}
	switch ch := s.text[s.off]; ch {
	case '{':
		return s.object(depth)
	case '[':
		return s.array(depth)
	case '"':
		str, err := s.str()
		if err != nil {
			return nil, err
		}
		v := newvalue(s.a, String)
		if v == nil {
			return nil, s.outofmemory()
		}
		v.s = str
		return v, nil
	case 'n':
		if err := s.literal("null"); err != nil {
			return nil, err
		}
		return s.check(NewNull(s.a))
	case 't':
		if err := s.literal("true"); err != nil {
			return nil, err
		}
		return s.check(NewBool(s.a, true))
	case 'f':
		if err := s.literal("false"); err != nil {
			return nil, err
		}
		return s.check(NewBool(s.a, false))
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return s.number()
	default:
		return nil, s.errorf("unexpected character %q", ch)
	}
}

func (s *scanner) check(v *Value) (*Value, error) {
	if v == nil {
		return nil, s.outofmemory()
	}
	return v, nil
}

func (s *scanner) literal(lit string) error {
	if !bytes.HasPrefix(s.text[s.off:], []byte(lit)) {
		return s.errorf("expected %v", lit)
	}
	s.off += len(lit)
	return nil
}

func (s *scanner) object(depth int) (*Value, error) {
	if depth > s.p.maxdepth {
		return nil, s.errorf("nesting exceeds %v", s.p.maxdepth)
	}
	v := NewObject(s.a)
	if v == nil {
		return nil, s.outofmemory()
	}
	s.off++ // '{'
	s.skipws()
	if s.off < len(s.text) && s.text[s.off] == '}' {
		s.off++
		return v, nil
	}
	for {
		if s.off >= len(s.text) || s.text[s.off] != '"' {
			return v, s.errorf("expected property name")
		}
		key, err := s.str()
		if err != nil {
			return v, err
		}
		s.skipws()
		if s.off >= len(s.text) || s.text[s.off] != ':' {
			return v, s.errorf("expected ':' after %q", key)
		}
		s.off++
		s.skipws()
		val, err := s.value(depth + 1)
		if err != nil {
			return v, err
		}
		v.Put(key, val)
		s.skipws()
		if s.off >= len(s.text) {
			return v, s.errorf("unterminated object")
		}
		switch s.text[s.off] {
		case ',':
			s.off++
			s.skipws()
		case '}':
			s.off++
			return v, nil
		default:
			return v, s.errorf("expected ',' or '}'")
		}
	}
}

func (s *scanner) array(depth int) (*Value, error) {
	if depth > s.p.maxdepth {
		return nil, s.errorf("nesting exceeds %v", s.p.maxdepth)
	}
	v := NewArray(s.a)
	if v == nil {
		return nil, s.outofmemory()
	}
	s.off++ // '['
	s.skipws()
	if s.off < len(s.text) && s.text[s.off] == ']' {
		s.off++
		return v, nil
	}
	for {
		item, err := s.value(depth + 1)
		if err != nil {
			return v, err
		}
		v.Push(item)
		s.skipws()
		if s.off >= len(s.text) {
			return v, s.errorf("unterminated array")
		}
		switch s.text[s.off] {
		case ',':
			s.off++
			s.skipws()
		case ']':
			s.off++
			return v, nil
		default:
			return v, s.errorf("expected ',' or ']'")
		}
	}
}

func (s *scanner) digits() int {
	start := s.off
	for s.off < len(s.text) && s.text[s.off] >= '0' && s.text[s.off] <= '9' {
		s.off++
	}
	return s.off - start
}

func (s *scanner) number() (*Value, error) {
	start := s.off
	if s.text[s.off] == '-' {
		s.off++
	}
	if s.digits() == 0 {
		return nil, s.errorf("expected digit")
	}
	if s.off < len(s.text) && s.text[s.off] == '.' {
		s.off++
		if s.digits() == 0 {
			return nil, s.errorf("expected digit after '.'")
		}
	}
	if s.off < len(s.text) && (s.text[s.off] == 'e' || s.text[s.off] == 'E') {
		s.off++
		if s.off < len(s.text) && (s.text[s.off] == '+' || s.text[s.off] == '-') {
			s.off++
		}
		if s.digits() == 0 {
			return nil, s.errorf("expected digit in exponent")
		}
	}
	f, err := strconv.ParseFloat(string(s.text[start:s.off]), 64)
	if err != nil {
		return nil, s.errorf("invalid number %q", s.text[start:s.off])
	}
	return s.check(NewNumber(s.a, f))
}

// str scan a string literal starting at '"'. Escapes are validated and
// kept as is, unless parser is configured to unescape.
func (s *scanner) str() (string, error) {
	s.off++ // '"'
	start, escaped := s.off, false
	for s.off < len(s.text) {
		ch := s.text[s.off]
		switch {
		case ch == '"':
			raw := s.text[start:s.off]
			s.off++
			if escaped && s.p.unescape {
				return unescape(raw), nil
			}
			return string(raw), nil

		case ch == '\\':
			escaped = true
			if err := s.escape(); err != nil {
				return "", err
			}

		case ch < 0x20:
			switch ch {
			case '\t', '\n', '\r', '\b', '\f':
				s.off++
			default:
				return "", s.errorf("control character %#x in string", ch)
			}

		default:
			s.off++
		}
	}
	return "", s.errorf("unterminated string")
}

func (s *scanner) escape() error {
	s.off++ // '\\'
	if s.off >= len(s.text) {
		return s.errorf("unterminated escape")
	}
	switch s.text[s.off] {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		s.off++
	case 'u':
		s.off++
		if s.off+4 > len(s.text) || !ishex4(s.text[s.off:s.off+4]) {
			return s.errorf("invalid \\u escape")
		}
		s.off += 4
	default:
		return s.errorf("invalid escape '\\%c'", s.text[s.off])
	}
	return nil
}

func ishex4(b []byte) bool {
	for _, ch := range b[:4] {
		if hexval(ch) < 0 {
			return false
		}
	}
	return true
}

func hexval(ch byte) rune {
	switch {
	case ch >= '0' && ch <= '9':
		return rune(ch - '0')
	case ch >= 'a' && ch <= 'f':
		return rune(ch-'a') + 10
	case ch >= 'A' && ch <= 'F':
		return rune(ch-'A') + 10
	}
	return -1
}

func hex4(b []byte) rune {
	r := rune(0)
	for _, ch := range b[:4] {
		r = r<<4 | hexval(ch)
	}
	return r
}

// unescape a validated string body.
func unescape(raw []byte) string {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' {
			out = append(out, raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'u':
			r := hex4(raw[i+1:])
			i += 4
			if utf16.IsSurrogate(r) {
				r2 := rune(-1)
				if i+6 < len(raw) && raw[i+1] == '\\' && raw[i+2] == 'u' {
					r2 = hex4(raw[i+3:])
				}
				if dec := utf16.DecodeRune(r, r2); dec != utf8.RuneError {
					r = dec
					i += 6
				} else {
					r = utf8.RuneError
				}
			}
			out = utf8.AppendRune(out, r)
		default: // '"', '\\', '/'
			out = append(out, raw[i])
		}
	}
	return string(out)
}
