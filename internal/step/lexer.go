// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package step

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/buffer"

	ifcerr "github.com/sigil-dev/ifcscene/pkg/errors"
)

// scanner tokenizes an ISO-10303-21 exchange file onto a tape.
type scanner struct {
	data []byte
	z    *buffer.Lexer
	tape []token

	// emitted once per "#id=TYPE(...);" statement
	onLine func(id uint32, typeName string, tapeStart int)
	// emitted once per header entity such as FILE_SCHEMA(...)
	onHeader func(name string, tapeStart int)
}

func newScanner(data []byte, tape []token) *scanner {
	return &scanner{
		data: data,
		z:    buffer.NewLexerBytes(data),
		tape: tape,
	}
}

func (s *scanner) run() error {
	defer s.z.Restore()

	for {
		s.skipSpace()
		c := s.z.Peek(0)
		switch {
		case c == 0:
			if s.z.Err() != nil {
				return nil
			}
			return s.errorf("unexpected NUL byte")
		case c == '#':
			if err := s.entity(); err != nil {
				return err
			}
		case isKeywordStart(c):
			if err := s.section(); err != nil {
				return err
			}
		default:
			return s.errorf("unexpected character %q", c)
		}
	}
}

// entity scans "#id = TYPE ( args ) ;".
func (s *scanner) entity() error {
	s.z.Move(1)
	s.z.Skip()
	id, ok := s.digits()
	if !ok {
		return s.errorf("expected entity id after '#'")
	}
	s.skipSpace()
	if s.z.Peek(0) != '=' {
		return s.errorf("expected '=' after #%d", id)
	}
	s.z.Move(1)
	s.skipSpace()
	name := s.keyword()
	if name == "" {
		return s.errorf("expected entity type for #%d", id)
	}
	s.skipSpace()
	if s.z.Peek(0) != '(' {
		return s.errorf("expected '(' after %s", name)
	}
	start := len(s.tape)
	if err := s.arguments(); err != nil {
		return err
	}
	s.skipSpace()
	if s.z.Peek(0) != ';' {
		return s.errorf("expected ';' after #%d", id)
	}
	s.z.Move(1)
	s.z.Skip()
	s.tape = append(s.tape, token{kind: TokenLineEnd})
	if s.onLine != nil {
		s.onLine(uint32(id), strings.ToUpper(name), start)
	}
	return nil
}

// section scans section keywords (HEADER; DATA; ENDSEC; ...) and header
// entities such as FILE_SCHEMA(('IFC4'));.
func (s *scanner) section() error {
	name := s.keyword()
	s.skipSpace()
	switch s.z.Peek(0) {
	case ';':
		s.z.Move(1)
		s.z.Skip()
		return nil
	case '(':
		start := len(s.tape)
		if err := s.arguments(); err != nil {
			return err
		}
		s.skipSpace()
		if s.z.Peek(0) == ';' {
			s.z.Move(1)
			s.z.Skip()
		}
		s.tape = append(s.tape, token{kind: TokenLineEnd})
		if s.onHeader != nil {
			s.onHeader(strings.ToUpper(name), start)
		}
		return nil
	default:
		return s.errorf("unexpected input after %s", name)
	}
}

// arguments scans a parenthesised, possibly nested, argument list starting
// at '('.
func (s *scanner) arguments() error {
	depth := 0
	for {
		s.skipSpace()
		c := s.z.Peek(0)
		switch {
		case c == 0:
			return s.errorf("unterminated argument list")
		case c == '(':
			s.z.Move(1)
			s.z.Skip()
			depth++
			s.tape = append(s.tape, token{kind: TokenSetBegin})
		case c == ')':
			s.z.Move(1)
			s.z.Skip()
			depth--
			s.tape = append(s.tape, token{kind: TokenSetEnd})
			if depth == 0 {
				return nil
			}
		case c == ',':
			s.z.Move(1)
			s.z.Skip()
		case c == '\'' || c == '"':
			text, err := s.quoted(c)
			if err != nil {
				return err
			}
			s.tape = append(s.tape, token{kind: TokenString, text: text})
		case c == '.':
			s.z.Move(1)
			s.z.Skip()
			for c := s.z.Peek(0); c != '.'; c = s.z.Peek(0) {
				if c == 0 {
					return s.errorf("unterminated enumeration")
				}
				s.z.Move(1)
			}
			text := string(s.z.Shift())
			s.z.Move(1)
			s.z.Skip()
			s.tape = append(s.tape, token{kind: TokenEnum, text: text})
		case c == '#':
			s.z.Move(1)
			s.z.Skip()
			id, ok := s.digits()
			if !ok {
				return s.errorf("expected reference id after '#'")
			}
			s.tape = append(s.tape, token{kind: TokenRef, ref: uint32(id)})
		case c == '$':
			s.z.Move(1)
			s.z.Skip()
			s.tape = append(s.tape, token{kind: TokenEmpty})
		case c == '*':
			s.z.Move(1)
			s.z.Skip()
			s.tape = append(s.tape, token{kind: TokenDerived})
		case isNumberStart(c):
			tok, err := s.number()
			if err != nil {
				return err
			}
			s.tape = append(s.tape, tok)
		case isKeywordStart(c):
			s.tape = append(s.tape, token{kind: TokenLabel, text: strings.ToUpper(s.keyword())})
		default:
			return s.errorf("unexpected character %q in argument list", c)
		}
	}
}

// quoted scans a string literal. Doubled quotes stand for one quote.
func (s *scanner) quoted(q byte) (string, error) {
	s.z.Move(1)
	s.z.Skip()
	var b strings.Builder
	for {
		c := s.z.Peek(0)
		if c == 0 {
			return "", s.errorf("unterminated string")
		}
		if c == q {
			b.Write(s.z.Shift())
			s.z.Move(1)
			if s.z.Peek(0) == q {
				b.WriteByte(q)
				s.z.Move(1)
				s.z.Skip()
				continue
			}
			s.z.Skip()
			return decodeString(b.String()), nil
		}
		s.z.Move(1)
	}
}

func (s *scanner) number() (token, error) {
	s.z.Skip()
	isReal := false
	for c := s.z.Peek(0); ; c = s.z.Peek(0) {
		switch {
		case c >= '0' && c <= '9', c == '+', c == '-':
		case c == '.', c == 'e', c == 'E':
			isReal = true
		default:
			lexeme := string(s.z.Shift())
			v, err := strconv.ParseFloat(normalizeReal(lexeme), 64)
			if err != nil {
				return token{}, s.errorf("invalid number %q", lexeme)
			}
			if isReal {
				return token{kind: TokenReal, num: v}, nil
			}
			return token{kind: TokenInteger, num: v}, nil
		}
		s.z.Move(1)
	}
}

// normalizeReal turns STEP reals such as "1." or "-2.E-3" into a form
// strconv accepts.
func normalizeReal(v string) string {
	if i := strings.IndexAny(v, "eE"); i > 0 && v[i-1] == '.' {
		return v[:i-1] + v[i:]
	}
	return strings.TrimSuffix(v, ".")
}

func (s *scanner) digits() (uint64, bool) {
	s.z.Skip()
	for c := s.z.Peek(0); c >= '0' && c <= '9'; c = s.z.Peek(0) {
		s.z.Move(1)
	}
	lexeme := s.z.Shift()
	if len(lexeme) == 0 {
		return 0, false
	}
	v, err := strconv.ParseUint(string(lexeme), 10, 32)
	return v, err == nil
}

func (s *scanner) keyword() string {
	s.z.Skip()
	for c := s.z.Peek(0); isKeywordPart(c); c = s.z.Peek(0) {
		s.z.Move(1)
	}
	return string(s.z.Shift())
}

// skipSpace drops whitespace and /* comments */.
func (s *scanner) skipSpace() {
	for {
		switch c := s.z.Peek(0); {
		case c == ' ', c == '\t', c == '\r', c == '\n':
			s.z.Move(1)
		case c == '/' && s.z.Peek(1) == '*':
			s.z.Move(2)
			for {
				c := s.z.Peek(0)
				if c == 0 {
					s.z.Skip()
					return
				}
				if c == '*' && s.z.Peek(1) == '/' {
					s.z.Move(2)
					break
				}
				s.z.Move(1)
			}
		default:
			s.z.Skip()
			return
		}
	}
}

func (s *scanner) errorf(format string, args ...any) error {
	offset := s.z.Offset()
	line, col, _ := parse.Position(bytes.NewReader(s.data), offset)
	return ifcerr.With(
		ifcerr.Errorf(ifcerr.CodeStepParseInvalid, format, args...),
		ifcerr.Field("line", line),
		ifcerr.Field("column", col),
		ifcerr.Field("offset", offset),
	)
}

func isKeywordStart(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c == '_'
}

func isKeywordPart(c byte) bool {
	return isKeywordStart(c) || c >= '0' && c <= '9' || c == '-'
}

func isNumberStart(c byte) bool {
	return c >= '0' && c <= '9' || c == '+' || c == '-'
}
