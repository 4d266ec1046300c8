// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package step

import (
	ifcerr "github.com/sigil-dev/ifcscene/pkg/errors"
)

// MoveToArgumentOffset positions the cursor on argument arg (0-based) of
// entity id. On failure the cursor parks on a sentinel that reads as
// TokenUnknown.
func (l *Loader) MoveToArgumentOffset(id uint32, arg int) error {
	l.pos = 0
	line, ok := l.lines[id]
	if !ok {
		return ifcerr.New(ifcerr.CodeStepLineNotFound, "entity not found", ifcerr.FieldExpressID(id))
	}
	p := line.tapeStart + 1
	for i := 0; ; i++ {
		switch l.tape[p].kind {
		case TokenSetEnd, TokenLineEnd:
			return ifcerr.New(ifcerr.CodeStepArgumentInvalid, "argument out of range",
				ifcerr.FieldExpressID(id), ifcerr.Field("argument", arg))
		}
		if i == arg {
			l.pos = p
			return nil
		}
		p = l.skipValue(p)
	}
}

// TokenType returns the kind of the value under the cursor and advances.
func (l *Loader) TokenType() TokenType {
	if l.pos >= len(l.tape) {
		return TokenUnknown
	}
	t := l.tape[l.pos].kind
	l.pos++
	return t
}

// StepBack moves the cursor back one cell.
func (l *Loader) StepBack() {
	if l.pos > 0 {
		l.pos--
	}
}

// Offset returns the tape offset under the cursor.
func (l *Loader) Offset() int { return l.pos }

// TokenTypeAt returns the kind of the value at a tape offset.
func (l *Loader) TokenTypeAt(offset int) TokenType {
	if offset < 0 || offset >= len(l.tape) {
		return TokenUnknown
	}
	return l.tape[offset].kind
}

// StringArgument reads a string, unwrapping typed values like
// IFCLABEL('x'), and advances past it.
func (l *Loader) StringArgument() string {
	p := l.unwrap(l.pos)
	l.pos = l.skipValue(l.pos)
	if p < len(l.tape) && (l.tape[p].kind == TokenString || l.tape[p].kind == TokenEnum) {
		return l.tape[p].text
	}
	return ""
}

// RefArgument reads an entity reference and advances past it.
func (l *Loader) RefArgument() uint32 {
	ref := l.RefAt(l.pos)
	l.pos = l.skipValue(l.pos)
	return ref
}

// RefAt returns the entity reference stored at a tape offset, or 0.
func (l *Loader) RefAt(offset int) uint32 {
	if offset <= 0 || offset >= len(l.tape) || l.tape[offset].kind != TokenRef {
		return 0
	}
	return l.tape[offset].ref
}

// DoubleArgument reads a real or integer, unwrapping typed values like
// IFCLENGTHMEASURE(1.), and advances past it.
func (l *Loader) DoubleArgument() float64 {
	v := l.DoubleAt(l.pos)
	l.pos = l.skipValue(l.pos)
	return v
}

// DoubleAt returns the number stored at a tape offset, or 0.
func (l *Loader) DoubleAt(offset int) float64 {
	p := l.unwrap(offset)
	if p <= 0 || p >= len(l.tape) {
		return 0
	}
	switch l.tape[p].kind {
	case TokenReal, TokenInteger:
		return l.tape[p].num
	}
	return 0
}

// IntArgument reads an integer and advances past it.
func (l *Loader) IntArgument() int {
	return int(l.DoubleArgument())
}

// EnumArgument reads an enumeration such as .T. and returns "T".
func (l *Loader) EnumArgument() string {
	p := l.pos
	l.pos = l.skipValue(l.pos)
	if p < len(l.tape) && l.tape[p].kind == TokenEnum {
		return l.tape[p].text
	}
	return ""
}

// SetArgument reads a set under the cursor and returns the tape offset of
// every member. Nested sets are returned as the offset of their SetBegin.
func (l *Loader) SetArgument() []int {
	if l.pos >= len(l.tape) || l.tape[l.pos].kind != TokenSetBegin {
		return nil
	}
	var offsets []int
	p := l.pos + 1
	for p < len(l.tape) && l.tape[p].kind != TokenSetEnd && l.tape[p].kind != TokenLineEnd {
		offsets = append(offsets, p)
		p = l.skipValue(p)
	}
	l.pos = p + 1
	return offsets
}

// SetAt returns the member offsets of the set starting at a tape offset
// without moving the cursor.
func (l *Loader) SetAt(offset int) []int {
	saved := l.pos
	l.pos = offset
	offsets := l.SetArgument()
	l.pos = saved
	return offsets
}

// skipValue returns the offset just past the value starting at p.
func (l *Loader) skipValue(p int) int {
	if p <= 0 || p >= len(l.tape) {
		return p
	}
	switch l.tape[p].kind {
	case TokenLabel:
		if p+1 < len(l.tape) && l.tape[p+1].kind == TokenSetBegin {
			return l.skipValue(p + 1)
		}
		return p + 1
	case TokenSetBegin:
		depth := 0
		for ; p < len(l.tape); p++ {
			switch l.tape[p].kind {
			case TokenSetBegin:
				depth++
			case TokenSetEnd:
				depth--
				if depth == 0 {
					return p + 1
				}
			case TokenLineEnd:
				return p
			}
		}
		return p
	case TokenLineEnd:
		return p
	default:
		return p + 1
	}
}

// unwrap returns the offset of the inner value of a typed value such as
// IFCLABEL('x'); other values are returned unchanged.
func (l *Loader) unwrap(p int) int {
	if p > 0 && p+2 < len(l.tape) && l.tape[p].kind == TokenLabel && l.tape[p+1].kind == TokenSetBegin {
		return p + 2
	}
	return p
}
