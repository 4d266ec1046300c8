// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package step

// TokenType is the kind of a single value recorded on the tape.
type TokenType uint8

const (
	TokenUnknown TokenType = iota
	TokenString
	TokenLabel
	TokenEnum
	TokenRef
	TokenSetBegin
	TokenSetEnd
	TokenLineEnd
	TokenInteger
	TokenReal
	TokenEmpty
	TokenDerived
)

func (t TokenType) String() string {
	switch t {
	case TokenString:
		return "string"
	case TokenLabel:
		return "label"
	case TokenEnum:
		return "enum"
	case TokenRef:
		return "ref"
	case TokenSetBegin:
		return "set_begin"
	case TokenSetEnd:
		return "set_end"
	case TokenLineEnd:
		return "line_end"
	case TokenInteger:
		return "integer"
	case TokenReal:
		return "real"
	case TokenEmpty:
		return "empty"
	case TokenDerived:
		return "derived"
	default:
		return "unknown"
	}
}

// token is one tape cell. Only the field matching kind is meaningful.
type token struct {
	kind TokenType
	text string
	num  float64
	ref  uint32
}

// Line is one entity instance ("#id=TYPE(...);") of the data section.
type Line struct {
	ExpressID uint32
	Type      uint32
	TypeName  string

	// tapeStart is the index of the SetBegin that opens the argument list.
	tapeStart int
}
