// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package step

import (
	"encoding/hex"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// decodeString resolves the ISO-10303-21 control directives inside a string
// literal whose surrounding quotes and doubled quotes are already removed.
//
//	\X\hh         one ISO-8859-1 character
//	\S\c          character c from the upper half of ISO-8859-1
//	\X2\hhhh..\X0\ UTF-16BE code units
//	\X4\hhhhhhhh..\X0\ UTF-32BE code points
//	\Px\          code page switch, ignored
//	\\            a single backslash
func decodeString(raw string) string {
	if !strings.Contains(raw, `\`) {
		return raw
	}

	var b strings.Builder
	for i := 0; i < len(raw); {
		if raw[i] != '\\' {
			b.WriteByte(raw[i])
			i++
			continue
		}
		rest := raw[i:]
		switch {
		case strings.HasPrefix(rest, `\\`):
			b.WriteByte('\\')
			i += 2
		case strings.HasPrefix(rest, `\X2\`), strings.HasPrefix(rest, `\X4\`):
			end := strings.Index(rest[4:], `\X0\`)
			if end < 0 {
				b.WriteString(rest)
				return b.String()
			}
			b.WriteString(decodeWide(rest[4:4+end], rest[2] == '4'))
			i += 4 + end + 4
		case strings.HasPrefix(rest, `\X\`) && len(rest) >= 5:
			if v, err := hex.DecodeString(rest[3:5]); err == nil {
				b.WriteString(latin1(v))
				i += 5
				continue
			}
			b.WriteByte('\\')
			i++
		case strings.HasPrefix(rest, `\S\`) && len(rest) >= 4:
			b.WriteString(latin1([]byte{rest[3] + 128}))
			i += 4
		case len(rest) >= 4 && rest[1] == 'P' && rest[3] == '\\':
			i += 4
		default:
			b.WriteByte('\\')
			i++
		}
	}
	return b.String()
}

func decodeWide(hexDigits string, utf32BE bool) string {
	raw, err := hex.DecodeString(hexDigits)
	if err != nil {
		return hexDigits
	}
	if utf32BE {
		out, err := utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM).NewDecoder().Bytes(raw)
		if err != nil {
			return hexDigits
		}
		return string(out)
	}
	out, err := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder().Bytes(raw)
	if err != nil {
		return hexDigits
	}
	return string(out)
}

func latin1(raw []byte) string {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}
