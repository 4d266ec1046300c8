// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package schema

import (
	"strings"

	"github.com/google/uuid"

	ifcerr "github.com/sigil-dev/ifcscene/pkg/errors"
)

const globalIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz_$"

// GlobalIDLength is the length of a compressed IFC GlobalId.
const GlobalIDLength = 22

// ExpandGlobalID decodes a 22 character IFC GlobalId into a UUID.
func ExpandGlobalID(s string) (uuid.UUID, error) {
	var id uuid.UUID
	if len(s) != GlobalIDLength {
		return id, ifcerr.New(ifcerr.CodeSchemaGlobalIDInvalid, "global id must be 22 characters",
			ifcerr.Field("global_id", s))
	}

	first, err := decodeGroup(s[:2])
	if err != nil || first > 0xff {
		return id, ifcerr.New(ifcerr.CodeSchemaGlobalIDInvalid, "invalid global id", ifcerr.Field("global_id", s))
	}
	id[0] = byte(first)
	for i := 0; i < 5; i++ {
		v, err := decodeGroup(s[2+4*i : 6+4*i])
		if err != nil {
			return id, ifcerr.New(ifcerr.CodeSchemaGlobalIDInvalid, "invalid global id", ifcerr.Field("global_id", s))
		}
		id[1+3*i] = byte(v >> 16)
		id[2+3*i] = byte(v >> 8)
		id[3+3*i] = byte(v)
	}
	return id, nil
}

// CompressGlobalID encodes a UUID as a 22 character IFC GlobalId.
func CompressGlobalID(id uuid.UUID) string {
	var b strings.Builder
	b.Grow(GlobalIDLength)
	encodeGroup(&b, uint32(id[0]), 2)
	for i := 0; i < 5; i++ {
		v := uint32(id[1+3*i])<<16 | uint32(id[2+3*i])<<8 | uint32(id[3+3*i])
		encodeGroup(&b, v, 4)
	}
	return b.String()
}

func decodeGroup(s string) (uint32, error) {
	var v uint32
	for i := 0; i < len(s); i++ {
		d := strings.IndexByte(globalIDAlphabet, s[i])
		if d < 0 {
			return 0, ifcerr.Errorf(ifcerr.CodeSchemaGlobalIDInvalid, "invalid global id character %q", s[i])
		}
		v = v<<6 | uint32(d)
	}
	return v, nil
}

func encodeGroup(b *strings.Builder, v uint32, n int) {
	var buf [4]byte
	for i := n - 1; i >= 0; i-- {
		buf[i] = globalIDAlphabet[v&63]
		v >>= 6
	}
	b.Write(buf[:n])
}
