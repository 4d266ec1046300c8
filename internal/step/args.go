// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package step

// Convenience readers used by the geometry processor. Each moves the cursor
// to argument arg of entity id and returns the zero value when the argument
// is missing or of another kind.

// RefArg returns the reference at argument arg, or 0.
func (l *Loader) RefArg(id uint32, arg int) uint32 {
	if l.MoveToArgumentOffset(id, arg) != nil {
		return 0
	}
	return l.RefArgument()
}

// StringArg returns the string or enumeration at argument arg.
func (l *Loader) StringArg(id uint32, arg int) (string, bool) {
	if l.MoveToArgumentOffset(id, arg) != nil {
		return "", false
	}
	switch l.tape[l.unwrap(l.pos)].kind {
	case TokenString, TokenEnum:
		return l.StringArgument(), true
	}
	return "", false
}

// EnumArg returns the enumeration at argument arg without its dots.
func (l *Loader) EnumArg(id uint32, arg int) string {
	if l.MoveToArgumentOffset(id, arg) != nil {
		return ""
	}
	return l.EnumArgument()
}

// DoubleArg returns the number at argument arg and whether one was present.
func (l *Loader) DoubleArg(id uint32, arg int) (float64, bool) {
	if l.MoveToArgumentOffset(id, arg) != nil {
		return 0, false
	}
	switch l.tape[l.unwrap(l.pos)].kind {
	case TokenReal, TokenInteger:
		return l.DoubleArgument(), true
	}
	return 0, false
}

// RefSetArg returns the references in the set at argument arg.
func (l *Loader) RefSetArg(id uint32, arg int) []uint32 {
	if l.MoveToArgumentOffset(id, arg) != nil {
		return nil
	}
	offsets := l.SetArgument()
	refs := make([]uint32, 0, len(offsets))
	for _, off := range offsets {
		if ref := l.RefAt(off); ref != 0 {
			refs = append(refs, ref)
		}
	}
	return refs
}

// DoubleSetArg returns the numbers in the set at argument arg.
func (l *Loader) DoubleSetArg(id uint32, arg int) []float64 {
	if l.MoveToArgumentOffset(id, arg) != nil {
		return nil
	}
	return l.doublesAt(l.pos)
}

// NestedDoubleSetArg returns a list of number lists, as used by
// IfcCartesianPointList3D.
func (l *Loader) NestedDoubleSetArg(id uint32, arg int) [][]float64 {
	if l.MoveToArgumentOffset(id, arg) != nil {
		return nil
	}
	outer := l.SetArgument()
	out := make([][]float64, 0, len(outer))
	for _, off := range outer {
		out = append(out, l.doublesAt(off))
	}
	return out
}

// NestedIntSetArg returns a list of integer lists, as used by
// IfcTriangulatedFaceSet.CoordIndex.
func (l *Loader) NestedIntSetArg(id uint32, arg int) [][]int {
	nested := l.NestedDoubleSetArg(id, arg)
	out := make([][]int, len(nested))
	for i, row := range nested {
		out[i] = make([]int, len(row))
		for j, v := range row {
			out[i][j] = int(v)
		}
	}
	return out
}

// IntSetArg returns the integers in the set at argument arg.
func (l *Loader) IntSetArg(id uint32, arg int) []int {
	vals := l.DoubleSetArg(id, arg)
	out := make([]int, len(vals))
	for i, v := range vals {
		out[i] = int(v)
	}
	return out
}

func (l *Loader) doublesAt(offset int) []float64 {
	members := l.SetAt(offset)
	out := make([]float64, 0, len(members))
	for _, off := range members {
		out = append(out, l.DoubleAt(off))
	}
	return out
}
