// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package step

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/sigil-dev/ifcscene/internal/schema"
	ifcerr "github.com/sigil-dev/ifcscene/pkg/errors"
)

const (
	// DefaultChunkSize is the size of one LoadFile read request (64 MiB).
	DefaultChunkSize = 64 << 20
	// DefaultMemoryLimit caps the bytes accepted by LoadFile (2 GiB).
	DefaultMemoryLimit = 2 << 30
)

// Settings controls how a Loader pulls its input.
type Settings struct {
	ChunkSize   int
	MemoryLimit int64
}

// ReadFunc copies up to len(dest) bytes starting at sourceOffset into dest
// and returns the number of bytes copied. Returning 0 ends the input.
type ReadFunc func(dest []byte, sourceOffset int) int

// Loader holds a tokenized IFC file and a cursor over its tape.
type Loader struct {
	settings Settings
	schema   *schema.Manager
	logger   *slog.Logger

	tape   []token
	lines  map[uint32]*Line
	order  []uint32
	byType map[uint32][]uint32
	header map[string]int
	maxID  uint32

	pos int
}

// NewLoader creates an empty loader. Entity type names seen while loading
// are registered with the schema manager.
func NewLoader(settings Settings, manager *schema.Manager) *Loader {
	if settings.ChunkSize <= 0 {
		settings.ChunkSize = DefaultChunkSize
	}
	if settings.MemoryLimit <= 0 {
		settings.MemoryLimit = DefaultMemoryLimit
	}
	if manager == nil {
		manager = schema.NewManager()
	}
	l := &Loader{
		settings: settings,
		schema:   manager,
		logger:   slog.Default(),
	}
	l.reset()
	return l
}

// WithLogger sets the logger used for load diagnostics.
func (l *Loader) WithLogger(logger *slog.Logger) *Loader {
	if logger != nil {
		l.logger = logger
	}
	return l
}

func (l *Loader) reset() {
	// Cell 0 is a sentinel the cursor parks on after a failed move.
	l.tape = []token{{kind: TokenUnknown}}
	l.lines = make(map[uint32]*Line)
	l.order = nil
	l.byType = make(map[uint32][]uint32)
	l.header = make(map[string]int)
	l.maxID = 0
	l.pos = 0
}

// Open loads the file at path through LoadFile.
func (l *Loader) Open(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return ifcerr.Wrap(err, ifcerr.CodeStepLoadReadFailure, "opening ifc file", ifcerr.FieldPath(path))
	}
	defer func() { _ = f.Close() }()

	var readErr error
	err = l.LoadFile(func(dest []byte, sourceOffset int) int {
		n, err := f.ReadAt(dest, int64(sourceOffset))
		if err != nil && !errors.Is(err, io.EOF) {
			readErr = err
		}
		return n
	})
	if readErr != nil {
		return ifcerr.Wrap(readErr, ifcerr.CodeStepLoadReadFailure, "reading ifc file", ifcerr.FieldPath(path))
	}
	return err
}

// LoadFile pulls the whole input through read, chunk by chunk, and
// tokenizes it. Any previously loaded content is discarded.
func (l *Loader) LoadFile(read ReadFunc) error {
	l.reset()

	var data []byte
	chunk := make([]byte, l.settings.ChunkSize)
	for {
		n := read(chunk, len(data))
		if n <= 0 {
			break
		}
		if int64(len(data)+n) > l.settings.MemoryLimit {
			return ifcerr.New(ifcerr.CodeStepLoadMemoryExceeded, "input exceeds memory limit",
				ifcerr.Field("limit", l.settings.MemoryLimit))
		}
		data = append(data, chunk[:n]...)
	}

	sc := newScanner(data, l.tape)
	sc.onLine = l.addLine
	sc.onHeader = func(name string, tapeStart int) { l.header[name] = tapeStart }
	if err := sc.run(); err != nil {
		return err
	}
	l.tape = sc.tape

	l.logger.Debug("ifc file tokenized",
		"bytes", len(data),
		"lines", len(l.order),
		"tape", len(l.tape),
		"schema", l.SchemaName(),
	)
	return nil
}

func (l *Loader) addLine(id uint32, typeName string, tapeStart int) {
	code := l.schema.Register(typeName)
	if _, dup := l.lines[id]; dup {
		l.logger.Warn("duplicate entity id, keeping the later definition", "id", id)
	} else {
		l.order = append(l.order, id)
	}
	l.lines[id] = &Line{ExpressID: id, Type: code, TypeName: typeName, tapeStart: tapeStart}
	l.byType[code] = append(l.byType[code], id)
	if id > l.maxID {
		l.maxID = id
	}
}

// Schema returns the schema manager the loader registers type names with.
func (l *Loader) Schema() *schema.Manager { return l.schema }

// LineCount returns the number of entity instances in the data section.
func (l *Loader) LineCount() int { return len(l.order) }

// MaxExpressID returns the largest entity id in the file.
func (l *Loader) MaxExpressID() uint32 { return l.maxID }

// ExpressIDs returns every entity id in file order.
func (l *Loader) ExpressIDs() []uint32 {
	return append([]uint32(nil), l.order...)
}

// ExpressIDsWithType returns the ids of all instances of the given type
// code, in file order.
func (l *Loader) ExpressIDsWithType(code uint32) []uint32 {
	return append([]uint32(nil), l.byType[code]...)
}

// HasLine reports whether id is defined in the file.
func (l *Loader) HasLine(id uint32) bool {
	_, ok := l.lines[id]
	return ok
}

// LineType returns the type code of id, or 0 when id is undefined.
func (l *Loader) LineType(id uint32) uint32 {
	if line, ok := l.lines[id]; ok {
		return line.Type
	}
	return 0
}

// LineTypeName returns the upper-case entity name of id.
func (l *Loader) LineTypeName(id uint32) string {
	if line, ok := l.lines[id]; ok {
		return line.TypeName
	}
	return ""
}

// SchemaName returns the first identifier of FILE_SCHEMA, e.g. "IFC4".
func (l *Loader) SchemaName() string {
	start, ok := l.header["FILE_SCHEMA"]
	if !ok {
		return ""
	}
	for i := start; i < len(l.tape) && l.tape[i].kind != TokenLineEnd; i++ {
		if l.tape[i].kind == TokenString {
			return l.tape[i].text
		}
	}
	return ""
}

// BytesReader adapts an in-memory buffer to a ReadFunc.
func BytesReader(data []byte) ReadFunc {
	return func(dest []byte, sourceOffset int) int {
		if sourceOffset >= len(data) {
			return 0
		}
		return copy(dest, data[sourceOffset:])
	}
}
