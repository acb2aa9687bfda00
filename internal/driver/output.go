package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/cla7aye15I4nd/TypePython/internal/project"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
)

// StampSchema is the current stamp layout; bump it when Stamp changes.
const StampSchema uint16 = 1

// Stamp records which inputs produced an output file. It is written next
// to the output as <output>.stamp.
type Stamp struct {
	// Schema version for safe invalidation when format changes
	Schema  uint16
	Digest  project.Digest
	Entry   string
	Modules []string
}

// StampPath returns the stamp file of output.
func StampPath(output string) string {
	return output + ".stamp"
}

// ReadStamp loads the stamp of output. ok is false when there is none or
// it was written by another schema.
func ReadStamp(output string) (Stamp, bool, error) {
	data, err := os.ReadFile(StampPath(output))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Stamp{}, false, nil
		}
		return Stamp{}, false, err
	}
	var s Stamp
	if err := msgpack.Unmarshal(data, &s); err != nil || s.Schema != StampSchema {
		return Stamp{}, false, nil
	}
	return s, true, nil
}

// UpToDate reports whether output exists and was produced from digest.
func UpToDate(output string, digest project.Digest) bool {
	if _, err := os.Stat(output); err != nil {
		return false
	}
	s, ok, err := ReadStamp(output)
	return err == nil && ok && s.Digest == digest
}

// WriteProgram encodes prog to path and records its stamp. Both files are
// replaced atomically.
func WriteProgram(path string, prog *tir.Program, stamp Stamp) error {
	data, err := tir.Encode(prog)
	if err != nil {
		return fmt.Errorf("encode program: %w", err)
	}
	if err := writeAtomic(path, data); err != nil {
		return err
	}
	stamp.Schema = StampSchema
	raw, err := msgpack.Marshal(&stamp)
	if err != nil {
		return fmt.Errorf("encode stamp: %w", err)
	}
	return writeAtomic(StampPath(path), raw)
}

// ReadProgram decodes a program written by WriteProgram.
func ReadProgram(path string) (*tir.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	prog, err := tir.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}

func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()
	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), path)
}
