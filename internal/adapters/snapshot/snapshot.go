// Package snapshot saves and loads game state as zstd-compressed JSON.
package snapshot

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/okian/tycoon/internal/domain/game"
)

// Version is the save format written by Encode.
const Version = 1

// maxDecodedBytes bounds the decompressed size of a save file.
const maxDecodedBytes = 64 << 20

//go:embed snapshot.schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("snapshot.schema.json", schemaJSON) //nolint:gochecknoglobals // compiled once

// Header identifies a save file.
type Header struct {
	Version int       `json:"version"`
	Day     int       `json:"day"`
	SavedAt time.Time `json:"saved_at"`
}

// File is the decoded content of a save file.
type File struct {
	Header Header     `json:"header"`
	State  game.State `json:"state"`
}

// Encode writes st to w.
func Encode(w io.Writer, st game.State, savedAt time.Time) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}

	f := File{
		Header: Header{Version: Version, Day: st.Day, SavedAt: savedAt.UTC()},
		State:  st,
	}
	if err := json.NewEncoder(enc).Encode(&f); err != nil {
		_ = enc.Close()
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	return enc.Close()
}

// Decode reads a save file from r. The payload is checked against the save
// schema before it is turned into a state.
func Decode(r io.Reader) (File, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return File{}, err
	}
	defer dec.Close()

	raw, err := io.ReadAll(io.LimitReader(dec, maxDecodedBytes+1))
	if err != nil {
		return File{}, fmt.Errorf("snapshot: decompress: %w", err)
	}
	if len(raw) > maxDecodedBytes {
		return File{}, ErrTooLarge
	}

	var doc any
	jd := json.NewDecoder(bytes.NewReader(raw))
	jd.UseNumber()
	if err := jd.Decode(&doc); err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if err := schema.Validate(doc); err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if f.Header.Version > Version {
		return File{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, f.Header.Version)
	}
	return f, nil
}

// WriteFile saves st to path, replacing any previous save atomically.
func WriteFile(path string, st game.State, savedAt time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after rename

	if err := Encode(tmp, st, savedAt); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ReadFile loads the save at path.
func ReadFile(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, err
	}
	defer f.Close()
	return Decode(f)
}
