package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Scene Serialization API
// =============================================================================

// Marshal encodes a scene as indented JSON.
func Marshal(s Scene) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes and validates a scene.
func Unmarshal(data []byte) (Scene, error) {
	return Read(bytes.NewReader(data))
}

// Write encodes a scene as JSON to w.
// Nil slices are written as empty arrays so consumers never see null lists.
func Write(s Scene, w io.Writer) error {
	normalize(&s)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a JSON scene from r and validates it.
func Read(r io.Reader) (Scene, error) {
	var s Scene
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Scene{}, fmt.Errorf("decode: %w", err)
	}
	normalize(&s)
	if err := s.Validate(); err != nil {
		return Scene{}, err
	}
	return s, nil
}

// WriteFile writes a scene to a JSON file. A failed close is reported.
func WriteFile(s Scene, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return Write(s, f)
}

// ReadFile reads a scene from a JSON file.
func ReadFile(path string) (Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scene{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

func normalize(s *Scene) {
	if s.Groups == nil {
		s.Groups = []Group{}
	}
	if s.Nodes == nil {
		s.Nodes = []Node{}
	}
	if s.Edges == nil {
		s.Edges = []Edge{}
	}
	if s.Labels == nil {
		s.Labels = []Label{}
	}
}
