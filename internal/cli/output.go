package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/neuroscene/pkg/errors"
	"github.com/matzehuels/neuroscene/pkg/pipeline"
)

// fileExt maps formats to file extensions. The Graphviz layout is SVG but is
// kept apart from the oblique snapshot.
var fileExt = map[string]string{
	pipeline.FormatSVG:   ".svg",
	pipeline.FormatPNG:   ".png",
	pipeline.FormatPDF:   ".pdf",
	pipeline.FormatDOT:   ".dot",
	pipeline.FormatGraph: ".graph.svg",
	pipeline.FormatJSON:  ".json",
}

// artifactWriteParams holds what writeArtifacts needs to name and report files.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	base      string // used when output is empty or several formats are written
	output    string
	input     string // never overwritten
}

// writeArtifacts writes one file per format and prints each path.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	var paths []string
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		path := outputPath(p.output, p.base, format, len(p.formats) == 1)
		if p.input != "" && filepath.Clean(path) == filepath.Clean(p.input) {
			return paths, errors.New(errors.ErrCodeInvalidInput,
				"refusing to overwrite input %s (pass --output)", p.input)
		}
		if err := writeFile(path, data); err != nil {
			return paths, err
		}
		printFile(path)
		paths = append(paths, path)
	}
	return paths, nil
}

// outputPath picks the file for one format. A single format goes to output
// verbatim; several formats share output (minus any known extension) as base.
func outputPath(output, base, format string, single bool) string {
	if output != "" && single {
		return output
	}
	if output != "" {
		base = trimFormatExt(output)
	}
	return base + fileExt[format]
}

// knownExts is fileExt's values, longest first so ".graph.svg" wins over ".svg".
var knownExts = []string{".graph.svg", ".json", ".svg", ".png", ".pdf", ".dot"}

func trimFormatExt(path string) string {
	for _, ext := range knownExts {
		if strings.HasSuffix(path, ext) && len(path) > len(ext) {
			return strings.TrimSuffix(path, ext)
		}
	}
	return path
}

// writeFile writes data to path, or to stdout when path is "-".
func writeFile(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}
