package coverage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/tools/cover"
)

type InputFormat string

const (
	// LLVMFormat is the json produced by `llvm-cov export`, which `swift test --enable-code-coverage` writes.
	LLVMFormat InputFormat = "llvm"
	// GoFormat is the coverage profile produced by `go test -coverprofile`.
	GoFormat InputFormat = "go"
)

var (
	ErrNoCoverageData  = errors.New("coverage export has no data entries")
	ErrMissingKey      = errors.New("coverage export is missing a required key")
	ErrModuleNotFound  = errors.New("cannot find module path")
	ErrUnsupportedType = errors.New(`supported input formats are "llvm" and "go"`)
)

// export mirrors the subset of the llvm-cov export document that is read.
// Pointers tell a missing key apart from an empty value.
type export struct {
	Data []struct {
		Files *[]*exportFile `json:"files"`
	} `json:"data"`
}

type exportFile struct {
	Filename *string    `json:"filename"`
	Segments *[]Segment `json:"segments"`
}

// LoadExport decodes a llvm-cov export document and returns the file entries of its first data element.
func LoadExport(r io.Reader) ([]*FileEntry, error) {
	var doc export
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode coverage export: %w", err)
	}
	if len(doc.Data) == 0 {
		return nil, ErrNoCoverageData
	}
	if doc.Data[0].Files == nil {
		return nil, fmt.Errorf("%w: data[0].files", ErrMissingKey)
	}

	files := *doc.Data[0].Files
	entries := make([]*FileEntry, 0, len(files))
	for i, f := range files {
		if f == nil {
			return nil, fmt.Errorf("%w: data[0].files[%d] is null", ErrMissingKey, i)
		}
		if f.Filename == nil {
			return nil, fmt.Errorf("%w: data[0].files[%d].filename", ErrMissingKey, i)
		}
		if f.Segments == nil {
			return nil, fmt.Errorf("%w: data[0].files[%d].segments", ErrMissingKey, i)
		}
		entries = append(entries, &FileEntry{Filename: *f.Filename, Segments: *f.Segments})
	}
	return entries, nil
}

// LoadExportFile reads the coverage export at filename.
// The returned error wraps fs.ErrNotExist when the file is missing.
func LoadExportFile(filename string) ([]*FileEntry, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open coverage export: %w", err)
	}
	defer f.Close()

	return LoadExport(f)
}

// LoadGoProfiles reads a go coverage profile, every profile block becomes one segment.
// modulePath, when not empty, is stripped from the import-path style file names.
func LoadGoProfiles(filename string, modulePath string) ([]*FileEntry, error) {
	profiles, err := cover.ParseProfiles(filename)
	if err != nil {
		return nil, fmt.Errorf("parse coverage profile: %w", err)
	}

	entries := make([]*FileEntry, 0, len(profiles))
	for _, p := range profiles {
		name := p.FileName
		if modulePath != "" {
			name = strings.TrimPrefix(strings.TrimPrefix(name, modulePath), "/")
		}

		entry := &FileEntry{Filename: name}
		for _, b := range p.Blocks {
			entry.Segments = append(entry.Segments, Segment{
				Line:   b.StartLine,
				Column: b.StartCol,
				Count:  int64(b.Count),
			})
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Load dispatches on the input format.
func Load(format InputFormat, filename string, modulePath string) ([]*FileEntry, error) {
	switch format {
	case LLVMFormat, "":
		return LoadExportFile(filename)
	case GoFormat:
		return LoadGoProfiles(filename, modulePath)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, format)
	}
}

// ParseModulePath uses modfile package to parse go module path
func ParseModulePath(goModDir string) (string, error) {
	goModFilename := filepath.Join(goModDir, "go.mod")
	bs, err := os.ReadFile(goModFilename)
	if err != nil {
		return "", err
	}

	result := modfile.ModulePath(bs)
	if result == "" {
		return "", fmt.Errorf("%w: %s", ErrModuleNotFound, goModFilename)
	}

	return result, nil
}
