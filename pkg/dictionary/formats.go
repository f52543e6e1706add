package dictionary

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

var (
	ErrUnknownFormat = errors.New("dictionary: unknown candidate list format")
	ErrEmptyList     = errors.New("dictionary: candidate list is empty")
)

// FileFormat represents different candidate list file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatText               // one candidate per line
	FormatTOML               // candidates array and [[candidate]] tables
	FormatMsgpack            // msgpack array of strings or {d,i} maps
)

// FormatInfo contains metadata about a candidate list format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text List",
		Extensions:  []string{".txt", ".list"},
		MinSize:     1,
	},
	FormatTOML: {
		Format:      FormatTOML,
		Description: "TOML List",
		Extensions:  []string{".toml"},
		MinSize:     1,
	},
	FormatMsgpack: {
		Format:      FormatMsgpack,
		Description: "Msgpack List",
		Extensions:  []string{".mpk", ".msgpack"},
		MinSize:     1, // fixarray header
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "Unknown"
}

// DetectFormat maps a file extension to its format.
func DetectFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for format, info := range supportedFormats {
		for _, e := range info.Extensions {
			if e == ext {
				return format, nil
			}
		}
	}
	return FormatUnknown, fmt.Errorf("%w: %s", ErrUnknownFormat, filename)
}

// ValidateFile checks that filename exists, has a known extension and is
// large enough for its format.
func ValidateFile(filename string) (FileFormat, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return FormatUnknown, err
	}
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return format, fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if fileInfo.IsDir() {
		return format, fmt.Errorf("%s is a directory", filename)
	}
	info := supportedFormats[format]
	if fileInfo.Size() < info.MinSize {
		return format, fmt.Errorf("%w: file %s is too small (%d bytes) for format %s",
			ErrEmptyList, filename, fileInfo.Size(), info.Description)
	}
	log.Debugf("Candidate list %s validated as %s", filename, info.Description)
	return format, nil
}
