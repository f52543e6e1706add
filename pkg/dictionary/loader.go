/*
Package dictionary loads ordered candidate lists from disk and keeps them
fresh while the file changes.
*/
package dictionary

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bastiangx/tagserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// tomlList is the layout of a .toml candidate list. Plain candidates come
// before [[candidate]] tables.
type tomlList struct {
	Candidates []string        `toml:"candidates"`
	Entries    []suggest.Entry `toml:"candidate"`
}

// Load reads a candidate list into a catalog. Source order is kept and
// repeated display texts are dropped.
func Load(path string) (*suggest.Catalog, error) {
	list, err := Read(path)
	if err != nil {
		return nil, err
	}
	catalog := suggest.NewCatalog(list)
	log.Debugf("Loaded %d candidates from %s", catalog.Len(), path)
	return catalog, nil
}

// Read parses a candidate list file without building a catalog.
func Read(path string) ([]suggest.Candidate, error) {
	format, err := ValidateFile(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidate list %s: %w", path, err)
	}
	list, err := Decode(format, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}

// Decode parses data in the given format.
func Decode(format FileFormat, data []byte) ([]suggest.Candidate, error) {
	var (
		list []suggest.Candidate
		err  error
	)
	switch format {
	case FormatText:
		list, err = decodeText(data)
	case FormatTOML:
		list, err = decodeTOML(data)
	case FormatMsgpack:
		list, err = decodeMsgpack(data)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrEmptyList
	}
	return list, nil
}

func decodeText(data []byte) ([]suggest.Candidate, error) {
	var list []suggest.Candidate
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		list = append(list, suggest.Word(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan text list: %w", err)
	}
	return list, nil
}

func decodeTOML(data []byte) ([]suggest.Candidate, error) {
	var doc tomlList
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse toml list: %w", err)
	}
	list := suggest.Words(doc.Candidates)
	for _, e := range doc.Entries {
		if e.Display == "" {
			log.Warnf("Skipping [[candidate]] without display text (insert=%q)", e.Insert)
			continue
		}
		list = append(list, e)
	}
	return list, nil
}

func decodeMsgpack(data []byte) ([]suggest.Candidate, error) {
	var raw []any
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode msgpack list: %w", err)
	}
	list := make([]suggest.Candidate, 0, len(raw))
	for i, v := range raw {
		switch item := v.(type) {
		case string:
			list = append(list, suggest.Word(item))
		case map[string]any:
			display, _ := item["d"].(string)
			insert, _ := item["i"].(string)
			if display == "" {
				log.Warnf("Skipping msgpack entry %d without display text", i)
				continue
			}
			list = append(list, suggest.Entry{Display: display, Insert: insert})
		default:
			log.Warnf("Skipping msgpack entry %d of type %T", i, v)
		}
	}
	return list, nil
}

// EncodeMsgpack writes list in the .mpk layout. Words become strings and
// everything else a {d,i} map.
func EncodeMsgpack(list []suggest.Candidate) ([]byte, error) {
	raw := make([]any, 0, len(list))
	for _, c := range list {
		if w, ok := c.(suggest.Word); ok {
			raw = append(raw, string(w))
			continue
		}
		raw = append(raw, suggest.Entry{Display: c.DisplayText(), Insert: c.InsertText()})
	}
	return msgpack.Marshal(raw)
}
