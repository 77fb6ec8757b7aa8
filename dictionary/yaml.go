package dictionary

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/evio/errs"
)

type yamlEntry struct {
	Name        string      `yaml:"name"`
	Tag         *int64      `yaml:"tag"`
	Num         *int64      `yaml:"num,omitempty"`
	Type        string      `yaml:"type,omitempty"`
	Format      string      `yaml:"format,omitempty"`
	Description string      `yaml:"description,omitempty"`
	Children    []yamlEntry `yaml:"children,omitempty"`
}

type yamlDict struct {
	Entries []yamlEntry `yaml:"entries"`
}

func (y yamlEntry) entry() (Entry, bool) {
	e := Entry{
		Name:        y.Name,
		Type:        y.Type,
		Format:      y.Format,
		Description: y.Description,
	}

	if y.Name == "" || y.Tag == nil || *y.Tag < 0 || *y.Tag > 0xffff {
		return e, false
	}
	e.Tag = uint16(*y.Tag)

	if y.Num == nil {
		if e.Type != "" || e.Format != "" || e.Description != "" {
			return e, false
		}
		e.TagOnly = true

		return e, true
	}

	if *y.Num < 0 || *y.Num > 0xff {
		return e, false
	}
	e.Num = uint8(*y.Num)

	return e, true
}

// ParseYAML builds a dictionary from a YAML document with a top-level
// "entries" list. Entries may nest through "children", producing
// hierarchical names the same way XML bank elements do.
//
// Malformed and duplicate entries are skipped and reported by Skipped.
func ParseYAML(data []byte, opts ...Option) (*Dictionary, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	var doc yamlDict
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: dictionary yaml: %w", errs.ErrFormat, err)
	}

	d := newDictionary(cfg.delimiter)
	d.addYAML(doc.Entries, "")

	return d, nil
}

func (d *Dictionary) addYAML(entries []yamlEntry, parent string) {
	for _, y := range entries {
		e, ok := y.entry()
		if !ok {
			d.skipped = append(d.skipped, e.Name)
			continue
		}

		if parent != "" {
			e.Name = parent + d.delimiter + e.Name
		}
		d.addOrSkip(e)
		d.addYAML(y.Children, e.Name)
	}
}

// YAML returns the dictionary as a flat YAML document that ParseYAML accepts.
func (d *Dictionary) YAML() ([]byte, error) {
	doc := yamlDict{Entries: make([]yamlEntry, 0, len(d.entries))}
	for _, e := range d.entries {
		tag := int64(e.Tag)
		y := yamlEntry{
			Name:        e.Name,
			Tag:         &tag,
			Type:        e.Type,
			Format:      e.Format,
			Description: e.Description,
		}
		if !e.TagOnly {
			num := int64(e.Num)
			y.Num = &num
		}
		doc.Entries = append(doc.Entries, y)
	}

	return yaml.Marshal(&doc)
}
