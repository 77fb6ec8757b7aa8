package dictionary

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/arloliu/evio/errs"
	"github.com/arloliu/evio/internal/options"
)

// XML element and attribute names.
const (
	elemDict        = "xmlDict"
	elemEntry       = "xmldumpDictEntry"
	elemEntryAlt    = "dictEntry"
	elemBank        = "bank"
	elemLeaf        = "leaf"
	elemDescription = "description"

	attrName   = "name"
	attrTag    = "tag"
	attrNum    = "num"
	attrType   = "type"
	attrFormat = "format"
)

type config struct {
	delimiter string
}

// Option configures a dictionary loader.
type Option = options.Option[*config]

// WithDelimiter sets the separator used to join hierarchical names.
func WithDelimiter(delimiter string) Option {
	return options.New(func(c *config) error {
		if delimiter == "" {
			return fmt.Errorf("%w: empty delimiter", errs.ErrInvalidArgument)
		}
		c.delimiter = delimiter

		return nil
	})
}

func newConfig(opts []Option) (*config, error) {
	c := &config{delimiter: DefaultDelimiter}
	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	return c, nil
}

// xmlNode is a generic element; the dictionary layout is too loose for
// struct tags alone.
type xmlNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Nodes   []xmlNode  `xml:",any"`
	Text    string     `xml:",chardata"`
}

func (n *xmlNode) is(name string) bool {
	return strings.EqualFold(n.XMLName.Local, name)
}

func (n *xmlNode) attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}

	return "", false
}

func (n *xmlNode) find(name string) *xmlNode {
	if n.is(name) {
		return n
	}

	for i := range n.Nodes {
		if found := n.Nodes[i].find(name); found != nil {
			return found
		}
	}

	return nil
}

// parseEntry converts an entry element. It returns false for a malformed entry.
func (n *xmlNode) parseEntry() (Entry, bool) {
	var e Entry

	name, hasName := n.attr(attrName)
	tagStr, hasTag := n.attr(attrTag)
	numStr, hasNum := n.attr(attrNum)
	e.Name = name
	e.Type, _ = n.attr(attrType)

	for i := range n.Nodes {
		child := &n.Nodes[i]
		if !child.is(elemDescription) {
			continue
		}
		e.Description = strings.TrimSpace(child.Text)
		e.Format, _ = child.attr(attrFormat)

		break
	}

	if !hasName || !hasTag {
		return e, false
	}

	tag, err := strconv.ParseInt(strings.TrimSpace(tagStr), 0, 32)
	if err != nil || tag < 0 || tag > 0xffff {
		return e, false
	}
	e.Tag = uint16(tag)

	if !hasNum {
		if e.Type != "" || e.Description != "" || e.Format != "" {
			return e, false
		}
		e.TagOnly = true

		return e, true
	}

	num, err := strconv.ParseInt(strings.TrimSpace(numStr), 0, 32)
	if err != nil || num < 0 || num > 0xff {
		return e, false
	}
	e.Num = uint8(num)

	return e, true
}

// ParseXML builds a dictionary from an XML document.
//
// Malformed and duplicate entries are skipped and reported by Skipped.
//
// Returns:
//   - *Dictionary: The dictionary
//   - error: errs.ErrFormat if the document is not XML or has no xmlDict element
func ParseXML(data []byte, opts ...Option) (*Dictionary, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	var root xmlNode
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: dictionary xml: %w", errs.ErrFormat, err)
	}

	top := root.find(elemDict)
	if top == nil {
		return nil, fmt.Errorf("%w: no %s element", errs.ErrFormat, elemDict)
	}

	d := newDictionary(cfg.delimiter)
	d.source = string(data)

	for i := range top.Nodes {
		node := &top.Nodes[i]
		if !node.is(elemEntry) && !node.is(elemEntryAlt) {
			continue
		}

		e, ok := node.parseEntry()
		if !ok {
			d.skipped = append(d.skipped, e.Name)
			continue
		}
		d.addOrSkip(e)
	}

	d.addHierarchy(top.Nodes, "")

	return d, nil
}

func (d *Dictionary) addOrSkip(e Entry) {
	if err := d.Add(e); err != nil {
		d.skipped = append(d.skipped, e.Name)
	}
}

func (d *Dictionary) addHierarchy(nodes []xmlNode, parent string) {
	for i := range nodes {
		node := &nodes[i]
		isLeaf := node.is(elemLeaf)
		if !isLeaf && !node.is(elemBank) {
			continue
		}

		e, ok := node.parseEntry()
		if !ok {
			d.skipped = append(d.skipped, e.Name)
			continue
		}

		if parent != "" {
			e.Name = parent + d.delimiter + e.Name
		}
		d.addOrSkip(e)

		if !isLeaf {
			d.addHierarchy(node.Nodes, e.Name)
		}
	}
}

// LoadFile reads a dictionary file. Files ending in .yaml or .yml are parsed
// as YAML, anything else as XML.
func LoadFile(path string, opts ...Option) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data, opts...)
	default:
		return ParseXML(data, opts...)
	}
}

type xmlDescriptionOut struct {
	Format string `xml:"format,attr,omitempty"`
	Text   string `xml:",chardata"`
}

type xmlEntryOut struct {
	Name        string             `xml:"name,attr"`
	Tag         string             `xml:"tag,attr"`
	Num         string             `xml:"num,attr,omitempty"`
	Type        string             `xml:"type,attr,omitempty"`
	Description *xmlDescriptionOut `xml:"description,omitempty"`
}

type xmlDictOut struct {
	XMLName xml.Name      `xml:"xmlDict"`
	Entries []xmlEntryOut `xml:"dictEntry"`
}

// XML returns the dictionary as an XML document.
//
// A dictionary loaded by ParseXML returns its source text unchanged. Any other
// dictionary is rendered as flat dictEntry elements with full names.
func (d *Dictionary) XML() (string, error) {
	if d.source != "" {
		return d.source, nil
	}

	out := xmlDictOut{Entries: make([]xmlEntryOut, 0, len(d.entries))}
	for _, e := range d.entries {
		entry := xmlEntryOut{
			Name: e.Name,
			Tag:  strconv.Itoa(int(e.Tag)),
			Type: e.Type,
		}
		if !e.TagOnly {
			entry.Num = strconv.Itoa(int(e.Num))
		}
		if e.Description != "" || e.Format != "" {
			entry.Description = &xmlDescriptionOut{Format: e.Format, Text: e.Description}
		}
		out.Entries = append(out.Entries, entry)
	}

	b, err := xml.MarshalIndent(out, "", "   ")
	if err != nil {
		return "", err
	}

	return string(b) + "\n", nil
}
