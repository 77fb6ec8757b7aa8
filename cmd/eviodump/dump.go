package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"github.com/arloliu/evio/dictionary"
	"github.com/arloliu/evio/endian"
	"github.com/arloliu/evio/format"
	"github.com/arloliu/evio/internal/hash"
	"github.com/arloliu/evio/scan"
)

// nodeRecord is the CBOR form of one scanned structure.
type nodeRecord struct {
	Kind     string       `cbor:"kind"`
	Tag      uint16       `cbor:"tag"`
	Num      uint8        `cbor:"num"`
	Type     string       `cbor:"type"`
	Pad      uint8        `cbor:"pad"`
	Pos      int          `cbor:"pos"`
	Words    uint32       `cbor:"len"`
	Name     string       `cbor:"name,omitempty"`
	Children []nodeRecord `cbor:"children,omitempty"`
}

// eventRecord is written once per event in CBOR mode, as a CBOR sequence.
type eventRecord struct {
	Index  int          `cbor:"index"`
	Bytes  int          `cbor:"bytes"`
	Digest uint64       `cbor:"digest,omitempty"`
	Nodes  []nodeRecord `cbor:"nodes"`
}

type dumper struct {
	cfg    Config
	out    io.Writer
	dict   *dictionary.Dictionary
	enc    *cbor.Encoder
	stream *hash.Digester
}

func newDumper(cfg Config, out io.Writer, dict *dictionary.Dictionary) (*dumper, error) {
	d := &dumper{cfg: cfg, out: out, dict: dict}
	if cfg.Digest {
		d.stream = hash.NewDigester()
	}

	if cfg.Format == formatCBOR {
		mode, err := cbor.CoreDetEncOptions().EncMode()
		if err != nil {
			return nil, err
		}
		d.enc = mode.NewEncoder(out)
	}

	return d, nil
}

// match returns the nodes selected by the filters, or the top node.
func (d *dumper) match(h *scan.Handler) ([]*scan.Node, error) {
	switch {
	case d.cfg.Name != "":
		if d.dict == nil {
			return nil, fmt.Errorf("--name needs a dictionary, from the file or --dict")
		}

		return h.SearchName(d.cfg.Name, d.dict)
	case d.cfg.Tag >= 0:
		nodes, err := h.Nodes()
		if err != nil {
			return nil, err
		}

		var found []*scan.Node
		for _, n := range nodes {
			if int(n.Tag) == d.cfg.Tag && (d.cfg.Num < 0 || int(n.Num) == d.cfg.Num) {
				found = append(found, n)
			}
		}

		return found, nil
	default:
		return []*scan.Node{h.Top()}, nil
	}
}

func (d *dumper) name(n *scan.Node) string {
	if d.dict == nil {
		return ""
	}

	name, _ := d.dict.Name(n.Tag, n.Num)

	return name
}

func (d *dumper) dumpEvent(index int, raw []byte, engine endian.EndianEngine) error {
	if d.stream != nil {
		d.stream.Add(raw)
	}

	h, err := scan.Scan(raw, engine, format.KindBank, 0)
	if err != nil {
		return fmt.Errorf("event %d: %w", index, err)
	}
	defer h.Close()

	nodes, err := d.match(h)
	if err != nil {
		return fmt.Errorf("event %d: %w", index, err)
	}

	if len(nodes) == 0 {
		return nil
	}

	var digest uint64
	if d.cfg.Digest {
		digest = hash.Digest(raw)
	}

	if d.enc != nil {
		rec := eventRecord{Index: index, Bytes: len(raw), Digest: digest}
		for _, n := range nodes {
			rec.Nodes = append(rec.Nodes, d.record(n))
		}

		return d.enc.Encode(rec)
	}

	fmt.Fprintf(d.out, "event %d: %d bytes", index, len(raw))
	if d.cfg.Digest {
		fmt.Fprintf(d.out, " digest=%016x", digest)
	}
	fmt.Fprintln(d.out)

	for _, n := range nodes {
		d.writeNode(n, 1)
	}

	return nil
}

// finish prints the digest over all events read. The digest depends on the
// byte order of the input.
func (d *dumper) finish(events int) {
	if d.stream == nil || d.enc != nil {
		return
	}

	fmt.Fprintf(d.out, "total: %d events digest=%016x\n", events, d.stream.Sum())
}

func (d *dumper) record(n *scan.Node) nodeRecord {
	rec := nodeRecord{
		Kind:  n.Kind.String(),
		Tag:   n.Tag,
		Num:   n.Num,
		Type:  n.Type.String(),
		Pad:   n.Pad,
		Pos:   n.Pos,
		Words: n.Len,
		Name:  d.name(n),
	}

	for _, c := range n.Children() {
		rec.Children = append(rec.Children, d.record(c))
	}

	return rec
}

func (d *dumper) writeNode(n *scan.Node, depth int) {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(&sb, "%s tag=%d", n.Kind, n.Tag)
	if n.Kind == format.KindBank {
		fmt.Fprintf(&sb, " num=%d", n.Num)
	}
	fmt.Fprintf(&sb, " type=%s len=%d", n.Type, n.Len)
	if !n.IsContainer() {
		fmt.Fprintf(&sb, " data=%dB", n.DataBytes())
	}
	if n.Pad > 0 {
		fmt.Fprintf(&sb, " pad=%d", n.Pad)
	}
	if name := d.name(n); name != "" {
		fmt.Fprintf(&sb, " name=%q", name)
	}
	sb.WriteByte('\n')

	_, _ = io.WriteString(d.out, sb.String())

	for _, c := range n.Children() {
		d.writeNode(c, depth+1)
	}
}
