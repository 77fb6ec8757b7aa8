package stream

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/arloliu/evio/compress"
	"github.com/arloliu/evio/dictionary"
	"github.com/arloliu/evio/endian"
	"github.com/arloliu/evio/errs"
	"github.com/arloliu/evio/format"
	"github.com/arloliu/evio/section"
	"github.com/arloliu/evio/structure"
)

// Reader iterates over the events of a block stream.
//
// The byte order is taken from the magic word of the first block; every
// later block must use the same order.
type Reader struct {
	r    *bufio.Reader
	file *os.File
	cfg  *readerConfig

	engine  endian.EndianEngine
	block   section.BlockHeader
	payload []byte
	offset  int
	pending uint32

	dict    *dictionary.Dictionary
	dictXML string

	events int
	blocks int
	done   bool
	closed bool
}

// NewReader creates a Reader over r and reads the first block header, which
// fixes the byte order and loads the dictionary if one is present.
//
// Returns errs.ErrInvalidMagicNumber when r does not start with a block header.
func NewReader(r io.Reader, opts ...ReaderOption) (*Reader, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil reader", errs.ErrInvalidArgument)
	}

	return newReader(r, nil, opts)
}

// OpenFile opens path for reading. Close closes the file.
func OpenFile(path string, opts ...ReaderOption) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r, err := newReader(f, f, opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return r, nil
}

func newReader(r io.Reader, f *os.File, opts []ReaderOption) (*Reader, error) {
	cfg, err := newReaderConfig(opts)
	if err != nil {
		return nil, err
	}

	rd := &Reader{
		r:    bufio.NewReader(r),
		file: f,
		cfg:  cfg,
	}

	if err := rd.nextBlock(); err != nil {
		if errors.Is(err, errs.ErrNoMoreEvents) {
			return nil, fmt.Errorf("%w: empty stream", errs.ErrFormat)
		}

		return nil, err
	}

	if rd.block.Dictionary {
		if err := rd.readDictionary(); err != nil {
			return nil, err
		}
	}

	return rd, nil
}

// nextBlock reads the next block header and its payload.
func (r *Reader) nextBlock() error {
	var hdr [section.BlockHeaderSize]byte
	if _, err := io.ReadFull(r.r, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) {
			r.done = true
			return errs.ErrNoMoreEvents
		}

		return fmt.Errorf("%w: block header: %w", errs.ErrInvalidHeaderSize, err)
	}

	h, engine, err := section.ParseBlockHeader(hdr[:])
	if err != nil {
		return err
	}

	if r.engine == nil {
		r.engine = engine
	} else if !endian.Same(r.engine, engine) {
		return fmt.Errorf("%w: block %d is %s-endian, stream is %s-endian",
			errs.ErrByteOrderMismatch, h.Number, endian.Name(engine), endian.Name(r.engine))
	}

	// Header words beyond the standard eight belong to later versions.
	if extra := int(h.HeaderLength-section.BlockHeaderWords) * 4; extra > 0 {
		if _, err := r.r.Discard(extra); err != nil {
			return fmt.Errorf("%w: block %d header: %w", errs.ErrInvalidLength, h.Number, err)
		}
	}

	stored := make([]byte, 4*int(h.PayloadWords()))
	if _, err := io.ReadFull(r.r, stored); err != nil {
		return fmt.Errorf("%w: block %d payload: %w", errs.ErrInvalidLength, h.Number, err)
	}

	payload := stored
	if h.Compression != format.CompressionNone && len(stored) > 0 {
		if int(h.PayloadPad) > len(stored) {
			return fmt.Errorf("%w: block %d pad %d", errs.ErrInvalidLength, h.Number, h.PayloadPad)
		}

		payload, err = compress.Expand(h.Compression, stored[:len(stored)-int(h.PayloadPad)], h.UncompressedSize())
		if err != nil {
			return fmt.Errorf("block %d: %w", h.Number, err)
		}
	}

	r.block = h
	r.payload = payload
	r.offset = 0
	r.pending = h.EventCount
	r.blocks++

	r.cfg.logger.Debug("block read",
		slog.Uint64("number", uint64(h.Number)),
		slog.Uint64("events", uint64(h.EventCount)),
		slog.String("compression", h.Compression.String()),
		slog.Bool("last", h.Last),
	)

	return nil
}

func (r *Reader) readDictionary() error {
	raw, err := r.nextEventBytes()
	if err != nil {
		return fmt.Errorf("dictionary event: %w", err)
	}

	ev, err := structure.ParseEvent(raw, r.engine)
	if err != nil {
		return fmt.Errorf("dictionary event: %w", err)
	}

	strs, err := ev.Strings()
	if err != nil || len(strs) == 0 {
		return fmt.Errorf("%w: dictionary event holds no strings", errs.ErrFormat)
	}
	r.dictXML = strs[0]

	if !r.cfg.dictionary {
		return nil
	}

	r.dict, err = dictionary.ParseXML([]byte(r.dictXML))

	return err
}

func (r *Reader) nextEventBytes() ([]byte, error) {
	if r.closed {
		return nil, errs.ErrClosed
	}

	for r.pending == 0 {
		if r.done || r.block.Last {
			r.done = true
			return nil, errs.ErrNoMoreEvents
		}

		if err := r.nextBlock(); err != nil {
			return nil, err
		}
	}

	h, _, err := section.ParseBankHeader(r.payload[r.offset:], r.engine)
	if err != nil {
		return nil, fmt.Errorf("block %d event at byte %d: %w", r.block.Number, r.offset, err)
	}

	end := r.offset + h.TotalBytes()
	if end > len(r.payload) {
		return nil, fmt.Errorf("%w: block %d event at byte %d needs %d bytes, have %d",
			errs.ErrInvalidLength, r.block.Number, r.offset, h.TotalBytes(), len(r.payload)-r.offset)
	}

	b := r.payload[r.offset:end]
	r.offset = end
	r.pending--

	return b, nil
}

// NextEventBytes returns the next serialized event in the stream byte order.
// The slice stays valid until the reader moves to another block; copy it to
// keep it longer.
//
// Returns errs.ErrNoMoreEvents after the last event.
func (r *Reader) NextEventBytes() ([]byte, error) {
	b, err := r.nextEventBytes()
	if err != nil {
		return nil, err
	}
	r.events++

	return b, nil
}

// NextEvent parses the next event into a structure tree.
func (r *Reader) NextEvent() (*structure.Structure, error) {
	b, err := r.NextEventBytes()
	if err != nil {
		return nil, err
	}

	return structure.ParseEvent(b, r.engine)
}

// ByteOrder returns the byte order of the stream.
func (r *Reader) ByteOrder() endian.EndianEngine { return r.engine }

// Dictionary returns the parsed dictionary, or nil if the stream has none.
func (r *Reader) Dictionary() *dictionary.Dictionary { return r.dict }

// DictionaryXML returns the dictionary text, or "" if the stream has none.
func (r *Reader) DictionaryXML() string { return r.dictXML }

// EventCount returns the number of events returned so far, not counting the
// dictionary.
func (r *Reader) EventCount() int { return r.events }

// BlockCount returns the number of blocks read so far.
func (r *Reader) BlockCount() int { return r.blocks }

// BlockHeader returns the header of the current block.
func (r *Reader) BlockHeader() section.BlockHeader { return r.block }

// Close releases the reader and closes a file opened by OpenFile.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.payload = nil

	if r.file != nil {
		return r.file.Close()
	}

	return nil
}
