package stream

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/arloliu/evio/compress"
	"github.com/arloliu/evio/encoding"
	"github.com/arloliu/evio/endian"
	"github.com/arloliu/evio/errs"
	"github.com/arloliu/evio/format"
	"github.com/arloliu/evio/internal/pool"
	"github.com/arloliu/evio/section"
	"github.com/arloliu/evio/structure"
	"github.com/arloliu/evio/swap"
)

// DictionaryTag and DictionaryNum identify the bank that carries the XML
// dictionary.
const (
	DictionaryTag = 0
	DictionaryNum = 0
)

// Writer batches serialized events into blocks.
//
// Events accumulate in memory until the block reaches its size or count
// limit, then the block header and payload are written to the underlying
// io.Writer in one piece.
type Writer struct {
	w      io.Writer
	file   *os.File
	cfg    *writerConfig
	codec  compress.Codec
	closer *fileCloser

	block       *pool.ByteBuffer
	blockEvents uint32
	blockDict   bool
	blockNumber uint32
	header      [section.BlockHeaderSize]byte

	events  int
	blocks  int
	written int64
	closed  bool
}

// NewWriter creates a Writer that writes blocks to w.
// The caller keeps ownership of w; Close does not close it.
//
// Parameters:
//   - w: Destination of the block stream
//   - opts: Block limits, byte order, compression, dictionary and logging options
//
// Returns:
//   - *Writer: Writer ready for events
//   - error: Option error, or an error serializing the dictionary
func NewWriter(w io.Writer, opts ...WriterOption) (*Writer, error) {
	if w == nil {
		return nil, fmt.Errorf("%w: nil writer", errs.ErrInvalidArgument)
	}

	return newWriter(w, nil, opts)
}

// NewFileWriter creates path, truncating any existing file, and returns a
// Writer that owns it. Close hands the file to a background closer and waits
// for it.
func NewFileWriter(path string, opts ...WriterOption) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w, err := newWriter(f, f, opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return w, nil
}

func newWriter(w io.Writer, f *os.File, opts []WriterOption) (*Writer, error) {
	cfg, err := newWriterConfig(opts)
	if err != nil {
		return nil, err
	}

	codec, err := compress.CreateCodec(cfg.compression, "block payload")
	if err != nil {
		return nil, err
	}

	wr := &Writer{
		w:           w,
		file:        f,
		cfg:         cfg,
		codec:       codec,
		block:       pool.GetBlockBuffer(),
		blockNumber: cfg.startBlock,
	}

	if cfg.dict != nil {
		if err := wr.addDictionary(); err != nil {
			pool.PutBlockBuffer(wr.block)
			return nil, err
		}
	}

	if f != nil {
		wr.closer = newFileCloser(cfg.logger)
	}

	return wr, nil
}

// addDictionary places the dictionary bank at the start of the first block.
// It counts toward the block event count but not toward EventCount.
func (w *Writer) addDictionary() error {
	xml, err := w.cfg.dict.XML()
	if err != nil {
		return err
	}

	ev := structure.NewBank(DictionaryTag, format.CharStar8, DictionaryNum, structure.WithByteOrder(w.cfg.engine))
	if err := ev.SetStrings(xml); err != nil {
		return err
	}

	b, err := ev.AppendTo(w.block.B, w.cfg.engine)
	if err != nil {
		return err
	}

	w.block.B = b
	w.blockEvents = 1
	w.blockDict = true

	return nil
}

// WriteEvent serializes ev in the writer byte order and adds it to the
// current block. ev must be a bank.
func (w *Writer) WriteEvent(ev *structure.Structure) error {
	if w.closed {
		return errs.ErrClosed
	}

	if ev == nil || ev.Kind() != format.KindBank {
		return fmt.Errorf("%w: an event must be a bank", errs.ErrInvalidArgument)
	}

	buf := pool.GetEventBuffer()
	defer pool.PutEventBuffer(buf)

	b, err := ev.AppendTo(buf.B, w.cfg.engine)
	if err != nil {
		return err
	}
	buf.B = b

	return w.writeEvent(b)
}

// WriteEventBytes adds a serialized event written in the given byte order.
// An event in the other byte order is swapped before it is stored; b itself
// is not modified.
//
// Returns errs.ErrInvalidLength when the bank length does not match len(b).
func (w *Writer) WriteEventBytes(b []byte, engine endian.EndianEngine) error {
	if w.closed {
		return errs.ErrClosed
	}

	engine = endian.OrDefault(engine)

	h, _, err := section.ParseBankHeader(b, engine)
	if err != nil {
		return err
	}

	if h.TotalBytes() != len(b) {
		return fmt.Errorf("%w: bank declares %d bytes, have %d", errs.ErrInvalidLength, h.TotalBytes(), len(b))
	}

	if endian.Same(engine, w.cfg.engine) {
		return w.writeEvent(b)
	}

	buf := pool.GetEventBuffer()
	defer pool.PutEventBuffer(buf)

	dst := buf.ExtendOrGrow(len(b))
	if err := swap.Event(b, engine, dst); err != nil {
		return err
	}

	return w.writeEvent(dst)
}

func (w *Writer) writeEvent(b []byte) error {
	words := uint32(len(b) / 4)
	blockWords := uint32(section.BlockHeaderWords + w.block.Len()/4)
	if section.BlockHeaderWords+words > section.MaxBlockSizeMax {
		return fmt.Errorf("%w: event of %d words exceeds the largest block", errs.ErrOverflow, words)
	}

	if w.blockEvents > 0 && (blockWords+words > w.cfg.blockSizeMax || w.blockEvents >= w.cfg.blockCountMax) {
		if err := w.flushBlock(false); err != nil {
			return err
		}
	}

	w.block.MustWrite(b)
	w.blockEvents++
	w.events++

	return nil
}

// Flush writes the pending block, if it holds any events.
func (w *Writer) Flush() error {
	if w.closed {
		return errs.ErrClosed
	}

	if w.blockEvents == 0 {
		return nil
	}

	return w.flushBlock(false)
}

func (w *Writer) flushBlock(last bool) error {
	payload := w.block.Bytes()

	h := section.NewBlockHeader(w.blockNumber)
	h.EventCount = w.blockEvents
	h.Dictionary = w.blockDict
	h.Last = last
	h.EventType = w.cfg.eventType

	body := payload
	if len(payload) > 0 && w.cfg.compression != format.CompressionNone {
		compressed, err := w.codec.Compress(payload)
		if err != nil {
			return fmt.Errorf("compress block %d: %w", w.blockNumber, err)
		}

		pad := encoding.BytePadding(len(compressed))
		h.Compression = w.cfg.compression
		h.PayloadPad = uint8(pad)
		h.Reserved2 = uint32(len(payload))
		body = encoding.AppendPadding(compressed, pad)
	}
	h.Size = uint32(section.BlockHeaderWords + len(body)/4) //nolint:gosec

	hdr := h.AppendTo(w.header[:0], w.cfg.engine)
	if _, err := w.w.Write(hdr); err != nil {
		return err
	}
	if _, err := w.w.Write(body); err != nil {
		return err
	}

	w.cfg.logger.Debug("block written",
		slog.Uint64("number", uint64(h.Number)),
		slog.Uint64("events", uint64(h.EventCount)),
		slog.Int("payload_bytes", len(payload)),
		slog.Int("stored_bytes", len(body)),
		slog.Bool("last", last),
	)

	w.written += int64(len(hdr) + len(body))
	w.blocks++
	w.blockNumber++
	w.block.Reset()
	w.blockEvents = 0
	w.blockDict = false

	return nil
}

// Close writes any pending block followed by an empty last block. A file
// opened by NewFileWriter is then closed on the background closer, and Close
// waits until that is done. Calling Close again returns nil.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}

	var err error
	if w.blockEvents > 0 {
		err = w.flushBlock(false)
	}
	if err == nil {
		err = w.flushBlock(true)
	}

	w.closed = true
	pool.PutBlockBuffer(w.block)
	w.block = nil

	if w.closer != nil {
		w.closer.CloseFile(w.file)
		if cerr := w.closer.wait(); err == nil {
			err = cerr
		}
	}

	return err
}

// ByteOrder returns the byte order of the output.
func (w *Writer) ByteOrder() endian.EndianEngine { return w.cfg.engine }

// EventCount returns the number of events accepted, not counting the dictionary.
func (w *Writer) EventCount() int { return w.events }

// BlockCount returns the number of blocks written so far.
func (w *Writer) BlockCount() int { return w.blocks }

// BytesWritten returns the number of bytes written to the destination.
func (w *Writer) BytesWritten() int64 { return w.written }
