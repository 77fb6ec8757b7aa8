package stream

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/arloliu/evio/dictionary"
	"github.com/arloliu/evio/endian"
	"github.com/arloliu/evio/errs"
	"github.com/arloliu/evio/format"
	"github.com/arloliu/evio/internal/options"
	"github.com/arloliu/evio/section"
)

type writerConfig struct {
	blockSizeMax  uint32
	blockCountMax uint32
	startBlock    uint32
	dict          *dictionary.Dictionary
	compression   format.CompressionType
	eventType     format.EventType
	engine        endian.EndianEngine
	logger        *slog.Logger
}

// WriterOption configures a Writer.
type WriterOption = options.Option[*writerConfig]

func newWriterConfig(opts []WriterOption) (*writerConfig, error) {
	cfg := &writerConfig{
		blockSizeMax:  section.DefaultBlockSizeMax,
		blockCountMax: section.DefaultBlockCountMax,
		startBlock:    1,
		engine:        endian.Default(),
		logger:        discardLogger(),
	}

	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithBlockSizeMax sets the target block size in 32-bit words, header
// included. Values are clamped to [section.MinBlockSizeMax,
// section.MaxBlockSizeMax]. An event larger than the limit is written in a
// block of its own.
func WithBlockSizeMax(words int) WriterOption {
	return options.NoError(func(c *writerConfig) {
		c.blockSizeMax = uint32(min(max(words, section.MinBlockSizeMax), section.MaxBlockSizeMax)) //nolint:gosec
	})
}

// WithBlockCountMax sets the maximum number of events per block, clamped to
// [section.MinBlockCountMax, section.MaxBlockCountMax].
func WithBlockCountMax(count int) WriterOption {
	return options.NoError(func(c *writerConfig) {
		c.blockCountMax = uint32(min(max(count, section.MinBlockCountMax), section.MaxBlockCountMax)) //nolint:gosec
	})
}

// WithStartingBlockNumber sets the number of the first block written.
func WithStartingBlockNumber(n uint32) WriterOption {
	return options.NoError(func(c *writerConfig) {
		c.startBlock = n
	})
}

// WithDictionary stores d as the first event of the first block.
func WithDictionary(d *dictionary.Dictionary) WriterOption {
	return options.New(func(c *writerConfig) error {
		if d == nil {
			return fmt.Errorf("%w: nil dictionary", errs.ErrInvalidArgument)
		}
		c.dict = d

		return nil
	})
}

// WithCompression compresses every block payload with the given algorithm.
func WithCompression(ct format.CompressionType) WriterOption {
	return options.New(func(c *writerConfig) error {
		switch ct {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
			c.compression = ct
			return nil
		default:
			return fmt.Errorf("%w: %s", errs.ErrInvalidCompression, ct)
		}
	})
}

// WithEventType sets the event type recorded in every block header.
func WithEventType(et format.EventType) WriterOption {
	return options.NoError(func(c *writerConfig) {
		c.eventType = et
	})
}

// WithByteOrder sets the byte order of the output. Big-endian by default.
func WithByteOrder(engine endian.EndianEngine) WriterOption {
	return options.NoError(func(c *writerConfig) {
		c.engine = endian.OrDefault(engine)
	})
}

// WithLogger sets the logger for block and file events. Logging is
// discarded by default.
func WithLogger(logger *slog.Logger) WriterOption {
	return options.NoError(func(c *writerConfig) {
		if logger != nil {
			c.logger = logger
		}
	})
}

type readerConfig struct {
	logger     *slog.Logger
	dictionary bool
}

// ReaderOption configures a Reader.
type ReaderOption = options.Option[*readerConfig]

func newReaderConfig(opts []ReaderOption) (*readerConfig, error) {
	cfg := &readerConfig{
		logger:     discardLogger(),
		dictionary: true,
	}

	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithReaderLogger sets the logger for block events.
func WithReaderLogger(logger *slog.Logger) ReaderOption {
	return options.NoError(func(c *readerConfig) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithoutDictionaryParsing keeps the dictionary event as raw XML. Dictionary
// then returns nil and DictionaryXML still returns the text.
func WithoutDictionaryParsing() ReaderOption {
	return options.NoError(func(c *readerConfig) {
		c.dictionary = false
	})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
