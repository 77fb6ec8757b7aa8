// eviodump prints the structure of an evio file and can rewrite it in
// another byte order or with another block compression.
//
// Each event is scanned without decoding its payloads. The text format
// prints one indented line per structure; the cbor format writes one record
// per event as a CBOR sequence, suitable for other tools.
//
// Settings may come from a YAML file (--config); flags given on the command
// line override the file.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/arloliu/evio/dictionary"
	"github.com/arloliu/evio/errs"
	"github.com/arloliu/evio/format"
	"github.com/arloliu/evio/stream"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	flagged := defaultConfig()

	fs := pflag.NewFlagSet("eviodump", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := addFlags(fs, &flagged)
	fs.Usage = func() { printHelp(fs, stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}

		return err
	}

	cfg := defaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = LoadConfig(*configPath); err != nil {
			return err
		}
	}
	mergeFlags(fs, &cfg, flagged)

	if err := cfg.Validate(); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		printHelp(fs, stderr)
		return fmt.Errorf("expected one input file, got %d", fs.NArg())
	}

	level, _ := cfg.level()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	return dumpFile(fs.Arg(0), cfg, stdout, logger)
}

// dumpFile dumps every event of path. Output written before an error is
// still flushed, and a rewrite file is closed with a last block.
func dumpFile(path string, cfg Config, stdout io.Writer, logger *slog.Logger) (err error) {
	r, err := stream.OpenFile(path, stream.WithReaderLogger(logger))
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	dict := r.Dictionary()
	if cfg.Dictionary != "" {
		if dict, err = dictionary.LoadFile(cfg.Dictionary); err != nil {
			return fmt.Errorf("load dictionary: %w", err)
		}
	}

	out := stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	bw := bufio.NewWriter(out)
	defer func() {
		if ferr := bw.Flush(); err == nil {
			err = ferr
		}
	}()

	d, err := newDumper(cfg, bw, dict)
	if err != nil {
		return err
	}

	var w *stream.Writer
	if cfg.Rewrite != "" {
		if w, err = openRewrite(cfg, r, dict, logger); err != nil {
			return err
		}
		defer w.Close()
	}

	events := 0
	for cfg.MaxEvents == 0 || events < cfg.MaxEvents {
		raw, err := r.NextEventBytes()
		if errors.Is(err, errs.ErrNoMoreEvents) {
			break
		}
		if err != nil {
			return err
		}
		events++

		if err := d.dumpEvent(events, raw, r.ByteOrder()); err != nil {
			return err
		}

		if w != nil {
			if err := w.WriteEventBytes(raw, r.ByteOrder()); err != nil {
				return fmt.Errorf("rewrite event %d: %w", events, err)
			}
		}
	}

	d.finish(events)

	if w != nil {
		if err := w.Close(); err != nil {
			return fmt.Errorf("rewrite: %w", err)
		}
		logger.Info("rewrite done", slog.String("path", cfg.Rewrite), slog.Int("events", w.EventCount()),
			slog.Int("blocks", w.BlockCount()), slog.Int64("bytes", w.BytesWritten()))
	}

	logger.Info("dump done", slog.Int("events", events), slog.Int("blocks", r.BlockCount()))

	return nil
}

func openRewrite(cfg Config, r *stream.Reader, dict *dictionary.Dictionary, logger *slog.Logger) (*stream.Writer, error) {
	ct, _ := format.ParseCompressionType(cfg.Compression)

	opts := []stream.WriterOption{
		stream.WithByteOrder(cfg.rewriteOrder(r.ByteOrder())),
		stream.WithCompression(ct),
		stream.WithLogger(logger),
	}
	if dict != nil {
		opts = append(opts, stream.WithDictionary(dict))
	}

	w, err := stream.NewFileWriter(cfg.Rewrite, opts...)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", cfg.Rewrite, err)
	}

	return w, nil
}

func printHelp(fs *pflag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, `eviodump prints the structure tree of every event in an evio file.

Usage:
  eviodump [flags] FILE

Examples:
  # Dump every event as an indented tree
  eviodump run42.evio

  # Show only structures named in the file's dictionary
  eviodump --name TOF.ADC run42.evio

  # Export node trees as a CBOR sequence
  eviodump --format cbor --output run42.cbor run42.evio

  # Write a little-endian, zstd-compressed copy
  eviodump --rewrite run42-le.evio --byte-order little --compression zstd run42.evio

Flags:
`)
	fs.SetOutput(w)
	fs.PrintDefaults()
}
