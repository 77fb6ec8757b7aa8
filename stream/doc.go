// Package stream reads and writes the block-oriented evio version 4 layout.
//
// A file or stream is a sequence of blocks. Each block is an 8-word header
// (section.BlockHeader) followed by whole events, each event being one
// serialized bank. The first block may carry an XML dictionary as its first
// event; the final block is an empty header with the last-block bit set.
//
// # Writing
//
//	w, err := stream.NewFileWriter("run42.evio",
//	    stream.WithBlockSizeMax(100000),
//	    stream.WithCompression(format.CompressionZstd),
//	)
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	if err := w.WriteEvent(event); err != nil {
//	    return err
//	}
//
// # Reading
//
//	r, err := stream.OpenFile("run42.evio")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	for {
//	    ev, err := r.NextEvent()
//	    if errors.Is(err, errs.ErrNoMoreEvents) {
//	        break
//	    }
//	    ...
//	}
//
// Block payloads may be compressed with any codec from the compress package.
// Block headers are never compressed, so a reader always detects the byte
// order from the magic word before touching the payload.
//
// Writers and readers are safe for use by one goroutine at a time. The only
// background goroutine is the writer's file closer, which closes owned files
// in the order they were handed over.
package stream
