package stream

import (
	"io"
	"log/slog"
	"sync"
)

const closerQueueSize = 4

// fileCloser closes files on a single background goroutine, in the order
// they were queued.
type fileCloser struct {
	files  chan io.Closer
	done   chan struct{}
	logger *slog.Logger

	mu  sync.Mutex
	err error
}

func newFileCloser(logger *slog.Logger) *fileCloser {
	c := &fileCloser{
		files:  make(chan io.Closer, closerQueueSize),
		done:   make(chan struct{}),
		logger: logger,
	}
	go c.run()

	return c
}

func (c *fileCloser) run() {
	defer close(c.done)

	for f := range c.files {
		if err := f.Close(); err != nil {
			c.logger.Warn("close file failed", slog.Any("error", err))

			c.mu.Lock()
			if c.err == nil {
				c.err = err
			}
			c.mu.Unlock()

			continue
		}
		c.logger.Debug("file closed")
	}
}

// CloseFile queues f for closing and returns without waiting.
func (c *fileCloser) CloseFile(f io.Closer) {
	c.files <- f
}

// wait stops accepting files, waits for the queue to drain and returns the
// first close error.
func (c *fileCloser) wait() error {
	close(c.files)
	<-c.done

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.err
}
