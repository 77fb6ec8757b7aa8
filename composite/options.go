package composite

import (
	"github.com/arloliu/evio/endian"
	"github.com/arloliu/evio/internal/options"
)

type config struct {
	engine endian.EndianEngine
}

// Option configures New.
type Option = options.Option[*config]

// WithByteOrder sets the byte order of the generated raw bytes.
// The default is big-endian.
func WithByteOrder(engine endian.EndianEngine) Option {
	return options.NoError(func(c *config) {
		c.engine = endian.OrDefault(engine)
	})
}
