package swap

import (
	"github.com/arloliu/evio/internal/options"
	"github.com/arloliu/evio/scan"
)

type config struct {
	withoutData bool
	nodes       *[]*scan.Node
}

// Option configures a swap.
type Option = options.Option[*config]

// WithoutData swaps headers only. Payload bytes are neither swapped nor copied.
func WithoutData() Option {
	return options.NoError(func(c *config) {
		c.withoutData = true
	})
}

// WithNodes appends a node for every structure swapped to list, in pre-order.
// Node positions refer to the destination buffer.
func WithNodes(list *[]*scan.Node) Option {
	return options.NoError(func(c *config) {
		c.nodes = list
	})
}
