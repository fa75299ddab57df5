package lightwave

import (
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/golog"
	"log"
)

// WithGoLogger must be called before Start.
func (g *Gateway) WithGoLogger(parentLogger *log.Logger) {
	g.WithLogWrapLogger(logwrap.New(golog.Wrap(parentLogger)))
}

func (g *Gateway) WithLogWrapLogger(lw logwrap.Logger) {
	g.logger = lw
	g.poller.logger = lw
}
