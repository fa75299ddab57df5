package lightwave

import (
	"context"
	"github.com/shimmeringbee/logwrap"
	"sort"
)

func (g *Gateway) load(pctx context.Context) {
	ctx, end := g.logger.Segment(pctx, "Loading persistence.")
	defer end()

	ids := g.deviceListFromPersistence()
	sort.Strings(ids)

	for _, id := range ids {
		d, err := loadDescriptor(g.sectionForDevice(id))
		if err != nil {
			g.logger.LogError(ctx, "Could not load device from persistence.", logwrap.Datum("device", id), logwrap.Err(err))
			continue
		}

		if _, err := g.createDevice(ctx, d); err != nil {
			g.logger.LogWarn(ctx, "Could not restore device.", logwrap.Datum("device", id), logwrap.Err(err))
		}
	}
}
