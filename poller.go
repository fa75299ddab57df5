package lightwave

import (
	"context"
	"github.com/shimmeringbee/lightwave/engine"
	"github.com/shimmeringbee/logwrap"
	"math/rand"
	"sync"
	"time"
)

const pollerBacklog = 200
const workerMaximumJobDuration = 15 * time.Second

type devicePoller struct {
	deviceTable *deviceTable
	logger      logwrap.Logger
	workers     int

	pollerWork chan pollerWork
	pollerDone chan struct{}
	stopOnce   *sync.Once

	randLock *sync.Mutex
	rand     *rand.Rand

	// active holds the generation of the one job chain each device may run.
	activeLock *sync.Mutex
	active     map[string]uint64
	generation uint64
}

type pollerWork struct {
	identifier string
	generation uint64
	interval   time.Duration
	fn         func(context.Context, *Device) bool
}

func newDevicePoller(dt *deviceTable, l logwrap.Logger, workers int) *devicePoller {
	return &devicePoller{
		deviceTable: dt,
		logger:      l,
		workers:     workers,

		pollerWork: make(chan pollerWork, pollerBacklog),
		pollerDone: make(chan struct{}),
		stopOnce:   &sync.Once{},

		randLock: &sync.Mutex{},
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),

		activeLock: &sync.Mutex{},
		active:     make(map[string]uint64),
	}
}

func (p *devicePoller) Start() {
	for i := 0; i < p.workers; i++ {
		go p.worker()
	}
}

// Stop ends the workers, jobs queued or waiting on a timer are discarded.
func (p *devicePoller) Stop() {
	p.stopOnce.Do(func() {
		close(p.pollerDone)
	})
}

// Add polls the device every interval, starting after a random part of the
// first interval. Polling stops when fn returns false, the device leaves the
// table, or Add is called again for the same device.
func (p *devicePoller) Add(identifier string, interval time.Duration, fn func(context.Context, *Device) bool) {
	p.randLock.Lock()
	initialWait := time.Duration(float64(interval) * p.rand.Float64())
	p.randLock.Unlock()

	p.activeLock.Lock()
	p.generation++
	p.active[identifier] = p.generation
	work := pollerWork{
		identifier: identifier,
		generation: p.generation,
		interval:   interval,
		fn:         fn,
	}
	p.activeLock.Unlock()

	time.AfterFunc(initialWait, func() {
		p.enqueue(work)
	})
}

// Remove drops any job chain for the device.
func (p *devicePoller) Remove(identifier string) {
	p.activeLock.Lock()
	defer p.activeLock.Unlock()

	delete(p.active, identifier)
}

func (p *devicePoller) current(work pollerWork) bool {
	p.activeLock.Lock()
	defer p.activeLock.Unlock()

	gen, found := p.active[work.identifier]
	return found && gen == work.generation
}

// enqueue returns false if the poller was stopped before the work was queued.
func (p *devicePoller) enqueue(work pollerWork) bool {
	select {
	case p.pollerWork <- work:
		return true
	case <-p.pollerDone:
		return false
	}
}

func (p *devicePoller) worker() {
	for {
		select {
		case work := <-p.pollerWork:
			if !p.current(work) {
				continue
			}

			d := p.deviceTable.getDevice(work.identifier)

			if d != nil {
				ctx, cancel := context.WithTimeout(context.Background(), workerMaximumJobDuration)

				if work.fn(ctx, d) {
					time.AfterFunc(work.interval, func() {
						p.enqueue(work)
					})
				}

				cancel()
			}
		case <-p.pollerDone:
			return
		}
	}
}

// deviceAddedCallback schedules periodic reads for each new device.
func (p *devicePoller) deviceAddedCallback(ctx context.Context, e internalDeviceAdded) error {
	if e.device.pollInterval <= 0 {
		return nil
	}

	p.logger.LogDebug(ctx, "Scheduling device polling.", logwrap.Datum("device", e.device.Identifier()), logwrap.Datum("interval", e.device.pollInterval.String()))
	p.Add(e.device.Identifier(), e.device.pollInterval, pollDevice)

	return nil
}

func (p *devicePoller) deviceRemovedCallback(ctx context.Context, e internalDeviceRemoved) error {
	p.logger.LogDebug(ctx, "Dropping device polling.", logwrap.Datum("device", e.device.Identifier()))
	p.Remove(e.device.Identifier())

	return nil
}

// pollDevice skips devices that have not bootstrapped, bootstrap reads the
// same values itself.
func pollDevice(ctx context.Context, d *Device) bool {
	if d.engine.Availability() == engine.Available {
		d.Refresh(ctx)
	}

	return true
}
