package lightwave

import (
	"context"
	"errors"
	"fmt"
	"github.com/shimmeringbee/callbacks"
	"github.com/shimmeringbee/lightwave/bridge"
	"github.com/shimmeringbee/lightwave/feature"
	"github.com/shimmeringbee/lightwave/rules"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/discard"
	"github.com/shimmeringbee/persistence"
	"golang.org/x/sync/semaphore"
	"sync"
	"sync/atomic"
)

var (
	ErrBridgeNotReady = errors.New("bridge did not become ready")
	ErrDeviceExists   = errors.New("device already exists")
	ErrNotStarted     = errors.New("gateway not started")
)

// Gateway owns every LightwaveRF device known to the host and routes bridge
// webhooks to them.
type Gateway struct {
	bridge  bridge.Bridge
	section persistence.Section
	logger  logwrap.Logger
	cfg     Config

	ctx    context.Context
	cancel context.CancelFunc

	events    chan any
	table     *deviceTable
	callbacks callbacks.AdderCaller
	poller    *devicePoller
	throttle  *semaphore.Weighted
	started   *atomic.Bool

	createLock  *sync.Mutex
	staggerLock *sync.Mutex
	stagger     map[feature.Kind]int
}

// New applies defaults to any unset part of cfg. Without rules of its own the
// gateway uses the embedded rule sets.
func New(ctx context.Context, s persistence.Section, b bridge.Bridge, cfg Config) *Gateway {
	ctx, cancel := context.WithCancel(ctx)

	def := DefaultConfig()

	if cfg.EventBufferSize <= 0 {
		cfg.EventBufferSize = def.EventBufferSize
	}

	if cfg.PollWorkers <= 0 {
		cfg.PollWorkers = def.PollWorkers
	}

	if cfg.BootstrapConcurrency <= 0 {
		cfg.BootstrapConcurrency = def.BootstrapConcurrency
	}

	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = def.RetryInterval
	}

	if cfg.BridgeTimeout <= 0 {
		cfg.BridgeTimeout = def.BridgeTimeout
	}

	if cfg.BridgeRetries <= 0 {
		cfg.BridgeRetries = def.BridgeRetries
	}

	if cfg.Rules == nil {
		if re, err := rules.Default(); err == nil {
			cfg.Rules = re
		}
	}

	g := &Gateway{
		bridge:  b,
		section: s,
		logger:  logwrap.New(discard.Discard()),
		cfg:     cfg,

		ctx:    ctx,
		cancel: cancel,

		events:    make(chan any, cfg.EventBufferSize),
		table:     newDeviceTable(),
		callbacks: callbacks.Create(),
		throttle:  semaphore.NewWeighted(cfg.BootstrapConcurrency),
		started:   &atomic.Bool{},

		createLock:  &sync.Mutex{},
		staggerLock: &sync.Mutex{},
		stagger:     make(map[feature.Kind]int),
	}

	g.table.callbacks = g.callbacks

	g.poller = newDevicePoller(g.table, g.logger, cfg.PollWorkers)
	g.callbacks.Add(g.poller.deviceAddedCallback)
	g.callbacks.Add(g.poller.deviceRemovedCallback)

	return g
}

// Start blocks until the bridge is ready, then restores persisted devices and
// begins their bootstrap.
func (g *Gateway) Start(ctx context.Context) error {
	ctx, end := g.logger.Segment(ctx, "Starting gateway.")
	defer end()

	ready, err := g.bridge.WaitForBridgeReady(ctx)
	if err != nil {
		return fmt.Errorf("wait for bridge: %w", err)
	} else if !ready {
		return ErrBridgeNotReady
	}

	g.poller.Start()
	g.started.Store(true)
	g.load(ctx)

	return nil
}

func (g *Gateway) Stop(ctx context.Context) error {
	g.logger.LogInfo(ctx, "Stopping gateway.")

	g.started.Store(false)
	g.poller.Stop()

	for _, d := range g.table.getDevices() {
		d.engine.Close()
	}

	g.cancel()
	return nil
}

// ListPairableDevices returns what the bridge reports for kind, unfiltered.
func (g *Gateway) ListPairableDevices(ctx context.Context, kind feature.Kind) ([]feature.Descriptor, error) {
	if _, ok := kind.Details(); !ok {
		return nil, fmt.Errorf("%w: %q", feature.ErrUnknownKind, kind)
	}

	return g.bridge.GetDevicesOfType(ctx, kind)
}

func (g *Gateway) Devices() []*Device {
	return g.table.getDevices()
}

func (g *Gateway) Device(identifier string) (*Device, bool) {
	d := g.table.getDevice(identifier)
	return d, d != nil
}

// DeliverWebhook routes a webhook by its key to the owning device, returning
// whether the value was applied.
func (g *Gateway) DeliverWebhook(ctx context.Context, key string, raw any) bool {
	identifier, role, err := feature.ParseWebhookKey(key)
	if err != nil {
		g.logger.LogDebug(ctx, "Ignoring webhook with unrecognised key.", logwrap.Datum("key", key), logwrap.Err(err))
		return false
	}

	d := g.table.getDevice(identifier)
	if d == nil {
		g.logger.LogWarn(ctx, "Webhook received for unknown device.", logwrap.Datum("key", key))
		return false
	}

	return d.engine.OnWebhook(ctx, role, raw)
}

func (g *Gateway) nextStagger(kind feature.Kind) int {
	g.staggerLock.Lock()
	defer g.staggerLock.Unlock()

	g.stagger[kind]++
	return g.stagger[kind]
}
