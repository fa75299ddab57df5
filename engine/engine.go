package engine

import (
	"context"
	"github.com/shimmeringbee/lightwave/bridge"
	"github.com/shimmeringbee/lightwave/feature"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/persistence"
	"github.com/shimmeringbee/retry"
	"golang.org/x/sync/semaphore"
	"sync"
	"time"
)

const (
	DefaultRetryInterval = 60 * time.Second
	DefaultBridgeTimeout = 10 * time.Second
	DefaultBridgeRetries = 2

	InitialisingReason = "initialising"
)

type Availability int

const (
	Initializing Availability = iota
	Available
	Unavailable
)

func (a Availability) String() string {
	switch a {
	case Initializing:
		return "initializing"
	case Available:
		return "available"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// State is a snapshot of a device, nil values have never been read.
type State struct {
	OnOff          *bool
	DimFraction    *float64
	PowerWatts     *float64
	EnergyKWh      *float64
	Availability   Availability
	InitRetryCount int
}

type Config struct {
	// BaseDelay is waited before the first bootstrap attempt.
	BaseDelay     time.Duration
	RetryInterval time.Duration
	BridgeTimeout time.Duration
	BridgeRetries int

	Scheduler Scheduler
	// Throttle, if set, is held for the duration of each bootstrap attempt.
	Throttle *semaphore.Weighted
}

func DefaultConfig() Config {
	return Config{
		RetryInterval: DefaultRetryInterval,
		BridgeTimeout: DefaultBridgeTimeout,
		BridgeRetries: DefaultBridgeRetries,
		Scheduler:     timeScheduler{},
	}
}

// Engine keeps a single LightwaveRF device in step with the bridge.
type Engine struct {
	d      feature.Descriptor
	b      bridge.Bridge
	h      Host
	s      persistence.Section
	logger logwrap.Logger
	cfg    Config

	ctx    context.Context
	cancel context.CancelFunc

	m            *sync.Mutex
	timer        Timer
	inFlight     bool
	closed       bool
	availability Availability
	retryCount   int
}

// New creates an engine in the Initializing state and tells the host the
// device is unavailable until bootstrapped. Nothing is read from the bridge
// until OnReady is called.
func New(d feature.Descriptor, b bridge.Bridge, h Host, s persistence.Section, l logwrap.Logger, cfg Config) *Engine {
	def := DefaultConfig()

	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = def.RetryInterval
	}

	if cfg.BridgeTimeout <= 0 {
		cfg.BridgeTimeout = def.BridgeTimeout
	}

	// retry.Retry makes no attempt at all when given zero.
	if cfg.BridgeRetries <= 0 {
		cfg.BridgeRetries = def.BridgeRetries
	}

	if cfg.Scheduler == nil {
		cfg.Scheduler = def.Scheduler
	}

	ctx, cancel := context.WithCancel(context.Background())

	e := &Engine{
		d:            d,
		b:            b,
		h:            h,
		s:            s,
		logger:       l,
		cfg:          cfg,
		ctx:          ctx,
		cancel:       cancel,
		m:            &sync.Mutex{},
		availability: Initializing,
	}

	if err := h.SetUnavailable(ctx, InitialisingReason); err != nil {
		l.LogWarn(ctx, "Host rejected unavailable state.", logwrap.Datum("device", d.Identifier()), logwrap.Err(err))
	}

	return e
}

func (e *Engine) Descriptor() feature.Descriptor {
	return e.d
}

func (e *Engine) Availability() Availability {
	e.m.Lock()
	defer e.m.Unlock()

	return e.availability
}

func (e *Engine) State() State {
	e.m.Lock()
	st := State{
		Availability:   e.availability,
		InitRetryCount: e.retryCount,
	}
	e.m.Unlock()

	if v, ok := e.valueSection(feature.Switch).Bool(valueKey); ok {
		st.OnOff = &v
	}

	st.DimFraction = e.floatValue(feature.DimLevel)
	st.PowerWatts = e.floatValue(feature.Power)
	st.EnergyKWh = e.floatValue(feature.Energy)

	return st
}

// Close stops any pending bootstrap and abandons in flight bridge calls. The
// engine must not be used afterwards.
func (e *Engine) Close() {
	e.m.Lock()
	e.closed = true

	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.m.Unlock()

	e.cancel()
}

func (e *Engine) isClosed() bool {
	e.m.Lock()
	defer e.m.Unlock()

	return e.closed
}

func (e *Engine) call(ctx context.Context, f func(context.Context) error) error {
	return retry.Retry(ctx, e.cfg.BridgeTimeout, e.cfg.BridgeRetries, f)
}
