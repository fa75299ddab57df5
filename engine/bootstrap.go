package engine

import (
	"context"
	"errors"
	"fmt"
	"github.com/shimmeringbee/lightwave/bridge"
	"github.com/shimmeringbee/lightwave/feature"
	"github.com/shimmeringbee/logwrap"
	"golang.org/x/sync/errgroup"
	"time"
)

var (
	errDeviceValues = errors.New("device values could not be read")
	errEnergyValues = errors.New("energy values could not be read")
)

type Subscription struct {
	Role      feature.Role
	Key       string
	FeatureID string
}

// OnReady schedules bootstrap after the configured base delay. It returns
// false if an attempt is already pending or running, or if the device has
// already bootstrapped.
func (e *Engine) OnReady(_ context.Context) bool {
	e.m.Lock()
	defer e.m.Unlock()

	return e.scheduleLocked(e.cfg.BaseDelay)
}

func (e *Engine) scheduleLocked(delay time.Duration) bool {
	if e.closed || e.inFlight || e.timer != nil || e.availability == Available {
		return false
	}

	e.timer = e.cfg.Scheduler.AfterFunc(delay, e.attempt)
	return true
}

func (e *Engine) attempt() {
	e.m.Lock()
	if e.closed || e.inFlight {
		e.m.Unlock()
		return
	}

	e.timer = nil
	e.inFlight = true
	attempt := e.retryCount + 1
	e.m.Unlock()

	ctx, end := e.logger.Segment(e.ctx, "Bootstrapping device.", logwrap.Datum("device", e.d.Identifier()), logwrap.Datum("attempt", attempt))
	defer end()

	err := e.throttled(ctx, e.bootstrap)

	e.m.Lock()
	e.inFlight = false

	if e.closed {
		e.m.Unlock()
		return
	}

	if err == nil {
		e.availability = Available
		e.retryCount = 0
		e.m.Unlock()

		e.logger.LogInfo(ctx, "Device bootstrapped.")

		if herr := e.h.SetAvailable(ctx); herr != nil {
			e.logger.LogWarn(ctx, "Host rejected available state.", logwrap.Err(herr))
		}

		return
	}

	e.retryCount++
	e.scheduleLocked(e.cfg.RetryInterval)
	e.m.Unlock()

	e.logger.LogWarn(ctx, "Device bootstrap failed, retrying.", logwrap.Err(err), logwrap.Datum("retryIn", e.cfg.RetryInterval.String()))
}

func (e *Engine) throttled(ctx context.Context, f func(context.Context) error) error {
	if e.cfg.Throttle == nil {
		return f(ctx)
	}

	if err := e.cfg.Throttle.Acquire(ctx, 1); err != nil {
		return err
	}
	defer e.cfg.Throttle.Release(1)

	return f(ctx)
}

func (e *Engine) bootstrap(ctx context.Context) error {
	if !e.GetDeviceValues(ctx) {
		return errDeviceValues
	}

	if !e.GetEnergyValues(ctx) {
		return errEnergyValues
	}

	return e.registerWebhooks(ctx)
}

func (e *Engine) registerWebhooks(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, r := range e.d.SupportedRoles() {
		featureID, _ := e.d.FeatureID(r)
		key := e.d.WebhookKey(r)

		g.Go(func() error {
			if err := e.call(gctx, func(cctx context.Context) error {
				return e.b.RegisterWebhook(cctx, featureID, bridge.FeatureScope, key)
			}); err != nil {
				return fmt.Errorf("register webhook %s: %w", key, err)
			}

			ws := e.s.Section("Webhook", string(r))
			ws.Set("Key", key)
			ws.Set("FeatureID", featureID)
			ws.Set("Registered", time.Now().UnixMilli())

			return nil
		})
	}

	return g.Wait()
}

// Subscriptions lists the webhooks registered by a successful bootstrap.
func (e *Engine) Subscriptions() []Subscription {
	var subs []Subscription

	for _, r := range e.d.SupportedRoles() {
		ws := e.s.Section("Webhook", string(r))

		key, ok := ws.String("Key")
		if !ok {
			continue
		}

		featureID, _ := ws.String("FeatureID")
		subs = append(subs, Subscription{Role: r, Key: key, FeatureID: featureID})
	}

	return subs
}
