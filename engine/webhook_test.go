package engine

import (
	"context"
	"encoding/json"
	"github.com/shimmeringbee/lightwave/bridge"
	"github.com/shimmeringbee/lightwave/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestEngine_OnWebhook(t *testing.T) {
	t.Run("switch on reads the dim level exactly once", func(t *testing.T) {
		te := newTestEngine(t, testDimmer())
		te.acceptAllHostValues()

		te.b.On("GetFeatureValue", mock.Anything, "dim").Return(float64(30), nil).Once()

		assert.True(t, te.OnWebhook(context.Background(), feature.Switch, json.Number("1")))
		te.b.AssertNumberOfCalls(t, "GetFeatureValue", 1)

		st := te.State()
		assert.True(t, *st.OnOff)
		assert.Equal(t, 0.3, *st.DimFraction)
	})

	t.Run("switch off reads nothing", func(t *testing.T) {
		te := newTestEngine(t, testDimmer())
		te.acceptAllHostValues()

		assert.True(t, te.OnWebhook(context.Background(), feature.Switch, 0))
		te.b.AssertNotCalled(t, "GetFeatureValue", mock.Anything, mock.Anything)
		assert.False(t, *te.State().OnOff)
	})

	t.Run("switch on for a socket reads nothing", func(t *testing.T) {
		te := newTestEngine(t, testSocket())
		te.acceptAllHostValues()

		assert.True(t, te.OnWebhook(context.Background(), feature.Switch, 1))
		te.b.AssertNotCalled(t, "GetFeatureValue", mock.Anything, mock.Anything)
	})

	t.Run("a failed follow up read is not applied but the switch is kept", func(t *testing.T) {
		te := newTestEngine(t, testDimmer())
		te.acceptAllHostValues()

		te.b.On("GetFeatureValue", mock.Anything, "dim").Return(float64(0), errBridgeDown).Once()

		assert.False(t, te.OnWebhook(context.Background(), feature.Switch, 1))
		assert.True(t, *te.State().OnOff)
		te.b.AssertNumberOfCalls(t, "GetFeatureValue", 1)
	})

	t.Run("applies dim level, power and energy directly", func(t *testing.T) {
		te := newTestEngine(t, testDimmer())

		te.h.On("SetCapabilityValue", mock.Anything, CapabilityDim, 0.75).Return(nil).Once()
		te.h.On("SetCapabilityValue", mock.Anything, CapabilityPower, 60.0).Return(nil).Once()
		te.h.On("SetCapabilityValue", mock.Anything, CapabilityEnergy, 3.25).Return(nil).Once()

		assert.True(t, te.OnWebhook(context.Background(), feature.DimLevel, 75))
		assert.True(t, te.OnWebhook(context.Background(), feature.Power, float64(60)))
		assert.True(t, te.OnWebhook(context.Background(), feature.Energy, int64(3250)))
		te.b.AssertNotCalled(t, "GetFeatureValue", mock.Anything, mock.Anything)
	})

	t.Run("sentinel and mistyped values are not applied", func(t *testing.T) {
		te := newTestEngine(t, testDimmer())

		assert.False(t, te.OnWebhook(context.Background(), feature.Power, -1))
		assert.False(t, te.OnWebhook(context.Background(), feature.Switch, 2))
		assert.False(t, te.OnWebhook(context.Background(), feature.DimLevel, "high"))
		te.h.AssertNotCalled(t, "SetCapabilityValue", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown and unsupported roles are ignored", func(t *testing.T) {
		te := newTestEngine(t, testSocket())

		assert.False(t, te.OnWebhook(context.Background(), "colour", 1))
		assert.False(t, te.OnWebhook(context.Background(), feature.DimLevel, 50))
		te.h.AssertNotCalled(t, "SetCapabilityValue", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("a panicking host is contained", func(t *testing.T) {
		te := newTestEngine(t, testDimmer())

		te.h.On("SetCapabilityValue", mock.Anything, CapabilityPower, 5.0).Run(func(mock.Arguments) {
			panic("host exploded")
		}).Return(nil).Once()

		assert.NotPanics(t, func() {
			assert.False(t, te.OnWebhook(context.Background(), feature.Power, 5))
		})
	})

	t.Run("nothing is applied after close", func(t *testing.T) {
		te := newTestEngine(t, testSocket())
		te.Close()

		assert.False(t, te.OnWebhook(context.Background(), feature.Switch, 1))
	})
}

func TestEngine_Scenario(t *testing.T) {
	t.Run("dimmer bootstraps, is switched off, and follows the webhook", func(t *testing.T) {
		te := newTestEngine(t, testDimmer())
		te.acceptAllHostValues()
		te.acceptAllWebhooks()

		te.b.On("GetFeatureValue", mock.Anything, "sw").Return(float64(1), nil).Once()
		te.b.On("GetFeatureValue", mock.Anything, "dim").Return(float64(57), nil).Once()
		te.b.On("GetFeatureValue", mock.Anything, "en").Return(float64(1500), nil).Once()
		te.b.On("GetFeatureValue", mock.Anything, "pw").Return(float64(12), nil).Once()
		te.b.On("SetFeatureValue", mock.Anything, "sw", "0").Return(nil).Once()
		te.h.On("SetAvailable", mock.Anything).Return(nil).Once()

		te.OnReady(context.Background())
		te.sched.fire()

		st := te.State()
		require.Equal(t, Available, st.Availability)
		assert.True(t, *st.OnOff)
		assert.Equal(t, 0.57, *st.DimFraction)
		assert.Equal(t, 12.0, *st.PowerWatts)
		assert.Equal(t, 1.5, *st.EnergyKWh)

		for _, r := range []feature.Role{feature.Switch, feature.DimLevel, feature.Power, feature.Energy} {
			featureID, _ := te.Descriptor().FeatureID(r)
			te.b.AssertCalled(t, "RegisterWebhook", mock.Anything, featureID, bridge.FeatureScope, te.Descriptor().WebhookKey(r))
		}

		assert.NoError(t, te.OnCommand(context.Background(), feature.Switch, false))
		assert.True(t, *te.State().OnOff)

		assert.True(t, te.OnWebhook(context.Background(), feature.Switch, 0))
		assert.False(t, *te.State().OnOff)
		te.b.AssertNumberOfCalls(t, "GetFeatureValue", 4)
	})
}
