package engine

import (
	"context"
	"github.com/stretchr/testify/mock"
)

const (
	CapabilityOnOff  = "onoff"
	CapabilityDim    = "dim"
	CapabilityPower  = "measure_power"
	CapabilityEnergy = "meter_power"
)

// Host receives the device's capability values and availability. Errors are
// logged by the engine and otherwise ignored.
type Host interface {
	SetCapabilityValue(ctx context.Context, name string, value any) error
	SetAvailable(ctx context.Context) error
	SetUnavailable(ctx context.Context, reason string) error
}

type MockHost struct {
	mock.Mock
}

func (m *MockHost) SetCapabilityValue(ctx context.Context, name string, value any) error {
	return m.Called(ctx, name, value).Error(0)
}

func (m *MockHost) SetAvailable(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockHost) SetUnavailable(ctx context.Context, reason string) error {
	return m.Called(ctx, reason).Error(0)
}

var _ Host = (*MockHost)(nil)
