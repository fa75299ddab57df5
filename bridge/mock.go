package bridge

import (
	"context"
	"github.com/shimmeringbee/lightwave/feature"
	"github.com/stretchr/testify/mock"
)

type MockBridge struct {
	mock.Mock
}

func (m *MockBridge) WaitForBridgeReady(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockBridge) GetFeatureValue(ctx context.Context, featureID string) (float64, error) {
	args := m.Called(ctx, featureID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockBridge) SetFeatureValue(ctx context.Context, featureID string, value any) error {
	return m.Called(ctx, featureID, value).Error(0)
}

func (m *MockBridge) RegisterWebhook(ctx context.Context, featureID string, scope string, key string) error {
	return m.Called(ctx, featureID, scope, key).Error(0)
}

func (m *MockBridge) GetDevicesOfType(ctx context.Context, kind feature.Kind) ([]feature.Descriptor, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).([]feature.Descriptor), args.Error(1)
}

var _ Bridge = (*MockBridge)(nil)
