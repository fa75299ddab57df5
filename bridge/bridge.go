package bridge

import (
	"context"
	"github.com/shimmeringbee/lightwave/feature"
)

// FeatureScope is the only webhook scope used, webhooks fire when a single
// feature value changes.
const FeatureScope = "feature"

// Bridge is the remote LightwaveRF link hub. Implementations own transport,
// authentication and token refresh, and must be safe for concurrent use.
type Bridge interface {
	WaitForBridgeReady(ctx context.Context) (bool, error)
	// GetFeatureValue returns the current raw value, a negative value means the
	// bridge does not know it.
	GetFeatureValue(ctx context.Context, featureID string) (float64, error)
	SetFeatureValue(ctx context.Context, featureID string, value any) error
	RegisterWebhook(ctx context.Context, featureID string, scope string, key string) error
	GetDevicesOfType(ctx context.Context, kind feature.Kind) ([]feature.Descriptor, error)
}
