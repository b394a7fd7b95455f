package webhook

import (
	"fmt"

	"github.com/mattjoyce/chainhook/internal/config"
)

// FromConfig converts config.ReceiverConfig to webhook.Config.
// The receiver settings must already have passed ValidateReceiver.
func FromConfig(rc config.ReceiverConfig) (Config, error) {
	maxBodySize, err := rc.MaxBodyBytes()
	if err != nil {
		return Config{}, fmt.Errorf("webhook %q: invalid max_body_size %q: %w", rc.Path, rc.MaxBodySize, err)
	}

	return Config{
		Listen:          rc.Listen,
		Path:            rc.Path,
		Secret:          rc.HMACSecret,
		SignatureHeader: rc.SignatureHeader,
		MaxBodySize:     maxBodySize,
		Metrics:         rc.Metrics,
		MetricsToken:    rc.MetricsToken,
	}, nil
}
