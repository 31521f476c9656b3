package node

import (
	"fmt"

	"github.com/aretw0/canopy/pkg/domain"
)

// Base provides no-op defaults for nodes that declare no ports and carry no
// configuration. Embed it and override what the node actually needs.
type Base struct{}

func (Base) Ports() []domain.Port         { return nil }
func (Base) SetupPorts(PortResolver) error { return nil }
func (Base) Config() any                  { return nil }
func (Base) Reset()                       {}

// SetConfig accepts only nil; nodes with real configuration override it.
func (Base) SetConfig(cfg any) error {
	if cfg != nil {
		return fmt.Errorf("node takes no configuration, got %T: %w", cfg, domain.ErrTypeMismatch)
	}
	return nil
}
