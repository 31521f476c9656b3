package node

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/canopy/pkg/domain"
)

// CoerceConfig assigns cfg into dst. It accepts the concrete config type, a
// pointer to it, or a generic map (as produced by JSON/YAML decoding), which
// is decoded field-by-field with mapstructure. Anything else is a downcast
// mismatch.
func CoerceConfig[C any](dst *C, cfg any) error {
	switch v := cfg.(type) {
	case C:
		*dst = v
		return nil
	case *C:
		*dst = *v
		return nil
	case map[string]any:
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           dst,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
		})
		if err != nil {
			return err
		}
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("decode config map: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("expected config %T, got %T: %w", *dst, cfg, domain.ErrTypeMismatch)
	}
}
