package graphics

import "fmt"

// ConfigChooser picks one pixel configuration from the platform's list.
type ConfigChooser interface {
	// ChooseConfig selects a configuration.
	//
	// Parameters:
	//   - configs: the configurations offered by the platform
	//
	// Returns:
	//   - Config: the chosen configuration
	//   - error: ErrNoMatchingConfig (possibly wrapped) if none qualifies
	ChooseConfig(configs []Config) (Config, error)
}

// ConfigChooserFunc adapts a function to the ConfigChooser interface.
type ConfigChooserFunc func(configs []Config) (Config, error)

func (f ConfigChooserFunc) ChooseConfig(configs []Config) (Config, error) { return f(configs) }

// ComponentSizeChooser picks the first configuration with exactly the
// requested color component sizes and at least the requested depth and
// stencil sizes.
type ComponentSizeChooser struct {
	Red, Green, Blue, Alpha int
	Depth, Stencil          int
}

var _ ConfigChooser = ComponentSizeChooser{}

// NewComponentSizeChooser returns a chooser for the given component sizes.
//
// Parameters:
//   - red, green, blue, alpha: exact color component sizes in bits
//   - depth, stencil: minimum depth and stencil sizes in bits
//
// Returns:
//   - ComponentSizeChooser: the configured chooser
func NewComponentSizeChooser(red, green, blue, alpha, depth, stencil int) ComponentSizeChooser {
	return ComponentSizeChooser{
		Red:     red,
		Green:   green,
		Blue:    blue,
		Alpha:   alpha,
		Depth:   depth,
		Stencil: stencil,
	}
}

// NewSimpleConfigChooser returns an RGB 888 chooser, with a 16 bit depth
// buffer when withDepth is set.
//
// Parameters:
//   - withDepth: whether a depth buffer is required
//
// Returns:
//   - ComponentSizeChooser: the configured chooser
func NewSimpleConfigChooser(withDepth bool) ComponentSizeChooser {
	depth := 0
	if withDepth {
		depth = 16
	}
	return NewComponentSizeChooser(8, 8, 8, 0, depth, 0)
}

func (c ComponentSizeChooser) ChooseConfig(configs []Config) (Config, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("%w: platform offered no configurations", ErrNoMatchingConfig)
	}
	for _, cfg := range configs {
		if attrib(cfg, AttribDepthSize) < c.Depth || attrib(cfg, AttribStencilSize) < c.Stencil {
			continue
		}
		if attrib(cfg, AttribRedSize) == c.Red &&
			attrib(cfg, AttribGreenSize) == c.Green &&
			attrib(cfg, AttribBlueSize) == c.Blue &&
			attrib(cfg, AttribAlphaSize) == c.Alpha {
			return cfg, nil
		}
	}
	return nil, fmt.Errorf("%w: r%d g%d b%d a%d depth>=%d stencil>=%d",
		ErrNoMatchingConfig, c.Red, c.Green, c.Blue, c.Alpha, c.Depth, c.Stencil)
}

// attrib returns the attribute value, or 0 when the config does not define it.
func attrib(cfg Config, a Attribute) int {
	if v, ok := cfg.Attrib(a); ok {
		return v
	}
	return 0
}
