package graphics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-surface/engine/graphics"
	"github.com/Carmen-Shannon/oxy-surface/engine/graphics/graphicstest"
)

func TestComponentSizeChooser(t *testing.T) {
	rgb565 := graphicstest.Config{Red: 5, Green: 6, Blue: 5}
	rgb888 := graphicstest.Config{Red: 8, Green: 8, Blue: 8}
	rgb888d16 := graphicstest.Config{Red: 8, Green: 8, Blue: 8, Depth: 16}
	rgba8888d24s8 := graphicstest.Config{Red: 8, Green: 8, Blue: 8, Alpha: 8, Depth: 24, Stencil: 8}
	all := []graphics.Config{rgb565, rgb888, rgb888d16, rgba8888d24s8}

	tests := []struct {
		name    string
		chooser graphics.ConfigChooser
		configs []graphics.Config
		want    graphics.Config
		wantErr bool
	}{
		{"simple without depth takes first exact color match", graphics.NewSimpleConfigChooser(false), all, rgb888, false},
		{"simple with depth skips shallow depth", graphics.NewSimpleConfigChooser(true), all, rgb888d16, false},
		{"depth and stencil are minimums", graphics.NewComponentSizeChooser(8, 8, 8, 8, 16, 4), all, rgba8888d24s8, false},
		{"color sizes must match exactly", graphics.NewComponentSizeChooser(10, 10, 10, 2, 0, 0), all, nil, true},
		{"empty list fails", graphics.NewSimpleConfigChooser(false), nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.chooser.ChooseConfig(tt.configs)
			if tt.wantErr {
				require.ErrorIs(t, err, graphics.ErrNoMatchingConfig)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type partialConfig struct{}

func (partialConfig) Attrib(a graphics.Attribute) (int, bool) {
	if a == graphics.AttribDepthSize || a == graphics.AttribStencilSize {
		return 0, false
	}
	return 8, true
}

func TestComponentSizeChooserMissingAttributesCountAsZero(t *testing.T) {
	got, err := graphics.NewComponentSizeChooser(8, 8, 8, 8, 0, 0).ChooseConfig([]graphics.Config{partialConfig{}})
	require.NoError(t, err)
	assert.Equal(t, partialConfig{}, got)

	_, err = graphics.NewComponentSizeChooser(8, 8, 8, 8, 16, 0).ChooseConfig([]graphics.Config{partialConfig{}})
	assert.ErrorIs(t, err, graphics.ErrNoMatchingConfig)
}
