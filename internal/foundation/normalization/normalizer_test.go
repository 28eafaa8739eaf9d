package normalization

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

type color string

const (
	red  color = "red"
	blue color = "blue"
)

func newColors() *Normalizer[color] {
	return NewNormalizer("color", map[string]color{"red": red, "Blue": blue, "navy": blue}, red)
}

func TestNormalize(t *testing.T) {
	n := newColors()
	cases := map[string]color{
		"red":      red,
		"  BLUE  ": blue,
		"navy":     blue,
		"green":    red,
		"":         red,
	}
	for in, want := range cases {
		require.Equal(t, want, n.Normalize(in), "input %q", in)
	}
}

func TestParse(t *testing.T) {
	n := newColors()

	v, err := n.Parse("Navy")
	require.NoError(t, err)
	require.Equal(t, blue, v)

	v, err = n.Parse(" ")
	require.NoError(t, err)
	require.Equal(t, red, v)

	_, err = n.Parse("green")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
	require.Contains(t, err.Error(), `invalid color "green"`)
}

func TestKeys(t *testing.T) {
	require.Equal(t, []string{"blue", "navy", "red"}, newColors().Keys())
}
