package magic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCellMagic(t *testing.T) {
	assert.True(t, IsCellMagic("%%timeit x = 1", nil))
	assert.True(t, IsCellMagic("%time f()", nil))
	assert.False(t, IsCellMagic("x = 1 % 2", nil))
	assert.False(t, IsCellMagic("%matplotlib inline", nil))
	assert.True(t, IsCellMagic("%matplotlib inline", []string{"matplotlib"}))
}

func TestMaskOnlyTouchesMagicLines(t *testing.T) {
	src := "%%timeit\nx = 5 % 2\n"
	masked := Mask(src, nil)

	assert.NotContains(t, masked, "%%timeit")
	assert.Contains(t, masked, "x = 5 % 2")
}

func TestMaskUnmaskRoundTrip(t *testing.T) {
	src := "%%bash\necho 100%\nx = 1\n"
	assert.Equal(t, src, Unmask(Mask(src, nil)))
}

func TestMaskCustomMagics(t *testing.T) {
	src := "%%mymagic arg\npass\n"

	assert.Equal(t, src, Mask(src, nil))
	assert.NotEqual(t, src, Mask(src, []string{"mymagic"}))
	assert.Equal(t, src, Unmask(Mask(src, []string{"mymagic"})))
}
