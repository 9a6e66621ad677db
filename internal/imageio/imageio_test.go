package imageio

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMat(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 3))
	src.Set(1, 2, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	mat := ToMat(src)
	defer mat.Close()

	require.Equal(t, 3, mat.Rows())
	require.Equal(t, 4, mat.Cols())

	// BGR channel order.
	assert.Equal(t, uint8(30), mat.GetUCharAt(2, 1*3+0))
	assert.Equal(t, uint8(20), mat.GetUCharAt(2, 1*3+1))
	assert.Equal(t, uint8(10), mat.GetUCharAt(2, 1*3+2))
}

func TestLoadPNG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 6))
	path := filepath.Join(t.TempDir(), "photo.png")

	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(file, src))
	require.NoError(t, file.Close())

	mat, err := Load(path)
	require.NoError(t, err)
	defer mat.Close()

	assert.Equal(t, 6, mat.Rows())
	assert.Equal(t, 8, mat.Cols())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.jpg"))
	assert.Error(t, err)
}

func TestIsSupportedFormat(t *testing.T) {
	assert.True(t, IsSupportedFormat("photo.JPG"))
	assert.True(t, IsSupportedFormat("photo.tiff"))
	assert.False(t, IsSupportedFormat("photo.bmp"))
	assert.False(t, IsSupportedFormat("photo"))
}
