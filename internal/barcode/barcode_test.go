package barcode

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateWritesPNGUnderOrderBarCodeDir(t *testing.T) {
	root := t.TempDir()
	g := &Generator{UploadRoot: root, BaseURL: "http://localhost:8080"}

	publicPath, err := g.Generate("ORD-1735600000-9F3A2C1B")
	require.NoError(t, err)

	// Public path must be derived from the same subdirectory the file is
	// physically written to.
	assert.True(t, strings.HasPrefix(publicPath, "http://localhost:8080/uploads/order/bar-code/barcode-"))
	assert.True(t, strings.HasSuffix(publicPath, ".png"))

	entries, err := os.ReadDir(filepath.Join(root, "order", "bar-code"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(publicPath, entries[0].Name()))

	// The written file must be a decodable PNG tall enough to carry the
	// human-readable text below the bars.
	f, err := os.Open(filepath.Join(root, "order", "bar-code", entries[0].Name()))
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, barWidth, img.Bounds().Dx())
	assert.Equal(t, barHeight+textMargin, img.Bounds().Dy())
}

func TestGenerateFailsOnUnwritableRoot(t *testing.T) {
	// A file standing where the directory should be makes MkdirAll fail.
	root := t.TempDir()
	blocker := filepath.Join(root, "order")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	g := &Generator{UploadRoot: root, BaseURL: "http://localhost:8080"}
	_, err := g.Generate("ORD-1-ABCDEF01")
	assert.Error(t, err)
}
