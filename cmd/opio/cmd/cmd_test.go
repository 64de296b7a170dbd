package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KevinKickass/OpenPanelIO/internal/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDrawing = "0\nSECTION\n2\nENTITIES\n" +
	"0\nINSERT\n8\n0_SA-Comp_Profinet\n2\nBLK\n66\n1\n" +
	"0\nATTRIB\n8\n0_SA-Comp_Profinet\n2\nPOS\n1\nBG0105500\n" +
	"0\nSEQEND\n0\nENDSEC\n0\nEOF\n"

func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Cleanup(func() {
		catalogPath, summaryOnly, serverURL = "", false, ""
	})
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestExtractRejectsNonDXF(t *testing.T) {
	err := execute(t, "extract", "drawing.txt")
	assert.ErrorIs(t, err, client.ErrNotDXF)
}

func TestUploadRejectsNonDXF(t *testing.T) {
	err := execute(t, "upload", "--server", "http://127.0.0.1:1", "drawing.txt")
	assert.ErrorIs(t, err, client.ErrNotDXF)
}

func TestExtractSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.dxf")
	require.NoError(t, os.WriteFile(path, []byte(sampleDrawing), 0o644))

	err := execute(t, "extract", "--summary", "--catalog", "../../../configs/component_db.json", path)
	assert.NoError(t, err)
}
