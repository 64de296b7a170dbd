package dxf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// build renders group code/value pairs as DXF text.
func build(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(pairs[i])
		b.WriteString("\r\n")
		b.WriteString(pairs[i+1])
		b.WriteString("\r\n")
	}
	return b.String()
}

func sampleDrawing() string {
	return build(
		"0", "SECTION", "2", "HEADER",
		"9", "$ACADVER", "1", "AC1027",
		"0", "ENDSEC",
		"0", "SECTION", "2", "BLOCKS",
		"0", "BLOCK", "2", "SENSOR",
		"0", "ATTDEF", "2", "POS", "1", "ignored",
		"0", "ENDBLK",
		"0", "ENDSEC",
		"0", "SECTION", "2", "ENTITIES",
		"0", "LINE", "8", "0", "10", "0.0",
		"0", "INSERT", "5", "1A", "8", "0_SA-Comp_Profinet", "2", "SENSOR", "66", "     1",
		"0", "ATTRIB", "8", "0_SA-Comp_Profinet", "2", "POS", "1", "BG0105500",
		"0", "ATTRIB", "8", "0_SA-Comp_Profinet", "2", "DESC", "1", "  ",
		"0", "SEQEND", "8", "0",
		"0", "INSERT", "8", "0_SA-Comp_ICE", "2", "ICE",
		"0", "INSERT", "8", "paper", "2", "TITLE", "67", "     1",
		"0", "ENDSEC",
		"0", "EOF",
	)
}

func TestReadInsertsAndAttribs(t *testing.T) {
	d, err := Read(strings.NewReader(sampleDrawing()))
	require.NoError(t, err)

	assert.Equal(t, "AC1027", d.Version)
	require.Len(t, d.Inserts, 2, "paper space inserts are skipped")

	first := d.Inserts[0]
	assert.Equal(t, "1A", first.Handle)
	assert.Equal(t, "0_SA-Comp_Profinet", first.Layer)
	assert.Equal(t, "SENSOR", first.Block)
	require.Len(t, first.Attribs, 2)
	assert.Equal(t, Attrib{Tag: "POS", Text: "BG0105500", Layer: "0_SA-Comp_Profinet"}, first.Attribs[0])

	second := d.Inserts[1]
	assert.Equal(t, "0_SA-Comp_ICE", second.Layer)
	assert.Empty(t, second.Attribs)
}

func TestReadEmptyDrawing(t *testing.T) {
	d, err := Read(strings.NewReader(build("0", "EOF")))
	require.NoError(t, err)
	assert.Empty(t, d.Inserts)
}

func TestReadBinaryRejected(t *testing.T) {
	_, err := Read(strings.NewReader(binarySentinel + "\r\n\x1a\x00"))
	assert.ErrorIs(t, err, ErrBinaryDXF)
}

func TestReadMalformed(t *testing.T) {
	_, err := Read(strings.NewReader("0\nSECTION\n2\nENTITIES\nabc\nINSERT\n"))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Read(strings.NewReader(build("0", "SECTION", "2", "ENTITIES", "0", "INSERT", "8", "x")))
	assert.ErrorIs(t, err, ErrMalformed, "unterminated section")

	_, err = Read(strings.NewReader("0\nSECTION\n2"))
	assert.ErrorIs(t, err, ErrMalformed)
}
