package database

import (
	"strings"
	"testing"

	"github.com/fieldhub/fbserver/internal/hwbus"
	"github.com/fieldhub/fbserver/internal/regctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDB = `
# a small reference database
BLOCK PARAMS 0x1000 1
FIELD PARAMS VAL PARAM uint

BLOCK TTLIN 0x2000 6
FIELD TTLIN VAL READ uint 0
FIELD TTLIN SELECT BIT_MUX 4

BLOCK BITS 0 1
FIELD BITS OUT BIT_OUT 0

BLOCK SEQ 0x3000 1
FIELD SEQ TABLE TABLE 0 1024

MUXBIT TTLIN0.VAL 0
`

func TestTextLoaderBuildsRegistry(t *testing.T) {
	loader := NewTextLoader(1024, 32)
	reg, muxes, err := loader.Load(strings.NewReader(sampleDB))
	require.NoError(t, err)

	ctx := regctx.New(hwbus.NewMock())

	params, ok := reg.Block("PARAMS")
	require.True(t, ok)
	valField, ok := params.Field("VAL")
	require.True(t, ok)
	require.NoError(t, valField.Class.Put(ctx, 0, "9"))
	s, err := valField.Class.Get(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "9", s)

	idx, ok := muxes.Bit.IndexOf("TTLIN0.VAL")
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	ttlin, ok := reg.Block("TTLIN")
	require.True(t, ok)
	assert.Equal(t, 6, ttlin.Count)
}

func TestTextLoaderRejectsUnknownDirective(t *testing.T) {
	loader := NewTextLoader(1024, 32)
	_, _, err := loader.Load(strings.NewReader("NOPE a b c\n"))
	assert.Error(t, err)
}

func TestTextLoaderRejectsFieldOnUnknownBlock(t *testing.T) {
	loader := NewTextLoader(1024, 32)
	_, _, err := loader.Load(strings.NewReader("FIELD GHOST VAL PARAM uint\n"))
	assert.Error(t, err)
}
