package registry

import (
	"testing"

	"github.com/fieldhub/fbserver/internal/classes"
	"github.com/fieldhub/fbserver/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestRegistry(t *testing.T) *Registry {
	r := New()
	single, err := r.AddBlock("PCAP", 0x1000, 1)
	require.NoError(t, err)
	require.NoError(t, single.AddField("ENABLE", classes.NewParam("ENABLE", &types.BitType{}, 0x1000, 0, 1)))

	multi, err := r.AddBlock("TTLIN", 0x2000, 6)
	require.NoError(t, err)
	require.NoError(t, multi.AddField("VAL", classes.NewRead("VAL", &types.UintType{}, 0x2000, 0, 6)))
	return r
}

func TestResolveSingleInstanceBlock(t *testing.T) {
	r := buildTestRegistry(t)
	e, err := r.Resolve("PCAP.ENABLE")
	require.NoError(t, err)
	assert.Equal(t, "PCAP", e.Block.Name)
	assert.Equal(t, "ENABLE", e.Field.Name)
	assert.Equal(t, 0, e.Instance)
}

func TestResolveMultiInstanceBlockRequiresNumber(t *testing.T) {
	r := buildTestRegistry(t)
	_, err := r.Resolve("TTLIN.VAL")
	assert.Error(t, err)

	e, err := r.Resolve("TTLIN3.VAL")
	require.NoError(t, err)
	assert.Equal(t, 3, e.Instance)
}

func TestResolveUnknownBlockOrField(t *testing.T) {
	r := buildTestRegistry(t)
	_, err := r.Resolve("NOPE.VAL")
	assert.Error(t, err)
	_, err = r.Resolve("PCAP.NOPE")
	assert.Error(t, err)
}

func TestResolveInstanceOutOfRange(t *testing.T) {
	r := buildTestRegistry(t)
	_, err := r.Resolve("TTLIN9.VAL")
	assert.Error(t, err)
}

func TestWireNameFormatting(t *testing.T) {
	r := buildTestRegistry(t)
	single, _ := r.Block("PCAP")
	f, _ := single.Field("ENABLE")
	assert.Equal(t, "PCAP.ENABLE", WireName(single, 0, f))

	multi, _ := r.Block("TTLIN")
	mf, _ := multi.Field("VAL")
	assert.Equal(t, "TTLIN3.VAL", WireName(multi, 3, mf))
}

func TestAddFieldRejectsDuplicateAndCountMismatch(t *testing.T) {
	r := New()
	b, err := r.AddBlock("BLK", 0, 2)
	require.NoError(t, err)
	require.NoError(t, b.AddField("A", classes.NewParam("A", &types.UintType{}, 0, 0, 2)))
	assert.Error(t, b.AddField("A", classes.NewParam("A", &types.UintType{}, 0, 0, 2)))
	assert.Error(t, b.AddField("B", classes.NewParam("B", &types.UintType{}, 0, 0, 3)))
}
