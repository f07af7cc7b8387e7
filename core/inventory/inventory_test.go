package inventory_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shaper-sync/core/inventory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(name, ip string) *inventory.Record {
	return &inventory.Record{
		CircuitID:   "C" + name,
		CircuitName: name,
		DeviceID:    "D" + name,
		DeviceName:  name,
		IPv4:        ip,
	}
}

func TestInventory_OrderAndDelete(t *testing.T) {
	inv := inventory.New()
	inv.Put(rec("a", "10.0.0.1"))
	inv.Put(rec("b", "10.0.0.2"))
	inv.Put(rec("c", "10.0.0.3"))
	inv.Put(rec("a", "10.0.0.9"))

	assert.Equal(t, []string{"a", "b", "c"}, inv.Keys())
	r, ok := inv.Get("a")
	require.True(t, ok)
	assert.Equal(t, "10.0.0.9", r.IPv4)

	assert.True(t, inv.Delete("b"))
	assert.False(t, inv.Delete("b"))
	assert.Equal(t, []string{"a", "c"}, inv.Keys())
	assert.Equal(t, 2, inv.Len())
	assert.True(t, inv.HasID("Cc"))
	assert.True(t, inv.HasID("Da"))
	assert.False(t, inv.HasID("Cb"))
}

func TestHasConflict(t *testing.T) {
	inv := inventory.New()
	inv.Put(rec("bob", "10.0.0.9"))
	inv.Put(rec("carol", ""))

	assert.True(t, inv.HasConflict("10.0.0.9", "HS-AABBCCDDEEFF"))
	assert.False(t, inv.HasConflict("10.0.0.9", "bob"))
	assert.False(t, inv.HasConflict("10.0.0.10", "HS-AABBCCDDEEFF"))
	assert.False(t, inv.HasConflict("", "anyone"))

	owner, ok := inv.AddressOwner("10.0.0.9", "")
	assert.True(t, ok)
	assert.Equal(t, "bob", owner)
}

func TestRecord_IsStatic(t *testing.T) {
	for _, c := range []string{"static", "Static", "STATIC", " static "} {
		assert.True(t, (&inventory.Record{Comment: c}).IsStatic(), c)
	}
	for _, c := range []string{"", "PPP", "static-ish", "not static"} {
		assert.False(t, (&inventory.Record{Comment: c}).IsStatic(), c)
	}
}

func TestRecord_Diff(t *testing.T) {
	a := rec("a", "10.0.0.1")
	b := *a
	assert.Empty(t, a.Diff(&b))

	b.IPv4 = "10.0.0.2"
	b.DownloadMaxMbps = 23
	assert.Equal(t, []string{
		"ipv4: old=10.0.0.1 new=10.0.0.2",
		"download_max_mbps: old=0 new=23",
	}, a.Diff(&b))
}

func TestDecodeEncode(t *testing.T) {
	input := "Circuit ID,Circuit Name,Device ID,Device Name,Parent Node,MAC,IPv4,IPv6,Download Min Mbps,Upload Min Mbps,Download Max Mbps,Upload Max Mbps,Comment\n" +
		"AB12CD34,alice,EF56GH78,alice,PPP-router1,,10.0.0.5,,11,2,23,5,PPP\n" +
		"ZZ,static-box,YY,static-box,HS-router1,AA:BB:CC:DD:EE:FF,10.0.0.7,,2.5,2,10,10,Static\n"

	inv, err := inventory.Decode(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, []string{"alice", "static-box"}, inv.Keys())

	alice, _ := inv.Get("alice")
	assert.Equal(t, "AB12CD34", alice.CircuitID)
	assert.Equal(t, 23, alice.DownloadMaxMbps)
	box, _ := inv.Get("static-box")
	assert.Equal(t, 2, box.DownloadMinMbps)
	assert.True(t, box.IsStatic())

	var buf bytes.Buffer
	require.NoError(t, inventory.Encode(&buf, inv))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(inventory.Columns, ","), lines[0])
	assert.Equal(t, "AB12CD34,alice,EF56GH78,alice,PPP-router1,,10.0.0.5,,11,2,23,5,PPP", lines[1])
}

func TestDecode_ColumnsByName(t *testing.T) {
	input := "Circuit Name,IPv4,Circuit ID\nbob,10.0.0.9,X1\n,10.0.0.10,X2\n"
	inv, err := inventory.Decode(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, inv.Keys())

	_, err = inventory.Decode(strings.NewReader("Name,IPv4\nbob,1.1.1.1\n"))
	assert.Error(t, err)

	empty, err := inventory.Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, empty.Len())
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ShapedDevices.csv")

	inv, err := inventory.Load(path)
	require.NoError(t, err)
	assert.Zero(t, inv.Len())

	inv.Put(rec("a", "10.0.0.1"))
	inv.Put(rec("b", "10.0.0.2"))
	require.NoError(t, inventory.Save(path, inv))

	loaded, err := inventory.Load(path)
	require.NoError(t, err)
	assert.Equal(t, inv.Keys(), loaded.Keys())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestSave_UnwritableDir(t *testing.T) {
	err := inventory.Save(filepath.Join(t.TempDir(), "missing", "ShapedDevices.csv"), inventory.New())
	assert.Error(t, err)
}
