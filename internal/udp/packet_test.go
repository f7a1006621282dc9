package udp

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/signal"
)

func TestSamplePacketRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	batch := signal.Batch{
		Kind:     signal.KindECG,
		DeviceID: "H10-8C2B1D",
		Seq:      42,
		Values:   []int{1510, 1523, 1498},
		At:       at,
	}
	want := NewSamplePacket(batch, "sub001")

	wire, err := Encode(want)
	require.NoError(t, err)

	got, err := Decode(wire)
	require.NoError(t, err)

	sp, ok := got.(SamplePacket)
	require.True(t, ok, "decoded %T, want SamplePacket", got)
	assert.Equal(t, want, sp)

	kind, err := sp.Kind()
	require.NoError(t, err)
	assert.Equal(t, signal.KindECG, kind)
	assert.Equal(t, uint64(42), sp.Seq)
	assert.Equal(t, at.UnixMilli(), sp.Timestamp)
}

func TestMarkerPacketRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 14, 10, 31, 1, 0, time.UTC)
	want := NewMarkerPacket("sub001", "baseline start", 61*time.Second, at)

	wire, err := Encode(want)
	require.NoError(t, err)

	got, err := Decode(wire)
	require.NoError(t, err)

	mp, ok := got.(MarkerPacket)
	require.True(t, ok, "decoded %T, want MarkerPacket", got)
	assert.Equal(t, want, mp)
	assert.Equal(t, int64(61000), mp.OffsetMS)
}

func TestLifecyclePacketRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	want := NewLifecyclePacket(EventStart, "b6f1c9e0", "sub001", at)

	wire, err := Encode(want)
	require.NoError(t, err)

	got, err := Decode(wire)
	require.NoError(t, err)

	lp, ok := got.(LifecyclePacket)
	require.True(t, ok, "decoded %T, want LifecyclePacket", got)
	assert.Equal(t, want, lp)
}

func TestWireUsesShortTags(t *testing.T) {
	batch := signal.Batch{Kind: signal.KindHR, DeviceID: "OH1-D4E5F6", Seq: 1, Values: []int{74}, At: time.Now()}
	wire, err := Encode(NewSamplePacket(batch, "sub001"))
	require.NoError(t, err)

	s := string(wire)
	for _, tag := range []string{`"t":"hr"`, `"id":`, `"sub":`, `"sq":`, `"ts":`, `"v":`} {
		assert.Contains(t, s, tag)
	}
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := Decode([]byte(`{"t":"bogus"}`))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "bogus"))
}

func TestDecodeInvalidJSON(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	require.Error(t, err)
}

func TestDecodeEverySampleKind(t *testing.T) {
	for _, k := range signal.Kinds {
		batch := signal.Batch{Kind: k, DeviceID: "dev", Seq: 1, Values: []int{1}, At: time.Now()}
		wire, err := Encode(NewSamplePacket(batch, ""))
		require.NoError(t, err, "kind %s", k)

		got, err := Decode(wire)
		require.NoError(t, err, "kind %s", k)
		_, ok := got.(SamplePacket)
		assert.True(t, ok, "kind %s decoded as %T", k, got)
	}
}
