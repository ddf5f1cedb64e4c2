package bullq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONEncoder_KeyInfoRoundtrip(t *testing.T) {
	enc := &JSONEncoder{}
	in := []KeyInfo{
		{Resource: ResourceWait, Key: "bull:orders:wait", Type: "list"},
		{Resource: ResourceQueue, Key: "bull:orders:", Type: "hash"},
	}
	data, err := enc.Encode(in)
	require.NoError(t, err, "encode should not error")
	assert.JSONEq(t, `[{"resource":"wait","key":"bull:orders:wait","type":"list"},{"resource":"","key":"bull:orders:","type":"hash"}]`, string(data))

	var out []KeyInfo
	require.NoError(t, enc.Decode(data, &out), "decode should not error")
	assert.Equal(t, in, out, "roundtrip mismatch")
}

func TestJSONEncoder_DecodeError(t *testing.T) {
	enc := &JSONEncoder{}
	var out struct{ A int }
	err := enc.Decode([]byte("{"), &out)
	require.Error(t, err, "expected error for invalid JSON")
}
