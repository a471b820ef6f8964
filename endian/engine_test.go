package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEngines(t *testing.T) {
	require.Equal(t, binary.BigEndian, GetBigEndianEngine())
	require.Equal(t, binary.LittleEndian, GetLittleEndianEngine())
	require.Equal(t, GetBigEndianEngine(), Network())
}

func TestNetworkOrder(t *testing.T) {
	engine := Network()

	buf := engine.AppendUint32(nil, 0x01020304)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, buf)
	require.Equal(t, uint32(0x01020304), engine.Uint32(buf))

	buf = engine.AppendUint16(buf[:0], 0xFF4A)
	require.Equal(t, []byte{0xFF, 0x4A}, buf)

	le := GetLittleEndianEngine()
	require.Equal(t, uint16(0x4AFF), le.Uint16(buf))
}
