package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriterReaderFields(t *testing.T) {
	w := NewWriter(16)
	w.WriteBytes([]byte("HXC1"))
	w.WriteC(9)
	w.WriteH(0xbeef)
	w.WriteD(-2)
	w.WriteDU(0xdeadbeef)
	w.WriteQ(1 << 40)
	assert.Equal(t, 4+1+2+4+4+8, w.Len())
	assert.Equal(t, []byte{0xfe, 0xff, 0xff, 0xff}, w.Bytes()[7:11])

	r := NewReader(w.Bytes())
	assert.Equal(t, []byte("HXC1"), r.ReadBytes(4))
	assert.Equal(t, byte(9), r.ReadC())
	assert.Equal(t, uint16(0xbeef), r.ReadH())
	assert.Equal(t, int32(-2), r.ReadD())
	assert.Equal(t, uint32(0xdeadbeef), r.ReadDU())
	assert.Equal(t, uint64(1<<40), r.ReadQ())
	assert.Zero(t, r.Remaining())
	assert.False(t, r.Short())
}

func TestReaderShort(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	assert.Zero(t, r.ReadDU())
	assert.True(t, r.Short())
	assert.Zero(t, r.Remaining())

	r = NewReader([]byte{7, 1, 2})
	assert.Equal(t, byte(7), r.ReadC())
	assert.Zero(t, r.ReadQ())
	assert.True(t, r.Short())
	assert.Nil(t, r.ReadBytes(1))
}
