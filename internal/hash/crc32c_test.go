package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC32C(t *testing.T) {
	// RFC 3720 test vector
	assert.Equal(t, uint32(0xE3069283), CRC32C([]byte("123456789")))

	crc := UpdateCRC32C(0, []byte("1234"))
	crc = UpdateCRC32C(crc, []byte("56789"))
	assert.Equal(t, CRC32C([]byte("123456789")), crc)

	h := NewCRC32C()
	_, _ = h.Write([]byte("123456789"))
	assert.Equal(t, CRC32C([]byte("123456789")), h.Sum32())
}
