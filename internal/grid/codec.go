package grid

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// ErrChunkSize is returned when an encoded chunk does not match the map's
// chunk geometry or the codec's record size.
var ErrChunkSize = errors.New("grid: encoded chunk size mismatch")

// Codec fixes the byte layout of one cell record. Size must be constant.
type Codec[T any] interface {
	Size() int
	Encode(dst []byte, cell *T)
	Decode(src []byte, cell *T)
}

// EncodeChunk serializes a chunk's cells back to back.
func (m *ChunkMap[T]) EncodeChunk(index int32, codec Codec[T]) []byte {
	ch := m.Chunk(index)
	size := codec.Size()
	out := make([]byte, size*len(ch.Cells))
	for i := range ch.Cells {
		codec.Encode(out[i*size:(i+1)*size], &ch.Cells[i])
	}
	return out
}

// DecodeChunk overwrites a chunk from bytes produced by EncodeChunk.
func (m *ChunkMap[T]) DecodeChunk(index int32, data []byte, codec Codec[T]) error {
	if index < 0 || int(index) >= len(m.chunks) {
		return fmt.Errorf("decode chunk %d: %w", index, ErrChunkSize)
	}
	size := codec.Size()
	ch := &m.chunks[index]
	if len(data) != size*len(ch.Cells) {
		return fmt.Errorf("decode chunk %d: got %d bytes want %d: %w", index, len(data), size*len(ch.Cells), ErrChunkSize)
	}
	for i := range ch.Cells {
		codec.Decode(data[i*size:(i+1)*size], &ch.Cells[i])
	}
	return nil
}

// Digest fingerprints the whole map through codec. Identical maps give
// identical digests regardless of how they were produced.
func (m *ChunkMap[T]) Digest(codec Codec[T]) [32]byte {
	h, _ := blake2b.New256(nil)
	var hdr [12]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(m.chunkSize))
	binary.LittleEndian.PutUint32(hdr[4:], uint32(m.chunksX))
	binary.LittleEndian.PutUint32(hdr[8:], uint32(m.chunksY))
	h.Write(hdr[:])
	for i := range m.chunks {
		h.Write(m.EncodeChunk(int32(i), codec))
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
