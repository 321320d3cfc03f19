package persist

import (
	"errors"
	"fmt"

	"github.com/hexworld/hexcore/internal/wire"
	"github.com/klauspost/compress/zstd"
)

// BlobMagic opens every stored chunk.
const BlobMagic = "HXC1"

// BlobVersion is the layout revision written after the magic.
const BlobVersion = 1

const blobHeaderSize = len(BlobMagic) + 1 + 4 + 2 + 4 + 8

// ErrBadBlob is returned for chunk blobs that fail to decompress or whose
// header does not match.
var ErrBadBlob = errors.New("persist: malformed chunk blob")

// BlobHeader precedes the encoded cells of one chunk. Seed is the plane
// seed the cells were generated from.
type BlobHeader struct {
	ChunkIndex int32
	CellSize   uint16
	CellCount  uint32
	Seed       uint64
}

// BlobCodec frames and compresses chunk payloads. Encoders are safe for
// concurrent EncodeAll/DecodeAll use.
type BlobCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func NewBlobCodec() (*BlobCodec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &BlobCodec{enc: enc, dec: dec}, nil
}

func (c *BlobCodec) Close() {
	c.enc.Close()
	c.dec.Close()
}

// Encode frames payload with h and compresses the result.
func (c *BlobCodec) Encode(h BlobHeader, payload []byte) []byte {
	w := wire.NewWriter(blobHeaderSize + len(payload))
	w.WriteBytes([]byte(BlobMagic))
	w.WriteC(BlobVersion)
	w.WriteD(h.ChunkIndex)
	w.WriteH(h.CellSize)
	w.WriteDU(h.CellCount)
	w.WriteQ(h.Seed)
	w.WriteBytes(payload)
	return c.enc.EncodeAll(w.Bytes(), nil)
}

// Decode reverses Encode and checks the payload length against the header.
func (c *BlobCodec) Decode(blob []byte) (BlobHeader, []byte, error) {
	raw, err := c.dec.DecodeAll(blob, nil)
	if err != nil {
		return BlobHeader{}, nil, fmt.Errorf("%w: %v", ErrBadBlob, err)
	}
	r := wire.NewReader(raw)
	if string(r.ReadBytes(len(BlobMagic))) != BlobMagic {
		return BlobHeader{}, nil, fmt.Errorf("%w: bad magic", ErrBadBlob)
	}
	if v := r.ReadC(); v != BlobVersion {
		return BlobHeader{}, nil, fmt.Errorf("%w: version %d", ErrBadBlob, v)
	}
	h := BlobHeader{
		ChunkIndex: r.ReadD(),
		CellSize:   r.ReadH(),
		CellCount:  r.ReadDU(),
		Seed:       r.ReadQ(),
	}
	if r.Short() {
		return BlobHeader{}, nil, fmt.Errorf("%w: truncated header", ErrBadBlob)
	}
	want := int(h.CellSize) * int(h.CellCount)
	if r.Remaining() != want {
		return BlobHeader{}, nil, fmt.Errorf("%w: chunk %d has %d payload bytes, header says %d",
			ErrBadBlob, h.ChunkIndex, r.Remaining(), want)
	}
	return h, r.ReadBytes(want), nil
}
