package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hexworld/hexcore/internal/terrain"
	"go.uber.org/zap"
)

// ErrDigestMismatch is returned when a loaded plane does not hash to the
// digest stored with it.
var ErrDigestMismatch = errors.New("persist: plane digest mismatch")

// worldNamespace scopes world IDs derived from names.
var worldNamespace = uuid.MustParse("6f1c7f0e-3b0a-5d8e-9a41-2f5c0e7d9b13")

// WorldID derives a stable world ID from its configured name.
func WorldID(name string) uuid.UUID {
	return uuid.NewSHA1(worldNamespace, []byte(name))
}

// PlaneRepo is the storage PlaneStore needs. *ChunkRepo satisfies it.
type PlaneRepo interface {
	SavePlane(ctx context.Context, meta PlaneMeta, blobs map[int32][]byte) error
	LoadPlane(ctx context.Context, worldID uuid.UUID, planeID int16) (PlaneMeta, map[int32][]byte, error)
	ListPlanes(ctx context.Context, worldID uuid.UUID) ([]PlaneMeta, error)
}

// PlaneStore saves and restores terrain maps chunk by chunk.
type PlaneStore struct {
	repo  PlaneRepo
	codec *BlobCodec
	log   *zap.Logger
}

func NewPlaneStore(repo PlaneRepo, codec *BlobCodec, log *zap.Logger) *PlaneStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &PlaneStore{repo: repo, codec: codec, log: log}
}

// PlaneRef names a plane to save.
type PlaneRef struct {
	WorldID uuid.UUID
	PlaneID int16
	Name    string
	Seed    uint64
}

// Save writes the dirty chunks of m and clears the dirty set on success. It
// returns the number of chunks written.
func (s *PlaneStore) Save(ctx context.Context, ref PlaneRef, m *terrain.Map) (int, error) {
	dirty := m.DirtyChunks()
	blobs := make(map[int32][]byte, len(dirty))
	for _, idx := range dirty {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		blobs[idx] = s.codec.Encode(BlobHeader{
			ChunkIndex: idx,
			CellSize:   terrain.CellSize,
			CellCount:  uint32(m.CellsPerChunk()),
			Seed:       ref.Seed,
		}, m.EncodeChunk(idx, terrain.CellCodec{}))
	}

	meta := PlaneMeta{
		WorldID:   ref.WorldID,
		PlaneID:   ref.PlaneID,
		Name:      ref.Name,
		Seed:      ref.Seed,
		ChunkSize: m.ChunkSize(),
		ChunksX:   m.ChunksX(),
		ChunksY:   m.ChunksY(),
		CellSize:  terrain.CellSize,
		Digest:    m.Digest(),
	}
	if err := s.repo.SavePlane(ctx, meta, blobs); err != nil {
		return 0, err
	}
	m.ClearDirty()
	s.log.Info("plane saved",
		zap.Stringer("world", ref.WorldID),
		zap.Int16("plane", ref.PlaneID),
		zap.Int("chunks", len(blobs)),
	)
	return len(blobs), nil
}

// Stored lists the planes saved for a world, by plane ID.
func (s *PlaneStore) Stored(ctx context.Context, worldID uuid.UUID) ([]PlaneMeta, error) {
	return s.repo.ListPlanes(ctx, worldID)
}

// Load rebuilds a plane and verifies it against the stored digest.
func (s *PlaneStore) Load(ctx context.Context, worldID uuid.UUID, planeID int16) (*terrain.Map, PlaneMeta, error) {
	meta, blobs, err := s.repo.LoadPlane(ctx, worldID, planeID)
	if err != nil {
		return nil, PlaneMeta{}, err
	}
	if meta.CellSize != terrain.CellSize {
		return nil, PlaneMeta{}, fmt.Errorf("plane %d: cell size %d, want %d: %w",
			planeID, meta.CellSize, terrain.CellSize, ErrBadBlob)
	}
	m := terrain.NewMap(meta.ChunkSize, meta.ChunksX, meta.ChunksY)
	for idx, blob := range blobs {
		h, payload, err := s.codec.Decode(blob)
		if err != nil {
			return nil, PlaneMeta{}, fmt.Errorf("plane %d chunk %d: %w", planeID, idx, err)
		}
		if h.ChunkIndex != idx {
			return nil, PlaneMeta{}, fmt.Errorf("plane %d chunk %d: header says %d: %w", planeID, idx, h.ChunkIndex, ErrBadBlob)
		}
		if h.Seed != meta.Seed {
			return nil, PlaneMeta{}, fmt.Errorf("plane %d chunk %d: seed %d, plane seed %d: %w",
				planeID, idx, h.Seed, meta.Seed, ErrBadBlob)
		}
		if err := m.DecodeChunk(idx, payload, terrain.CellCodec{}); err != nil {
			return nil, PlaneMeta{}, fmt.Errorf("plane %d: %w", planeID, err)
		}
	}
	if m.Digest() != meta.Digest {
		return nil, PlaneMeta{}, fmt.Errorf("plane %d: %w", planeID, ErrDigestMismatch)
	}
	s.log.Info("plane loaded", zap.Int16("plane", planeID), zap.Int("chunks", len(blobs)))
	return m, meta, nil
}
