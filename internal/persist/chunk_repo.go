package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrPlaneNotFound is returned when a plane has never been saved.
var ErrPlaneNotFound = errors.New("persist: plane not found")

// PlaneMeta is one row of the planes table.
type PlaneMeta struct {
	WorldID   uuid.UUID
	PlaneID   int16
	Name      string
	Seed      uint64
	ChunkSize int32
	ChunksX   int32
	ChunksY   int32
	CellSize  int16
	Digest    [32]byte
	UpdatedAt time.Time
}

// ChunkRepo stores planes and their compressed chunk blobs in PostgreSQL.
type ChunkRepo struct {
	db *DB
}

func NewChunkRepo(db *DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// SavePlane upserts the plane row and the given chunks in one transaction.
// Chunks not in blobs are left as stored.
func (r *ChunkRepo) SavePlane(ctx context.Context, meta PlaneMeta, blobs map[int32][]byte) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("save plane begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO planes (world_id, plane_id, name, seed, chunk_size, chunks_x, chunks_y, cell_size, digest, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		 ON CONFLICT (world_id, plane_id) DO UPDATE SET
		   name = EXCLUDED.name, seed = EXCLUDED.seed, chunk_size = EXCLUDED.chunk_size,
		   chunks_x = EXCLUDED.chunks_x, chunks_y = EXCLUDED.chunks_y, cell_size = EXCLUDED.cell_size,
		   digest = EXCLUDED.digest, updated_at = now()`,
		meta.WorldID, meta.PlaneID, meta.Name, int64(meta.Seed),
		meta.ChunkSize, meta.ChunksX, meta.ChunksY, meta.CellSize, meta.Digest[:],
	); err != nil {
		return fmt.Errorf("save plane %d: %w", meta.PlaneID, err)
	}

	for idx, data := range blobs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO plane_chunks (world_id, plane_id, chunk_index, data)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (world_id, plane_id, chunk_index) DO UPDATE SET data = EXCLUDED.data`,
			meta.WorldID, meta.PlaneID, idx, data,
		); err != nil {
			return fmt.Errorf("save plane %d chunk %d: %w", meta.PlaneID, idx, err)
		}
	}

	return tx.Commit(ctx)
}

// LoadPlane returns the plane row and every stored chunk blob.
func (r *ChunkRepo) LoadPlane(ctx context.Context, worldID uuid.UUID, planeID int16) (PlaneMeta, map[int32][]byte, error) {
	meta := PlaneMeta{WorldID: worldID, PlaneID: planeID}
	var seed int64
	var digest []byte
	err := r.db.Pool.QueryRow(ctx,
		`SELECT name, seed, chunk_size, chunks_x, chunks_y, cell_size, digest, updated_at
		 FROM planes WHERE world_id = $1 AND plane_id = $2`, worldID, planeID,
	).Scan(&meta.Name, &seed, &meta.ChunkSize, &meta.ChunksX, &meta.ChunksY, &meta.CellSize, &digest, &meta.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return PlaneMeta{}, nil, fmt.Errorf("plane %d: %w", planeID, ErrPlaneNotFound)
	}
	if err != nil {
		return PlaneMeta{}, nil, fmt.Errorf("load plane %d: %w", planeID, err)
	}
	meta.Seed = uint64(seed)
	copy(meta.Digest[:], digest)

	rows, err := r.db.Pool.Query(ctx,
		`SELECT chunk_index, data FROM plane_chunks WHERE world_id = $1 AND plane_id = $2`, worldID, planeID,
	)
	if err != nil {
		return PlaneMeta{}, nil, fmt.Errorf("load plane %d chunks: %w", planeID, err)
	}
	defer rows.Close()

	blobs := make(map[int32][]byte)
	for rows.Next() {
		var idx int32
		var data []byte
		if err := rows.Scan(&idx, &data); err != nil {
			return PlaneMeta{}, nil, err
		}
		blobs[idx] = data
	}
	return meta, blobs, rows.Err()
}

// ListPlanes returns the stored planes of a world by ID.
func (r *ChunkRepo) ListPlanes(ctx context.Context, worldID uuid.UUID) ([]PlaneMeta, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT plane_id, name, seed, chunk_size, chunks_x, chunks_y, cell_size, digest, updated_at
		 FROM planes WHERE world_id = $1 ORDER BY plane_id`, worldID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []PlaneMeta
	for rows.Next() {
		m := PlaneMeta{WorldID: worldID}
		var seed int64
		var digest []byte
		if err := rows.Scan(&m.PlaneID, &m.Name, &seed, &m.ChunkSize, &m.ChunksX, &m.ChunksY,
			&m.CellSize, &digest, &m.UpdatedAt); err != nil {
			return nil, err
		}
		m.Seed = uint64(seed)
		copy(m.Digest[:], digest)
		result = append(result, m)
	}
	return result, rows.Err()
}
