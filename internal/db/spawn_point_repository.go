package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/horde/internal/model"
)

// ErrSpawnPointNotFound is returned by LoadByID for an unknown ID.
var ErrSpawnPointNotFound = errors.New("spawn point not found")

// SpawnPointRepository handles spawn point CRUD operations
type SpawnPointRepository struct {
	pool *pgxpool.Pool
}

// NewSpawnPointRepository creates a new spawn point repository
func NewSpawnPointRepository(pool *pgxpool.Pool) *SpawnPointRepository {
	return &SpawnPointRepository{pool: pool}
}

const spawnPointColumns = `id, origin_x, origin_y, origin_z, shape, radius, extent_x, extent_z,
	min_count, max_count, min_player_distance, max_player_distance, despawn_distance,
	respawn_time, blocker_tag, block_check_radius, classes`

// LoadAll loads all spawn points ordered by ID
func (r *SpawnPointRepository) LoadAll(ctx context.Context) ([]model.SpawnPoint, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+spawnPointColumns+` FROM spawn_points ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("loading all spawn points: %w", err)
	}
	defer rows.Close()

	points := make([]model.SpawnPoint, 0, 16)
	for rows.Next() {
		p, err := scanSpawnPoint(rows)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating spawn point rows: %w", err)
	}

	return points, nil
}

// LoadByID loads spawn point by ID
func (r *SpawnPointRepository) LoadByID(ctx context.Context, id int64) (model.SpawnPoint, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+spawnPointColumns+` FROM spawn_points WHERE id = $1`, id)
	p, err := scanSpawnPoint(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.SpawnPoint{}, fmt.Errorf("loading spawn point %d: %w", id, ErrSpawnPointNotFound)
	}
	if err != nil {
		return model.SpawnPoint{}, err
	}
	return p, nil
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Create inserts a spawn point and returns its generated ID. p.ID is ignored.
func (r *SpawnPointRepository) Create(ctx context.Context, p model.SpawnPoint) (int64, error) {
	return insertSpawnPoint(ctx, r.pool, p)
}

// Import inserts points in one transaction. With replace, existing rows are
// deleted first. Any failure rolls the whole import back.
func (r *SpawnPointRepository) Import(ctx context.Context, points []model.SpawnPoint, replace bool) ([]int64, error) {
	var ids []int64
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		ids, err = r.ImportTx(ctx, tx, points, replace)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ImportTx is Import within an existing transaction.
func (r *SpawnPointRepository) ImportTx(ctx context.Context, tx pgx.Tx, points []model.SpawnPoint, replace bool) ([]int64, error) {
	if replace {
		tag, err := tx.Exec(ctx, `DELETE FROM spawn_points`)
		if err != nil {
			return nil, fmt.Errorf("clearing spawn points: %w", err)
		}
		slog.Info("existing spawn points deleted", "count", tag.RowsAffected())
	}

	ids := make([]int64, 0, len(points))
	for i, p := range points {
		id, err := insertSpawnPoint(ctx, tx, p)
		if err != nil {
			return nil, fmt.Errorf("importing spawn point #%d: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func insertSpawnPoint(ctx context.Context, q querier, p model.SpawnPoint) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	classes := make([]string, len(p.Classes))
	for i, c := range p.Classes {
		classes[i] = c.String()
	}

	var id int64
	err := q.QueryRow(ctx, `
		INSERT INTO spawn_points (origin_x, origin_y, origin_z, shape, radius, extent_x, extent_z,
			min_count, max_count, min_player_distance, max_player_distance, despawn_distance,
			respawn_time, blocker_tag, block_check_radius, classes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id`,
		p.Origin.X, p.Origin.Y, p.Origin.Z, p.Shape.String(), p.Radius, p.Extent.X, p.Extent.Z,
		p.MinCount, p.MaxCount, p.MinPlayerDistance, p.MaxPlayerDistance, p.DespawnDistance,
		p.RespawnTime, p.BlockerTag, p.BlockCheckRadius, classes,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("creating spawn point: %w", err)
	}

	return id, nil
}

// Delete removes a spawn point. Deleting an unknown ID is not an error.
func (r *SpawnPointRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM spawn_points WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting spawn point %d: %w", id, err)
	}
	return nil
}

func scanSpawnPoint(row pgx.Row) (model.SpawnPoint, error) {
	var (
		p       model.SpawnPoint
		shape   string
		classes []string
	)
	err := row.Scan(
		&p.ID, &p.Origin.X, &p.Origin.Y, &p.Origin.Z, &shape, &p.Radius, &p.Extent.X, &p.Extent.Z,
		&p.MinCount, &p.MaxCount, &p.MinPlayerDistance, &p.MaxPlayerDistance, &p.DespawnDistance,
		&p.RespawnTime, &p.BlockerTag, &p.BlockCheckRadius, &classes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("scanning spawn point row: %w", err)
	}

	if p.Shape, err = model.ParseAreaShape(shape); err != nil {
		return p, fmt.Errorf("spawn point %d: %w", p.ID, err)
	}
	for _, name := range classes {
		c, err := model.ParseClassification(name)
		if err != nil {
			return p, fmt.Errorf("spawn point %d: %w", p.ID, err)
		}
		p.Classes = append(p.Classes, c)
	}
	return p, nil
}
