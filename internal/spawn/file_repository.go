package spawn

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/horde/internal/model"
)

// FileRepository implements SpawnPointRepository over a YAML file.
type FileRepository struct {
	path string
}

// NewFileRepository creates a FileRepository reading path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

type pointFile struct {
	Points []pointYAML `yaml:"spawn_points"`
}

type pointYAML struct {
	ID                int64                  `yaml:"id"`
	Origin            model.Vec3             `yaml:"origin"`
	Shape             string                 `yaml:"shape"`
	Radius            float64                `yaml:"radius"`
	Extent            model.Vec3             `yaml:"extent"`
	MinCount          int                    `yaml:"min_count"`
	MaxCount          int                    `yaml:"max_count"`
	MinPlayerDistance float64                `yaml:"min_player_distance"`
	MaxPlayerDistance float64                `yaml:"max_player_distance"`
	DespawnDistance   float64                `yaml:"despawn_distance"`
	RespawnTime       float64                `yaml:"respawn_time"`
	BlockerTag        string                 `yaml:"blocker_tag"`
	BlockCheckRadius  float64                `yaml:"block_check_radius"`
	Classes           []model.Classification `yaml:"classes"`
}

// LoadAll reads and validates every spawn point in the file.
func (r *FileRepository) LoadAll(_ context.Context) ([]model.SpawnPoint, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("reading spawn file %q: %w", r.path, err)
	}
	return ParsePoints(data)
}

// ParsePoints decodes the spawn point YAML document.
func ParsePoints(data []byte) ([]model.SpawnPoint, error) {
	var f pointFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing spawn points: %w", err)
	}

	points := make([]model.SpawnPoint, 0, len(f.Points))
	for i, py := range f.Points {
		id := py.ID
		if id == 0 {
			id = int64(i + 1) // sequential ID when omitted
		}

		shape, err := model.ParseAreaShape(py.Shape)
		if err != nil {
			return nil, fmt.Errorf("spawn point %d: %w", id, err)
		}

		sp := model.SpawnPoint{
			ID:                id,
			Origin:            py.Origin,
			Shape:             shape,
			Radius:            py.Radius,
			Extent:            py.Extent,
			MinCount:          py.MinCount,
			MaxCount:          py.MaxCount,
			MinPlayerDistance: py.MinPlayerDistance,
			MaxPlayerDistance: py.MaxPlayerDistance,
			DespawnDistance:   py.DespawnDistance,
			RespawnTime:       py.RespawnTime,
			BlockerTag:        py.BlockerTag,
			BlockCheckRadius:  py.BlockCheckRadius,
			Classes:           py.Classes,
		}
		if err := sp.Validate(); err != nil {
			return nil, err
		}
		points = append(points, sp)
	}
	return points, nil
}
