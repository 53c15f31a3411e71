package spawn

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/horde/internal/ai"
	"github.com/udisondev/horde/internal/model"
)

// SpawnAt places one agent by hand, outside any spawn point. The agent still
// counts against the population cap and is removed through the usual path.
// Used by the debug HUD.
func (m *Manager) SpawnAt(pos model.Vec3, class model.Classification) (*ai.Zombie, error) {
	p, ok := m.surface.SampleValidPosition(pos, m.cfg.SurfaceTolerance)
	if !ok {
		return nil, fmt.Errorf("no navigation surface near %v", pos)
	}

	z, err := m.spawn(nil, p, class)
	if err != nil {
		return nil, err
	}

	slog.Info("agent spawned manually",
		"agent", z.Handle(),
		"class", class,
		"position", p)
	return z, nil
}
