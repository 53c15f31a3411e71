package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/horde/internal/model"
)

// Agent holds per-zombie tunables. Distances are world units, times are seconds.
type Agent struct {
	// Perception
	SightRange   float64 `yaml:"sight_range"`
	SightAngle   float64 `yaml:"sight_angle"` // full cone, degrees
	HearingRange float64 `yaml:"hearing_range"`
	EyeHeight    float64 `yaml:"eye_height"`
	HostileTag   string  `yaml:"hostile_tag"`

	// Combat
	AttackRange        float64 `yaml:"attack_range"`
	AttackDamage       float64 `yaml:"attack_damage"`
	AttackCooldown     float64 `yaml:"attack_cooldown"`
	InitialAttackDelay float64 `yaml:"initial_attack_delay"`

	// Chase
	LoseInterestDistance float64 `yaml:"lose_interest_distance"`
	LoseInterestTime     float64 `yaml:"lose_interest_time"`

	// Timers
	IdleMin        float64 `yaml:"idle_min"`
	IdleMax        float64 `yaml:"idle_max"`
	AlertDuration  float64 `yaml:"alert_duration"`
	WanderRadius   float64 `yaml:"wander_radius"`
	WanderWait     float64 `yaml:"wander_wait"`
	WanderJitter   float64 `yaml:"wander_jitter"`
	AmbientMin     float64 `yaml:"ambient_min"`
	AmbientMax     float64 `yaml:"ambient_max"`
	CorpseLifetime float64 `yaml:"corpse_lifetime"`

	// Health
	MaxHealth          float64 `yaml:"max_health"`
	HeadshotMultiplier float64 `yaml:"headshot_multiplier"`
	BodyshotMultiplier float64 `yaml:"bodyshot_multiplier"`
	LimbshotMultiplier float64 `yaml:"limbshot_multiplier"`
}

// Alert holds gunshot broadcast tunables.
type Alert struct {
	GunshotRange       float64 `yaml:"gunshot_range"`
	SilencedMultiplier float64 `yaml:"silenced_multiplier"`
}

// Population holds global spawn throttling.
type Population struct {
	MaxAgents         int           `yaml:"max_agents"`
	InitialSpawnDelay time.Duration `yaml:"initial_spawn_delay"`
	PlacementRetries  int           `yaml:"placement_retries"`
	SurfaceTolerance  float64       `yaml:"surface_tolerance"`
}

// Level describes the occupancy grid the headless host simulates on.
type Level struct {
	Rows        []string   `yaml:"rows"`
	CellSize    float64    `yaml:"cell_size"`
	Origin      model.Vec3 `yaml:"origin"`
	PlayerStart model.Vec3 `yaml:"player_start"`
	PlayerTag   string     `yaml:"player_tag"`
}

// HUD configures the websocket debug view.
type HUD struct {
	Enabled  bool          `yaml:"enabled"`
	Address  string        `yaml:"address"`
	Interval time.Duration `yaml:"interval"`
}

// Spawn source values.
const (
	SpawnSourceFile     = "file"
	SpawnSourceDatabase = "database"
)

// Simulation holds all configuration for the horde simulation host.
type Simulation struct {
	LogLevel     string        `yaml:"log_level"`
	TickInterval time.Duration `yaml:"tick_interval"`
	Seed         uint64        `yaml:"seed"` // 0 = random

	SpawnSource string         `yaml:"spawn_source"`
	SpawnFile   string         `yaml:"spawn_file"`
	Database    DatabaseConfig `yaml:"database"`

	Population Population                            `yaml:"population"`
	Alert      Alert                                 `yaml:"alert"`
	Agent      Agent                                 `yaml:"agent"`
	Classes    map[model.Classification]model.Speeds `yaml:"classes"`
	Level      Level                                 `yaml:"level"`
	HUD        HUD                                   `yaml:"hud"`
}

// DefaultAgent returns Agent tunables with sensible defaults.
func DefaultAgent() Agent {
	return Agent{
		SightRange:           20,
		SightAngle:           120,
		HearingRange:         15,
		EyeHeight:            1.6,
		HostileTag:           "player",
		AttackRange:          1.5,
		AttackDamage:         10,
		AttackCooldown:       1.5,
		InitialAttackDelay:   0.5,
		LoseInterestDistance: 30,
		LoseInterestTime:     5,
		IdleMin:              2,
		IdleMax:              5,
		AlertDuration:        8,
		WanderRadius:         10,
		WanderWait:           4,
		WanderJitter:         2,
		AmbientMin:           5,
		AmbientMax:           15,
		CorpseLifetime:       10,
		MaxHealth:            100,
		HeadshotMultiplier:   3,
		BodyshotMultiplier:   1,
		LimbshotMultiplier:   0.5,
	}
}

// DefaultClasses returns walk/run speeds per classification.
func DefaultClasses() map[model.Classification]model.Speeds {
	return map[model.Classification]model.Speeds{
		model.Walker:  {Walk: 1, Run: 3.5},
		model.Runner:  {Walk: 1.5, Run: 6},
		model.Crawler: {Walk: 0.5, Run: 1.2},
	}
}

// DefaultSimulation returns Simulation config with sensible defaults.
func DefaultSimulation() Simulation {
	return Simulation{
		LogLevel:     "info",
		TickInterval: 100 * time.Millisecond,
		SpawnSource:  SpawnSourceFile,
		SpawnFile:    "config/spawns.yaml",
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "horde",
			Password: "horde",
			DBName:   "horde",
			SSLMode:  "disable",

			MaxConns:       4,
			ConnectTimeout: 5 * time.Second,
		},
		Population: Population{
			MaxAgents:         100,
			InitialSpawnDelay: 2 * time.Second,
			PlacementRetries:  10,
			SurfaceTolerance:  1,
		},
		Alert: Alert{
			GunshotRange:       50,
			SilencedMultiplier: 0.3,
		},
		Agent:   DefaultAgent(),
		Classes: DefaultClasses(),
		Level: Level{
			CellSize:    1,
			PlayerStart: model.V(0, 0, 0),
			PlayerTag:   "player",
		},
		HUD: HUD{
			Address:  "127.0.0.1:8088",
			Interval: 250 * time.Millisecond,
		},
	}
}

// Speeds returns the walk/run pair for c, falling back to the default table.
func (s Simulation) Speeds(c model.Classification) model.Speeds {
	if sp, ok := s.Classes[c]; ok {
		return sp
	}
	return DefaultClasses()[c]
}

// Validate rejects nonsensical tunables.
func (s Simulation) Validate() error {
	var errs []error
	a := s.Agent

	if s.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick_interval must be positive, got %s", s.TickInterval))
	}
	if s.SpawnSource != SpawnSourceFile && s.SpawnSource != SpawnSourceDatabase {
		errs = append(errs, fmt.Errorf("spawn_source must be %q or %q, got %q", SpawnSourceFile, SpawnSourceDatabase, s.SpawnSource))
	}
	if s.SpawnSource == SpawnSourceDatabase {
		if err := s.Database.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.Population.MaxAgents < 0 {
		errs = append(errs, fmt.Errorf("population.max_agents must not be negative"))
	}
	if s.Alert.GunshotRange < 0 || s.Alert.SilencedMultiplier < 0 {
		errs = append(errs, fmt.Errorf("alert ranges must not be negative"))
	}
	if a.SightRange < 0 || a.HearingRange < 0 || a.AttackRange <= 0 {
		errs = append(errs, fmt.Errorf("agent ranges invalid (sight %g, hearing %g, attack %g)", a.SightRange, a.HearingRange, a.AttackRange))
	}
	if a.SightAngle <= 0 || a.SightAngle > 360 {
		errs = append(errs, fmt.Errorf("agent.sight_angle must be in (0,360], got %g", a.SightAngle))
	}
	if a.IdleMin < 0 || a.IdleMax < a.IdleMin {
		errs = append(errs, fmt.Errorf("agent idle range [%g,%g] invalid", a.IdleMin, a.IdleMax))
	}
	if a.AmbientMin < 0 || a.AmbientMax < a.AmbientMin {
		errs = append(errs, fmt.Errorf("agent ambient range [%g,%g] invalid", a.AmbientMin, a.AmbientMax))
	}
	if a.MaxHealth <= 0 {
		errs = append(errs, fmt.Errorf("agent.max_health must be positive"))
	}
	if a.HeadshotMultiplier < 0 || a.BodyshotMultiplier < 0 || a.LimbshotMultiplier < 0 {
		errs = append(errs, fmt.Errorf("agent hit multipliers must not be negative (head %g, body %g, limb %g)",
			a.HeadshotMultiplier, a.BodyshotMultiplier, a.LimbshotMultiplier))
	}
	if a.LoseInterestDistance < a.AttackRange {
		errs = append(errs, fmt.Errorf("agent.lose_interest_distance %g below attack range %g", a.LoseInterestDistance, a.AttackRange))
	}
	for c, sp := range s.Classes {
		if sp.Walk < 0 || sp.Run < sp.Walk {
			errs = append(errs, fmt.Errorf("classes.%s speeds walk=%g run=%g invalid", c, sp.Walk, sp.Run))
		}
	}

	return errors.Join(errs...)
}

// LoadSimulation loads simulation config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSimulation(path string) (Simulation, error) {
	cfg := DefaultSimulation()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}
