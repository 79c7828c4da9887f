package grove

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// CameraConfig holds the perspective camera and orbit control settings.
type CameraConfig struct {
	FOV      float64    `mapstructure:"fov" yaml:"fov"`
	Near     float64    `mapstructure:"near" yaml:"near"`
	Far      float64    `mapstructure:"far" yaml:"far"`
	Position [3]float64 `mapstructure:"position" yaml:"position"`
	Damping  float64    `mapstructure:"damping" yaml:"damping"`
	// Distance bounds, in world units.
	MinDistance float64 `mapstructure:"minDistance" yaml:"minDistance"`
	MaxDistance float64 `mapstructure:"maxDistance" yaml:"maxDistance"`
	// Polar angle bounds from the +Y axis, in radians.
	MinPolar float64 `mapstructure:"minPolar" yaml:"minPolar"`
	MaxPolar float64 `mapstructure:"maxPolar" yaml:"maxPolar"`
	// FocusSeconds is the easing duration when a selection recenters the
	// orbit. Zero disables recentering.
	FocusSeconds float64 `mapstructure:"focusSeconds" yaml:"focusSeconds"`
}

// DecorationConfig controls tile corner props.
type DecorationConfig struct {
	// CornerFraction places props at ±CornerFraction·tileSize from the tile
	// center.
	CornerFraction float64 `mapstructure:"cornerFraction" yaml:"cornerFraction"`
	// ScaleJitter multiplies each prop's scale by a factor drawn from this
	// range.
	ScaleJitter Range `mapstructure:"scaleJitter" yaml:"scaleJitter"`
}

// MoteConfig controls the night-time light motes.
type MoteConfig struct {
	Count int `mapstructure:"count" yaml:"count"`
	// Spread is the horizontal extent motes are scattered over, starting at
	// -Spread/10.
	Spread float64 `mapstructure:"spread" yaml:"spread"`
}

// Config is the engine configuration. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	Grid        GridSize         `mapstructure:"grid" yaml:"grid"`
	TileSize    float64          `mapstructure:"tileSize" yaml:"tileSize"`
	WeekStart   time.Weekday     `mapstructure:"weekStart" yaml:"weekStart"`
	// Location names the zone both cell mapping and tile dates use.
	// "Local" or empty is the host zone.
	Location    string           `mapstructure:"location" yaml:"location"`
	Camera      CameraConfig     `mapstructure:"camera" yaml:"camera"`
	Decorations DecorationConfig `mapstructure:"decorations" yaml:"decorations"`
	Motes       MoteConfig       `mapstructure:"motes" yaml:"motes"`
	// LabelFormat is a Go time layout for tile date labels.
	LabelFormat        string `mapstructure:"labelFormat" yaml:"labelFormat"`
	MaxConcurrentLoads int    `mapstructure:"maxConcurrentLoads" yaml:"maxConcurrentLoads"`
	// Seed fixes the decoration and mote randomness. Zero picks a random seed
	// per composer.
	Seed          uint64 `mapstructure:"seed" yaml:"seed"`
	ScreenshotDir string `mapstructure:"screenshotDir" yaml:"screenshotDir"`
	Debug         bool   `mapstructure:"debug" yaml:"debug"`
}

// DefaultConfig returns the standard forest layout.
func DefaultConfig() Config {
	return Config{
		Grid:      DefaultGridSize,
		TileSize:  4,
		WeekStart: time.Sunday,
		Location:  "Local",
		Camera: CameraConfig{
			FOV:          60,
			Near:         0.1,
			Far:          800,
			Position:     [3]float64{17, 18, 17},
			Damping:      0.05,
			MinDistance:  10,
			MaxDistance:  50,
			MinPolar:     math.Pi / 4,
			MaxPolar:     math.Pi / 3,
			FocusSeconds: 0.6,
		},
		Decorations: DecorationConfig{
			CornerFraction: 0.35,
			ScaleJitter:    Range{Min: 0.9, Max: 1.1},
		},
		Motes:              MoteConfig{Count: 30, Spread: 25},
		LabelFormat:        "02/01/2006",
		MaxConcurrentLoads: 4,
		ScreenshotDir:      "screenshots",
	}
}

// MapOptions derives the mapper options.
func (c Config) MapOptions() MapOptions {
	return MapOptions{WeekStart: c.WeekStart, Location: c.Zone()}
}

// Zone resolves Location. A name that does not load falls back to the host
// zone; Validate reports it.
func (c Config) Zone() *time.Location {
	loc, err := loadZone(c.Location)
	if err != nil {
		return time.Local
	}
	return loc
}

func loadZone(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if err := c.Grid.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.TileSize <= 0 {
		errs = append(errs, fmt.Errorf("tileSize must be positive, got %v", c.TileSize))
	}
	if c.WeekStart < time.Sunday || c.WeekStart > time.Saturday {
		errs = append(errs, fmt.Errorf("weekStart out of range: %d", c.WeekStart))
	}
	if _, err := loadZone(c.Location); err != nil {
		errs = append(errs, fmt.Errorf("location: %w", err))
	}
	cam := c.Camera
	if cam.FOV <= 0 || cam.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera fov out of range: %v", cam.FOV))
	}
	if cam.Near <= 0 || cam.Far <= cam.Near {
		errs = append(errs, fmt.Errorf("camera depth range invalid: near %v far %v", cam.Near, cam.Far))
	}
	if cam.MinDistance > cam.MaxDistance {
		errs = append(errs, fmt.Errorf("camera minDistance %v exceeds maxDistance %v", cam.MinDistance, cam.MaxDistance))
	}
	if cam.MinPolar > cam.MaxPolar {
		errs = append(errs, fmt.Errorf("camera minPolar %v exceeds maxPolar %v", cam.MinPolar, cam.MaxPolar))
	}
	if cam.Damping <= 0 || cam.Damping > 1 {
		errs = append(errs, fmt.Errorf("camera damping must be in (0, 1], got %v", cam.Damping))
	}
	if j := c.Decorations.ScaleJitter; j.Min <= 0 || j.Max < j.Min {
		errs = append(errs, fmt.Errorf("decoration scaleJitter invalid: %v", j))
	}
	if c.Motes.Count < 0 {
		errs = append(errs, errors.New("motes count must not be negative"))
	}
	if c.LabelFormat == "" {
		errs = append(errs, errors.New("labelFormat must not be empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
