package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lowaak/tempo-master/internal/session"
	"github.com/lowaak/tempo-master/internal/workouts"
)

// Start modes selectable with --mode
const (
	ModeMenu     = "menu"
	ModeFree     = "free"
	ModeTimed    = "timed"
	ModeInterval = "interval"
)

// Metronome display styles
const (
	StyleBall  = "ball"
	StylePedal = "pedal"
)

const envPrefix = "TEMPO"

// Config holds all configuration for the application.
// Values come from defaults, an optional YAML file, TEMPO_* environment
// variables and command-line flags, in increasing priority.
type Config struct {
	Ride     RideConfig     `mapstructure:"ride"`
	Setup    SetupConfig    `mapstructure:"setup"`
	Interval IntervalConfig `mapstructure:"interval"`
	Display  DisplayConfig  `mapstructure:"display"`
	Log      LogConfig      `mapstructure:"log"`
	Workouts WorkoutsConfig `mapstructure:"workouts"`
	Start    StartConfig    `mapstructure:"start"`
}

// RideConfig configures free and timed rides
type RideConfig struct {
	DefaultCadence int           `mapstructure:"default_cadence"`
	DefaultMinutes int           `mapstructure:"default_minutes"`
	CadenceMin     int           `mapstructure:"cadence_min"`
	CadenceMax     int           `mapstructure:"cadence_max"`
	CadenceStep    int           `mapstructure:"cadence_step"` // Live +/- adjustment
	TickInterval   time.Duration `mapstructure:"tick_interval"`
}

// SetupConfig bounds values a rider may configure before starting
type SetupConfig struct {
	CadenceMin  int           `mapstructure:"cadence_min"`
	CadenceMax  int           `mapstructure:"cadence_max"`
	CadenceStep int           `mapstructure:"cadence_step"`
	WorkMax     time.Duration `mapstructure:"work_max"`
	RestMax     time.Duration `mapstructure:"rest_max"`
	RoundsMax   int           `mapstructure:"rounds_max"`
	RideMax     time.Duration `mapstructure:"ride_max"`
}

// IntervalConfig is the default custom interval workout
type IntervalConfig struct {
	WorkCadence int           `mapstructure:"work_cadence"`
	Work        time.Duration `mapstructure:"work"`
	RestCadence int           `mapstructure:"rest_cadence"`
	Rest        time.Duration `mapstructure:"rest"`
	Rounds      int           `mapstructure:"rounds"`
}

// DisplayConfig configures the metronome display
type DisplayConfig struct {
	FrameRate int    `mapstructure:"frame_rate"`
	Style     string `mapstructure:"style"`
}

// LogConfig configures the rotating log file
type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// WorkoutsConfig locates the custom workouts file
type WorkoutsConfig struct {
	File string `mapstructure:"file"`
}

// StartConfig selects what happens at launch
type StartConfig struct {
	Mode    string `mapstructure:"mode"`
	Workout string `mapstructure:"workout"` // Catalog name, used with ModeInterval
}

// Flag names mapped to their configuration keys
var flagKeys = map[string]string{
	"mode":          "start.mode",
	"workout":       "start.workout",
	"cadence":       "ride.default_cadence",
	"minutes":       "ride.default_minutes",
	"workouts-file": "workouts.file",
	"log-file":      "log.file",
	"style":         "display.style",
}

// RegisterFlags adds the application's flags to fs
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (default $TEMPO_CONFIG or ~/.config/tempo-master/config.yaml)")
	fs.String("mode", ModeMenu, "start mode: menu, free, timed or interval")
	fs.String("workout", "", "workout name to ride with --mode interval")
	fs.Int("cadence", 90, "target cadence for free and timed rides")
	fs.Int("minutes", 60, "timed ride length in minutes")
	fs.String("workouts-file", defaultWorkoutsFile(), "YAML file with custom workouts")
	fs.String("log-file", defaultLogFile(), "log file path")
	fs.String("style", StyleBall, "metronome style: ball or pedal")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ride.default_cadence", 90)
	v.SetDefault("ride.default_minutes", 60)
	v.SetDefault("ride.cadence_min", session.DefaultCadenceLimits.Min)
	v.SetDefault("ride.cadence_max", session.DefaultCadenceLimits.Max)
	v.SetDefault("ride.cadence_step", 5)
	v.SetDefault("ride.tick_interval", session.TickInterval.String())

	limits := workouts.DefaultSetupLimits
	v.SetDefault("setup.cadence_min", limits.CadenceMin)
	v.SetDefault("setup.cadence_max", limits.CadenceMax)
	v.SetDefault("setup.cadence_step", limits.CadenceStep)
	v.SetDefault("setup.work_max", limits.WorkMax.String())
	v.SetDefault("setup.rest_max", limits.RestMax.String())
	v.SetDefault("setup.rounds_max", limits.RoundsMax)
	v.SetDefault("setup.ride_max", limits.RideMax.String())

	v.SetDefault("interval.work_cadence", 100)
	v.SetDefault("interval.work", "5m")
	v.SetDefault("interval.rest_cadence", 70)
	v.SetDefault("interval.rest", "2m")
	v.SetDefault("interval.rounds", 5)

	v.SetDefault("display.frame_rate", 30)
	v.SetDefault("display.style", StyleBall)

	v.SetDefault("log.file", defaultLogFile())
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("log.compress", false)

	v.SetDefault("workouts.file", defaultWorkoutsFile())

	v.SetDefault("start.mode", ModeMenu)
	v.SetDefault("start.workout", "")
}

// Load builds the configuration. fs may be nil; otherwise it must have been
// prepared with RegisterFlags and parsed.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	explicit := os.Getenv(envPrefix + "_CONFIG")
	if fs != nil {
		if path, err := fs.GetString("config"); err == nil && path != "" {
			explicit = path
		}
	}
	if explicit != "" {
		// A missing default file is fine, a missing explicit one is not
		if _, err := os.Stat(explicit); err != nil {
			return Config{}, fmt.Errorf("config file: %w", err)
		}
		v.SetConfigFile(explicit)
	} else {
		v.AddConfigPath(configDir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if fs != nil {
		for name, key := range flagKeys {
			flag := fs.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks values that would otherwise panic deeper in the program
func (c Config) Validate() error {
	r := c.Ride
	if r.CadenceMin <= 0 || r.CadenceMax < r.CadenceMin {
		return fmt.Errorf("invalid config: ride cadence range %d-%d", r.CadenceMin, r.CadenceMax)
	}
	if r.CadenceStep <= 0 {
		return fmt.Errorf("invalid config: ride cadence step %d", r.CadenceStep)
	}
	if r.DefaultCadence < r.CadenceMin || r.DefaultCadence > r.CadenceMax {
		return fmt.Errorf("invalid config: default cadence %d outside %d-%d", r.DefaultCadence, r.CadenceMin, r.CadenceMax)
	}
	if r.TickInterval <= 0 {
		return fmt.Errorf("invalid config: tick interval %v", r.TickInterval)
	}

	s := c.Setup
	if s.CadenceMin <= 0 || s.CadenceMax < s.CadenceMin || s.CadenceStep <= 0 {
		return fmt.Errorf("invalid config: setup cadence range %d-%d step %d", s.CadenceMin, s.CadenceMax, s.CadenceStep)
	}
	if s.WorkMax < time.Minute || s.RestMax < time.Minute || s.RideMax < time.Minute || s.RoundsMax < 1 {
		return errors.New("invalid config: setup maximums must allow at least one minute and one round")
	}

	if c.Display.FrameRate < 1 || c.Display.FrameRate > 120 {
		return fmt.Errorf("invalid config: frame rate %d outside 1-120", c.Display.FrameRate)
	}
	switch c.Display.Style {
	case StyleBall, StylePedal:
	default:
		return fmt.Errorf("invalid config: unknown display style %q", c.Display.Style)
	}

	switch c.Start.Mode {
	case ModeMenu, ModeFree:
	case ModeTimed:
		if err := c.TimedPlan().Validate(c.SetupLimits()); err != nil {
			return fmt.Errorf("invalid config: timed ride: %w", err)
		}
	case ModeInterval:
		if c.Start.Workout == "" {
			if err := c.IntervalPlan().Validate(c.SetupLimits()); err != nil {
				return fmt.Errorf("invalid config: interval: %w", err)
			}
		}
	default:
		return fmt.Errorf("invalid config: unknown start mode %q", c.Start.Mode)
	}

	return nil
}

// CadenceLimits returns the live adjustment range for free and timed rides
func (c Config) CadenceLimits() session.CadenceLimits {
	return session.CadenceLimits{Min: c.Ride.CadenceMin, Max: c.Ride.CadenceMax}
}

// SetupLimits returns the bounds for configuring workouts
func (c Config) SetupLimits() workouts.SetupLimits {
	limits := workouts.DefaultSetupLimits
	limits.CadenceMin = c.Setup.CadenceMin
	limits.CadenceMax = c.Setup.CadenceMax
	limits.CadenceStep = c.Setup.CadenceStep
	limits.WorkMax = c.Setup.WorkMax
	limits.RestMax = c.Setup.RestMax
	limits.RoundsMax = c.Setup.RoundsMax
	limits.RideMax = c.Setup.RideMax
	return limits
}

// IntervalPlan returns the configured custom interval workout
func (c Config) IntervalPlan() workouts.IntervalPlan {
	return workouts.IntervalPlan{
		Name:         "Custom Intervals",
		WorkCadence:  c.Interval.WorkCadence,
		WorkDuration: c.Interval.Work,
		RestCadence:  c.Interval.RestCadence,
		RestDuration: c.Interval.Rest,
		Rounds:       c.Interval.Rounds,
	}
}

// TimedPlan returns the configured timed ride
func (c Config) TimedPlan() workouts.TimedPlan {
	return workouts.TimedPlan{
		Cadence:  c.Ride.DefaultCadence,
		Duration: time.Duration(c.Ride.DefaultMinutes) * time.Minute,
	}
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tempo-master")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tempo-master")
}

func defaultWorkoutsFile() string {
	return filepath.Join(configDir(), "workouts.yaml")
}

func defaultLogFile() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "tempo-master", "tempo-master.log")
}
