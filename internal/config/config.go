// Package config resolves wakepi's runtime settings. Defaults are compiled
// in (this tool runs unattended from a timer, with no arguments); each one
// can be overridden through an environment variable, optionally loaded from
// a .env file next to the binary.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/wakepi/wakepi/internal/pisugar"
	"github.com/wakepi/wakepi/internal/wakeup"
)

// Environment variable names overriding the compiled-in defaults.
const (
	FirstWakeEnv        = "WAKEPI_FIRST_WAKE"
	SecondWakeEnv       = "WAKEPI_SECOND_WAKE"
	PiSugarAddrEnv      = "WAKEPI_PISUGAR_ADDR"
	AlarmIDEnv          = "WAKEPI_ALARM_ID"
	LogPathEnv          = "WAKEPI_LOG_PATH"
	LockPathEnv         = "WAKEPI_LOCK_PATH"
	HistoryPathEnv      = "WAKEPI_HISTORY_PATH"
	WindDownEnv         = "WAKEPI_WIND_DOWN"
	RolloverEnv         = "WAKEPI_ROLLOVER"
	DetectManualBootEnv = "WAKEPI_DETECT_MANUAL_BOOT"
)

// Config holds every setting a run needs.
type Config struct {
	// FirstWake and SecondWake are the two daily wall-clock wake times.
	FirstWake  wakeup.TimeOfDay
	SecondWake wakeup.TimeOfDay

	// PiSugarAddr is the loopback endpoint of the PiSugar command socket.
	PiSugarAddr string

	// AlarmID identifies the RTC alarm channel to program.
	AlarmID int

	// LogPath is the append-only text log; LockPath the execution lock
	// marker; HistoryPath the SQLite wake-event store.
	LogPath     string
	LockPath    string
	HistoryPath string

	// WindDown is how long to pause between arming the alarm and
	// requesting power-off, giving the service time to persist the alarm.
	WindDown time.Duration

	// DialTimeout and ReadTimeout bound the socket exchange.
	DialTimeout time.Duration
	ReadTimeout time.Duration

	// Rollover selects when elapsed candidates shift to tomorrow.
	Rollover wakeup.RolloverPolicy

	// DetectManualBoot skips the shutdown when the current hour matches
	// neither wake hour, treating the boot as manual.
	DetectManualBoot bool
}

// Default returns the compiled-in configuration: wake at 07:00 or 19:00,
// PiSugar on its standard loopback port, two minutes of wind-down.
func Default() Config {
	return Config{
		FirstWake:        wakeup.TimeOfDay{Hour: 7},
		SecondWake:       wakeup.TimeOfDay{Hour: 19},
		PiSugarAddr:      pisugar.DefaultAddr,
		AlarmID:          127,
		LogPath:          "/var/log/wakepi.log",
		LockPath:         filepath.Join(os.TempDir(), "wakepi.lock"),
		HistoryPath:      "/var/lib/wakepi/history.db",
		WindDown:         120 * time.Second,
		DialTimeout:      pisugar.DefaultDialTimeout,
		ReadTimeout:      pisugar.DefaultReadTimeout,
		Rollover:         wakeup.RollWhenBothElapsed,
		DetectManualBoot: false,
	}
}

// Load builds the configuration from defaults plus environment overrides.
func Load() (Config, error) {
	// A missing .env is the normal case, not an error.
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	cfg := Default()
	var err error

	if v := os.Getenv(FirstWakeEnv); v != "" {
		if cfg.FirstWake, err = wakeup.ParseTimeOfDay(v); err != nil {
			return Config{}, fmt.Errorf("%s: %w", FirstWakeEnv, err)
		}
	}
	if v := os.Getenv(SecondWakeEnv); v != "" {
		if cfg.SecondWake, err = wakeup.ParseTimeOfDay(v); err != nil {
			return Config{}, fmt.Errorf("%s: %w", SecondWakeEnv, err)
		}
	}
	if v := os.Getenv(PiSugarAddrEnv); v != "" {
		cfg.PiSugarAddr = v
	}
	if v := os.Getenv(AlarmIDEnv); v != "" {
		if cfg.AlarmID, err = strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("%s: invalid alarm id %q", AlarmIDEnv, v)
		}
	}
	if v := os.Getenv(LogPathEnv); v != "" {
		cfg.LogPath = v
	}
	if v := os.Getenv(LockPathEnv); v != "" {
		cfg.LockPath = v
	}
	if v := os.Getenv(HistoryPathEnv); v != "" {
		cfg.HistoryPath = v
	}
	if v := os.Getenv(WindDownEnv); v != "" {
		if cfg.WindDown, err = time.ParseDuration(v); err != nil {
			return Config{}, fmt.Errorf("%s: invalid duration %q", WindDownEnv, v)
		}
	}
	if v := os.Getenv(RolloverEnv); v != "" {
		if cfg.Rollover, err = wakeup.ParseRolloverPolicy(v); err != nil {
			return Config{}, fmt.Errorf("%s: %w", RolloverEnv, err)
		}
	}
	if v := os.Getenv(DetectManualBootEnv); v != "" {
		if cfg.DetectManualBoot, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("%s: invalid boolean %q", DetectManualBootEnv, v)
		}
	}
	return cfg, nil
}
