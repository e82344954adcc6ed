package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/agbru/primecalc/internal/config"
)

// CurrentProfileVersion is bumped whenever the profile layout or the meaning
// of its fields changes; older profiles are then ignored.
const CurrentProfileVersion = 1

// DefaultProfileFileName is the name of the profile in the home directory.
const DefaultProfileFileName = config.DefaultCalibrationProfile

// CalibrationProfile records the fastest sieve tuning measured on a given
// machine, together with enough about the machine to know when it no longer
// applies.
type CalibrationProfile struct {
	ProfileVersion int       `json:"profile_version"`
	NumCPU         int       `json:"num_cpu"`
	GOARCH         string    `json:"goarch"`
	GOOS           string    `json:"goos"`
	GoVersion      string    `json:"go_version"`
	WordSize       int       `json:"word_size"`
	CalibratedAt   time.Time `json:"calibrated_at"`

	OptimalSegmentSize uint64 `json:"optimal_segment_size"`
	OptimalWorkers     int    `json:"optimal_workers"`

	CalibrationN    uint64 `json:"calibration_n"`
	CalibrationTime string `json:"calibration_time"`
}

// NewProfile returns an empty profile stamped with the current machine.
func NewProfile() *CalibrationProfile {
	return &CalibrationProfile{
		ProfileVersion: CurrentProfileVersion,
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		WordSize:       32 << (^uint(0) >> 63),
		CalibratedAt:   time.Now(),
	}
}

// IsValid reports whether the profile was measured on hardware matching the
// current process.
func (p *CalibrationProfile) IsValid() bool {
	if p == nil {
		return false
	}
	return p.ProfileVersion == CurrentProfileVersion &&
		p.NumCPU == runtime.NumCPU() &&
		p.GOARCH == runtime.GOARCH &&
		p.WordSize == 32<<(^uint(0)>>63)
}

// IsStale reports whether the profile is older than maxAge.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

// String summarizes the profile on one line.
func (p *CalibrationProfile) String() string {
	return fmt.Sprintf("calibration profile v%d (%s/%s, %d CPUs, %s): segment=%d workers=%d, measured at n=%d in %s on %s",
		p.ProfileVersion, p.GOOS, p.GOARCH, p.NumCPU, p.GoVersion,
		p.OptimalSegmentSize, p.OptimalWorkers,
		p.CalibrationN, p.CalibrationTime, p.CalibratedAt.Format(time.RFC3339))
}

// SaveProfile writes the profile as indented JSON, creating parent
// directories. The file is replaced atomically.
func (p *CalibrationProfile) SaveProfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating profile directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing profile: %w", err)
	}
	return nil
}

func loadProfile(path string) (*CalibrationProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p CalibrationProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding profile %s: %w", path, err)
	}
	return &p, nil
}

// LoadOrCreateProfile loads the profile at path, or returns a fresh one and
// false when it is missing, unreadable or measured on other hardware.
func LoadOrCreateProfile(path string) (*CalibrationProfile, bool) {
	p, err := loadProfile(path)
	if err != nil || !p.IsValid() {
		return NewProfile(), false
	}
	return p, true
}

// GetDefaultProfilePath returns the profile path in the user's home
// directory, or in the working directory when there is none.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}

// ResolveProfilePath returns cfg.CalibrationProfile when set, else the
// default path.
func ResolveProfilePath(cfg config.AppConfig) string {
	if cfg.CalibrationProfile != "" {
		return cfg.CalibrationProfile
	}
	return GetDefaultProfilePath()
}
