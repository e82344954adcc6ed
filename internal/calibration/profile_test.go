package calibration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/primecalc/internal/config"
)

// measured returns a current-machine profile with a tuning result filled in.
func measured() *CalibrationProfile {
	p := NewProfile()
	p.OptimalSegmentSize = 256 << 10
	p.OptimalWorkers = 6
	p.CalibrationN = 10_000_000
	p.CalibrationTime = "412ms"
	return p
}

func TestProfileIsValid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*CalibrationProfile)
		want   bool
	}{
		{"this machine", func(*CalibrationProfile) {}, true},
		{"more cores", func(p *CalibrationProfile) { p.NumCPU += 4 }, false},
		{"other arch", func(p *CalibrationProfile) { p.GOARCH = "mips" }, false},
		{"other word size", func(p *CalibrationProfile) { p.WordSize = 96 }, false},
		{"older layout", func(p *CalibrationProfile) { p.ProfileVersion = CurrentProfileVersion - 1 }, false},
		{"other os is fine", func(p *CalibrationProfile) { p.GOOS = "plan9" }, true},
		{"other toolchain is fine", func(p *CalibrationProfile) { p.GoVersion = "go1.0" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := measured()
			tt.mutate(p)
			assert.Equal(t, tt.want, p.IsValid())
		})
	}

	var nilProfile *CalibrationProfile
	assert.False(t, nilProfile.IsValid())
}

func TestProfileIsStale(t *testing.T) {
	t.Parallel()
	p := measured()
	assert.False(t, p.IsStale(MaxProfileAge))

	p.CalibratedAt = time.Now().Add(-MaxProfileAge - time.Hour)
	assert.True(t, p.IsStale(MaxProfileAge))

	var nilProfile *CalibrationProfile
	assert.True(t, nilProfile.IsStale(MaxProfileAge))
}

func TestProfileString(t *testing.T) {
	t.Parallel()
	s := measured().String()
	for _, want := range []string{"segment=262144", "workers=6", "n=10000000", "412ms"} {
		assert.Contains(t, s, want)
	}
}

func TestSaveProfile_WritesJSON(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "dir", DefaultProfileFileName)
	require.NoError(t, measured().SaveProfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.EqualValues(t, 256<<10, raw["optimal_segment_size"])
	assert.EqualValues(t, 6, raw["optimal_workers"])
	assert.EqualValues(t, CurrentProfileVersion, raw["profile_version"])

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file left behind")
}

func TestLoadOrCreateProfile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	saved := filepath.Join(dir, "saved.json")
	require.NoError(t, measured().SaveProfile(saved))

	foreign := filepath.Join(dir, "foreign.json")
	other := measured()
	other.GOARCH = "riscv64"
	if other.GOARCH == NewProfile().GOARCH {
		other.GOARCH = "s390x"
	}
	require.NoError(t, other.SaveProfile(foreign))

	garbled := filepath.Join(dir, "garbled.json")
	require.NoError(t, os.WriteFile(garbled, []byte(`{"optimal_workers": "six"`), 0o644))

	tests := []struct {
		name       string
		path       string
		wantLoaded bool
	}{
		{"saved on this machine", saved, true},
		{"measured elsewhere", foreign, false},
		{"truncated file", garbled, false},
		{"missing file", filepath.Join(dir, "absent.json"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, loaded := LoadOrCreateProfile(tt.path)
			require.NotNil(t, p)
			assert.Equal(t, tt.wantLoaded, loaded)
			if tt.wantLoaded {
				assert.EqualValues(t, 256<<10, p.OptimalSegmentSize)
				assert.Equal(t, 6, p.OptimalWorkers)
			} else {
				assert.Zero(t, p.OptimalSegmentSize, "fresh profile should carry no tuning")
				assert.True(t, p.IsValid())
			}
		})
	}
}

func TestResolveProfilePath(t *testing.T) {
	t.Parallel()
	custom := filepath.Join(t.TempDir(), "tuning.json")
	assert.Equal(t, custom, ResolveProfilePath(config.AppConfig{CalibrationProfile: custom}))

	def := ResolveProfilePath(config.AppConfig{})
	assert.Equal(t, GetDefaultProfilePath(), def)
	assert.Equal(t, DefaultProfileFileName, filepath.Base(def))
}
