// Package checkpoint speaks the model checkpoint boundary: a directory
// holding a JSON configuration record and the learned network weights.
//
// The core only interprets the configuration; weights bytes stay
// opaque and belong to whatever denoiser implementation gets injected.
// Config and weights must travel together: the configuration records
// the weights file's SHA-256, and any mismatch fails loading with a
// *schedule.ConfigError rather than silently falling back to defaults.
package checkpoint

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/amrhamedp/foldingdiff/internal/angle"
	"github.com/amrhamedp/foldingdiff/internal/schedule"
)

// ConfigFileName is the configuration record inside a checkpoint dir.
const ConfigFileName = "config.json"

// Config is the hyperparameter record persisted next to the weights.
// It carries everything needed to reconstruct at inference time the
// exact noise schedule and angle representation used in training.
type Config struct {
	Timesteps   int                   `json:"timesteps"`
	Schedule    schedule.Kind         `json:"schedule"`
	BetaMin     float64               `json:"beta_min"`
	BetaMax     float64               `json:"beta_max"`
	Variance    schedule.VarianceType `json:"variance,omitempty"`
	AngleSet    string                `json:"angle_set"`
	WeightsFile string                `json:"weights_file"`
	WeightsHash string                `json:"weights_sha256"`
	CreatedAt   time.Time             `json:"created_at,omitempty"`
}

// scheduleConfig maps the record onto a schedule configuration.
func (c Config) scheduleConfig() schedule.Config {
	return schedule.Config{
		Timesteps: c.Timesteps,
		Kind:      c.Schedule,
		BetaMin:   c.BetaMin,
		BetaMax:   c.BetaMax,
		Variance:  c.Variance,
	}
}

// Validate checks the record, returning a *schedule.ConfigError on the
// first violation.
func (c Config) Validate() error {
	if err := c.scheduleConfig().Validate(); err != nil {
		return err
	}
	if _, err := angle.ParseSet(c.AngleSet); err != nil {
		return &schedule.ConfigError{Field: "angle_set", Value: c.AngleSet, Details: "unknown angle set"}
	}
	if c.WeightsFile == "" {
		return &schedule.ConfigError{Field: "weights_file", Details: "missing weights file name"}
	}
	if filepath.Base(c.WeightsFile) != c.WeightsFile {
		return &schedule.ConfigError{Field: "weights_file", Value: c.WeightsFile, Details: "must be a bare file name inside the checkpoint directory"}
	}
	if c.WeightsHash == "" {
		return &schedule.ConfigError{Field: "weights_sha256", Details: "missing weights checksum"}
	}
	return nil
}

// Checkpoint is a loaded, validated checkpoint directory.
type Checkpoint struct {
	Dir    string
	Config Config
}

// WeightsPath returns the absolute path of the validated weights file.
func (c *Checkpoint) WeightsPath() string {
	return filepath.Join(c.Dir, c.Config.WeightsFile)
}

// Schedule reconstructs the noise schedule recorded at training time.
func (c *Checkpoint) Schedule() (*schedule.Schedule, error) {
	return schedule.New(c.Config.scheduleConfig())
}

// AngleSet returns the angle representation the model was trained on.
func (c *Checkpoint) AngleSet() angle.Set {
	set, err := angle.ParseSet(c.Config.AngleSet)
	if err != nil {
		// Load validated the name already.
		panic(err)
	}
	return set
}

// Load reads and validates a checkpoint directory. All failure modes
// (missing or malformed config, invalid hyperparameters, missing
// weights, checksum mismatch) surface as a *schedule.ConfigError; no
// partially loaded checkpoint is ever returned.
func Load(dir string) (*Checkpoint, error) {
	raw, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &schedule.ConfigError{Field: "config", Value: dir, Details: "checkpoint has no " + ConfigFileName}
		}
		return nil, fmt.Errorf("checkpoint: read config: %w", err)
	}

	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, &schedule.ConfigError{Field: "config", Details: fmt.Sprintf("malformed %s: %v", ConfigFileName, err)}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ck := &Checkpoint{Dir: dir, Config: cfg}
	sum, err := fileChecksum(ck.WeightsPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &schedule.ConfigError{Field: "weights_file", Value: cfg.WeightsFile, Details: "weights file missing from checkpoint directory"}
		}
		return nil, fmt.Errorf("checkpoint: read weights: %w", err)
	}
	if sum != cfg.WeightsHash {
		return nil, &schedule.ConfigError{Field: "weights_sha256", Value: sum, Details: "weights do not match the configuration record"}
	}
	return ck, nil
}

// Save writes a checkpoint directory: the weights bytes plus a config
// record stamped with their checksum. Used by training exporters and
// tests; Load accepts exactly what Save produces.
func Save(dir string, cfg Config, weights []byte) (*Checkpoint, error) {
	if cfg.WeightsFile == "" {
		cfg.WeightsFile = "model.bin"
	}
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = time.Now().UTC()
	}
	sum := sha256.Sum256(weights)
	cfg.WeightsHash = hex.EncodeToString(sum[:])
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("checkpoint: create dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, cfg.WeightsFile), weights, 0o644); err != nil {
		return nil, fmt.Errorf("checkpoint: write weights: %w", err)
	}
	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("checkpoint: encode config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), append(raw, '\n'), 0o644); err != nil {
		return nil, fmt.Errorf("checkpoint: write config: %w", err)
	}
	return &Checkpoint{Dir: dir, Config: cfg}, nil
}

// fileChecksum streams the file through SHA-256 and returns the hex
// digest, avoiding loading large weights fully into memory.
func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
