// Copyright 2025 The foldingdiff-go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package checkpoint provides the public API for the model checkpoint
// boundary: a directory holding a configuration record and network
// weights that must travel together.
//
// Example:
//
//	ck, err := checkpoint.Load("runs/2024-03-01")
//	if err != nil {
//	    return err // *schedule.ConfigError: nothing partial proceeds
//	}
//	sched, err := ck.Schedule()
package checkpoint

import (
	"github.com/amrhamedp/foldingdiff/internal/checkpoint"
)

// ConfigFileName is the configuration record inside a checkpoint dir.
const ConfigFileName = checkpoint.ConfigFileName

// Config is the hyperparameter record persisted next to the weights.
type Config = checkpoint.Config

// Checkpoint is a loaded, validated checkpoint directory.
type Checkpoint = checkpoint.Checkpoint

// Load reads and validates a checkpoint directory; every failure mode
// surfaces as a *schedule.ConfigError.
func Load(dir string) (*Checkpoint, error) { return checkpoint.Load(dir) }

// Save writes a checkpoint directory: weights plus a config record
// stamped with their checksum.
func Save(dir string, cfg Config, weights []byte) (*Checkpoint, error) {
	return checkpoint.Save(dir, cfg, weights)
}
