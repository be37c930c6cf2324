// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"math"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matrixorigin/colvec/pkg/common/malloc"
	"github.com/matrixorigin/colvec/pkg/common/moerr"
	"github.com/matrixorigin/colvec/pkg/logutil"
)

const (
	MemoryModeHeap    = "heap"
	MemoryModeOffHeap = "offheap"

	AllocatorMmap = "mmap"
	AllocatorGo   = "go"

	// DefaultBatchSize is the row capacity of a batch when none is configured.
	DefaultBatchSize = 4096
	// DefaultMaxCapacity leaves headroom below math.MaxInt32 for buffer headers.
	DefaultMaxCapacity = math.MaxInt32 - 15
)

// VectorConfig holds the settings threaded into vector and batch construction.
type VectorConfig struct {
	// MemoryMode selects the backing of writable vectors. "heap" or "offheap". default: heap
	MemoryMode string `toml:"memory-mode"`

	// DefaultBatchSize is the initial row capacity of allocated batches. default: 4096
	DefaultBatchSize int `toml:"default-batch-size"`

	// MaxCapacity is the hard ceiling on slots per vector. default: 2147483632
	MaxCapacity int `toml:"max-capacity"`

	// EnableAllocatorMetrics wraps the off-heap allocator with prometheus metrics.
	EnableAllocatorMetrics bool `toml:"enable-allocator-metrics"`

	// Allocator is where off-heap blocks come from. "mmap" or "go". default: mmap
	Allocator string `toml:"allocator"`
}

// Config is the root of the toml configuration file.
type Config struct {
	Log    logutil.LogConfig `toml:"log"`
	Vector VectorConfig      `toml:"vector"`
}

// Parse decodes a toml document and applies defaults.
func Parse(text string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.Decode(text, cfg); err != nil {
		return nil, moerr.NewBadConfigNoCtx("%v", err)
	}
	cfg.SetDefaults()
	return cfg, nil
}

// ParseFile reads path as toml and applies defaults.
func ParseFile(path string) (*Config, error) {
	if path == "" {
		return nil, moerr.NewNoConfig(moerr.Context(), "config file path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, moerr.NewNoConfig(moerr.Context(), path)
	}
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, moerr.NewBadConfigNoCtx("%s: %v", path, err)
	}
	cfg.SetDefaults()
	return cfg, nil
}

// SetDefaults fills every zero valued field.
func (c *Config) SetDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	c.Vector.SetDefaults()
}

func (c *Config) Validate() error {
	switch c.Log.Format {
	case "console", "json":
	default:
		return moerr.NewBadConfigNoCtx("unsupported log format %q", c.Log.Format)
	}
	return c.Vector.Validate()
}

func (vc *VectorConfig) SetDefaults() {
	if vc.MemoryMode == "" {
		vc.MemoryMode = MemoryModeHeap
	}
	if vc.DefaultBatchSize == 0 {
		vc.DefaultBatchSize = DefaultBatchSize
	}
	if vc.MaxCapacity == 0 {
		vc.MaxCapacity = DefaultMaxCapacity
	}
	if vc.Allocator == "" {
		vc.Allocator = AllocatorMmap
	}
}

func (vc *VectorConfig) Validate() error {
	switch vc.MemoryMode {
	case MemoryModeHeap, MemoryModeOffHeap:
	default:
		return moerr.NewBadConfigNoCtx("unsupported memory-mode %q", vc.MemoryMode)
	}
	switch vc.Allocator {
	case AllocatorMmap, AllocatorGo:
	default:
		return moerr.NewBadConfigNoCtx("unsupported allocator %q", vc.Allocator)
	}
	if vc.MaxCapacity <= 0 || vc.MaxCapacity > DefaultMaxCapacity {
		return moerr.NewBadConfigNoCtx("max-capacity %d out of (0, %d]", vc.MaxCapacity, DefaultMaxCapacity)
	}
	if vc.DefaultBatchSize <= 0 {
		return moerr.NewBadConfigNoCtx("default-batch-size %d must be positive", vc.DefaultBatchSize)
	}
	if vc.DefaultBatchSize > vc.MaxCapacity {
		return moerr.NewBadConfigNoCtx("default-batch-size %d exceeds max-capacity %d", vc.DefaultBatchSize, vc.MaxCapacity)
	}
	return nil
}

// NewAllocator builds the off-heap allocator the config selects. With
// allocator metrics enabled it is wrapped and its collectors are registered
// with reg under the colvec namespace.
func (vc *VectorConfig) NewAllocator(reg prometheus.Registerer) malloc.Allocator {
	var upstream malloc.Allocator
	switch vc.Allocator {
	case AllocatorGo:
		upstream = malloc.NewGoAllocator()
	default:
		upstream = malloc.NewMmapAllocator()
	}
	if !vc.EnableAllocatorMetrics {
		return upstream
	}
	return malloc.Wrap(upstream, malloc.NewMetrics(reg, "colvec"))
}
