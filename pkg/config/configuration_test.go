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
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/colvec/pkg/common/malloc"
	"github.com/matrixorigin/colvec/pkg/common/moerr"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse("")
	require.NoError(t, err)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "console", cfg.Log.Format)
	require.Equal(t, MemoryModeHeap, cfg.Vector.MemoryMode)
	require.Equal(t, DefaultBatchSize, cfg.Vector.DefaultBatchSize)
	require.Equal(t, DefaultMaxCapacity, cfg.Vector.MaxCapacity)
	require.Equal(t, AllocatorMmap, cfg.Vector.Allocator)
	require.NoError(t, cfg.Validate())
}

func TestParseFile(t *testing.T) {
	text := `
[log]
level = "debug"
format = "json"

[vector]
memory-mode = "offheap"
default-batch-size = 16
max-capacity = 1024
enable-allocator-metrics = true
allocator = "go"
`
	path := filepath.Join(t.TempDir(), "vec.toml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))

	cfg, err := ParseFile(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
	require.Equal(t, VectorConfig{
		MemoryMode:             MemoryModeOffHeap,
		DefaultBatchSize:       16,
		MaxCapacity:            1024,
		EnableAllocatorMetrics: true,
		Allocator:              AllocatorGo,
	}, cfg.Vector)
	require.NoError(t, cfg.Validate())
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNoConfig))

	_, err = ParseFile("")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNoConfig))
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse("[vector\nmemory-mode=")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		vc   VectorConfig
		ok   bool
	}{
		{"ok", VectorConfig{MemoryModeHeap, 8, 15, false, AllocatorMmap}, true},
		{"bad mode", VectorConfig{"disk", 8, 15, false, AllocatorMmap}, false},
		{"zero batch", VectorConfig{MemoryModeHeap, 0, 15, false, AllocatorMmap}, false},
		{"batch over max", VectorConfig{MemoryModeOffHeap, 16, 15, false, AllocatorGo}, false},
		{"max too large", VectorConfig{MemoryModeHeap, 8, DefaultMaxCapacity + 1, false, AllocatorMmap}, false},
		{"bad allocator", VectorConfig{MemoryModeOffHeap, 8, 15, false, "jemalloc"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.vc.Validate()
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig))
			}
		})
	}

	cfg := &Config{}
	cfg.SetDefaults()
	cfg.Log.Format = "xml"
	require.True(t, moerr.IsMoErrCode(cfg.Validate(), moerr.ErrBadConfig))
}

func TestNewAllocator(t *testing.T) {
	for _, kind := range []string{AllocatorMmap, AllocatorGo} {
		t.Run(kind, func(t *testing.T) {
			vc := &VectorConfig{Allocator: kind}
			plain := vc.NewAllocator(nil)
			switch kind {
			case AllocatorGo:
				require.IsType(t, &malloc.GoAllocator{}, plain)
			default:
				require.IsType(t, &malloc.MmapAllocator{}, plain)
			}

			vc.EnableAllocatorMetrics = true
			reg := prometheus.NewRegistry()
			alloc := vc.NewAllocator(reg)
			buf, dec, err := alloc.Allocate(64, 0)
			require.NoError(t, err)
			require.Len(t, buf, 64)
			families, err := reg.Gather()
			require.NoError(t, err)
			require.NotEmpty(t, families)
			dec.Deallocate(0)
		})
	}
}
