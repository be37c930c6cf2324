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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func runTool(t *testing.T, args ...string) string {
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func writeConfig(t *testing.T, text string) string {
	path := filepath.Join(t.TempDir(), "vec.toml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestConfigCommand(t *testing.T) {
	out := runTool(t, "config")
	require.Contains(t, out, "memory-mode = \"heap\"")
	require.Contains(t, out, "default-batch-size = 4096")

	cfg := writeConfig(t, "[vector]\nmemory-mode = \"offheap\"\n")
	out = runTool(t, "--cfg", cfg, "config")
	require.Contains(t, out, "memory-mode = \"offheap\"")
}

func TestBadConfig(t *testing.T) {
	cfg := writeConfig(t, "[vector]\nmemory-mode = \"disk\"\n")
	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--cfg", cfg, "config"})
	require.Error(t, cmd.Execute())
}

func TestBench(t *testing.T) {
	cfg := writeConfig(t, "[vector]\nmemory-mode = \"offheap\"\nenable-allocator-metrics = true\n")
	out := runTool(t, "--cfg", cfg, "bench", "--rows", "64", "--cols", "4", "--iterations", "2")
	require.Contains(t, out, "mode=offheap rows=64 iterations=2")
	require.Contains(t, out, "colvec_malloc_inuse_bytes 0")
}

func TestExportInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.arrow")
	out := runTool(t, "export", path, "--rows", "16", "--cols", "3", "--seed", "5")
	require.Contains(t, out, "wrote 16 rows")

	out = runTool(t, "inspect", path, "--limit", "0")
	require.Contains(t, out, "record 0: 16 rows, 16 valid")
	require.Contains(t, out, "\n15:")

	out = runTool(t, "inspect", path, "--limit", "3")
	require.Contains(t, out, "\n2:")
	require.NotContains(t, out, "\n3:")
}
