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
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matrixorigin/colvec/pkg/common/malloc"
	"github.com/matrixorigin/colvec/pkg/config"
	"github.com/matrixorigin/colvec/pkg/container/vector"
	"github.com/matrixorigin/colvec/pkg/logutil"
)

// tool is the state shared by the subcommands once the config is loaded.
type tool struct {
	configFile string

	cfg       *config.Config
	mode      vector.MemoryMode
	registry  *prometheus.Registry
	allocator malloc.Allocator
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	t := &tool{}
	cmd := &cobra.Command{
		Use:          "vec-tool",
		Short:        "Columnar vector engine tool",
		Long:         "Build, benchmark, export and inspect columnar batches",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return t.setup()
		},
	}
	cmd.PersistentFlags().StringVar(&t.configFile, "cfg", "", "toml configuration, defaults apply when empty")

	cmd.AddCommand(
		configCommand(t),
		benchCommand(t),
		exportCommand(t),
		inspectCommand(t),
	)
	return cmd
}

func (t *tool) setup() error {
	var err error
	if t.configFile == "" {
		t.cfg, err = config.Parse("")
	} else {
		t.cfg, err = config.ParseFile(t.configFile)
	}
	if err != nil {
		return err
	}
	if err = t.cfg.Validate(); err != nil {
		return err
	}
	logutil.SetupMOLogger(&t.cfg.Log)

	if t.mode, err = vector.ParseMemoryMode(t.cfg.Vector.MemoryMode); err != nil {
		return err
	}
	t.registry = prometheus.NewRegistry()
	t.allocator = t.cfg.Vector.NewAllocator(t.registry)
	return nil
}

func (t *tool) vectorOptions() []vector.Option {
	return []vector.Option{
		vector.WithMaxCapacity(t.cfg.Vector.MaxCapacity),
		vector.WithAllocator(t.allocator),
	}
}
