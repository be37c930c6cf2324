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
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matrixorigin/colvec/pkg/common/moerr"
	"github.com/matrixorigin/colvec/pkg/container/rowconv"
	"github.com/matrixorigin/colvec/pkg/container/types"
	"github.com/matrixorigin/colvec/pkg/logutil"
	"github.com/matrixorigin/colvec/pkg/testutil"
)

type randomBatchOptions struct {
	rows     int
	cols     int
	depth    int
	seed     int64
	nullRate float64
}

func (o *randomBatchOptions) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.rows, "rows", 0, "rows per batch, the configured batch size when 0")
	cmd.Flags().IntVar(&o.cols, "cols", 8, "number of columns")
	cmd.Flags().IntVar(&o.depth, "depth", 2, "max nesting depth of column types")
	cmd.Flags().Int64Var(&o.seed, "seed", 1, "random seed")
	cmd.Flags().Float64Var(&o.nullRate, "null-rate", 0.1, "probability of a null value")
}

func (o *randomBatchOptions) generate(t *tool) ([]types.Field, []rowconv.Row) {
	rows := o.rows
	if rows <= 0 {
		rows = t.cfg.Vector.DefaultBatchSize
	}
	r := rand.New(rand.NewSource(o.seed))
	fields := testutil.RandomFields(r, o.cols, o.depth)
	return fields, testutil.RandomRows(r, fields, rows, o.nullRate)
}

// benchStats accumulates nanoseconds and counts across pool workers.
type benchStats struct {
	build, scan, columns atomic.Int64
	values               atomic.Int64
}

func benchCommand(t *tool) *cobra.Command {
	var (
		opts       randomBatchOptions
		iterations int
		parallel   int
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Build and scan random batches",
		Long: "Build random batches from generic rows on a worker pool, scan them back " +
			"row by row and column by column, and report timings",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if parallel <= 0 {
				parallel = runtime.NumCPU()
			}
			pool, err := ants.NewPool(parallel)
			if err != nil {
				return err
			}
			defer pool.Release()

			fields, rows := opts.generate(t)
			var (
				stats    benchStats
				wg       sync.WaitGroup
				mu       sync.Mutex
				firstErr error
			)
			for i := 0; i < iterations; i++ {
				wg.Add(1)
				if err = pool.Submit(func() {
					defer wg.Done()
					if err := t.benchOnce(fields, rows, &stats); err != nil {
						mu.Lock()
						if firstErr == nil {
							firstErr = err
						}
						mu.Unlock()
					}
				}); err != nil {
					wg.Done()
					break
				}
			}
			wg.Wait()
			if err != nil {
				return err
			}
			if firstErr != nil {
				return firstErr
			}

			build := time.Duration(stats.build.Load())
			scan := time.Duration(stats.scan.Load())
			columns := time.Duration(stats.columns.Load())
			logutil.Info("bench done",
				zap.String("mode", t.mode.String()),
				zap.Int("rows", len(rows)),
				zap.Int("iterations", iterations),
				zap.Int("parallel", parallel),
				zap.Duration("build", build),
				zap.Duration("scan", scan),
				zap.Duration("columns", columns),
				zap.Int64("values", stats.values.Load()),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "mode=%s rows=%d iterations=%d build=%s scan=%s columns=%s values=%d\n",
				t.mode, len(rows), iterations, build, scan, columns, stats.values.Load())
			return t.dumpMetrics(cmd)
		},
	}
	opts.register(cmd)
	cmd.Flags().IntVar(&iterations, "iterations", 10, "number of batches to build")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "batches built at once, the number of CPUs when 0")
	return cmd
}

// benchOnce builds one batch and reads it back. Each batch has one writer.
func (t *tool) benchOnce(fields []types.Field, rows []rowconv.Row, stats *benchStats) error {
	start := time.Now()
	bat, err := rowconv.ToBatch(fields, rows, t.mode, t.vectorOptions()...)
	if err != nil {
		return err
	}
	defer bat.Close()
	stats.build.Add(int64(time.Since(start)))

	start = time.Now()
	n := len(rowconv.FromBatch(bat))
	stats.scan.Add(int64(time.Since(start)))
	if n != len(rows) {
		return moerr.NewInternalErrorNoCtx("scanned %d rows, built %d", n, len(rows))
	}

	start = time.Now()
	values, err := copyColumns(bat, t.mode, t.vectorOptions()...)
	if err != nil {
		return err
	}
	stats.columns.Add(int64(time.Since(start)))
	stats.values.Add(int64(values))
	return nil
}

func (t *tool) dumpMetrics(cmd *cobra.Command) error {
	families, err := t.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(cmd.OutOrStdout(), "%s %v\n", mf.GetName(), m.GetCounter().GetValue())
			case m.GetGauge() != nil:
				fmt.Fprintf(cmd.OutOrStdout(), "%s %v\n", mf.GetName(), m.GetGauge().GetValue())
			}
		}
	}
	return nil
}
