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
	"os"

	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matrixorigin/colvec/pkg/container/rowconv"
	"github.com/matrixorigin/colvec/pkg/logutil"
)

func exportCommand(t *tool) *cobra.Command {
	var opts randomBatchOptions
	cmd := &cobra.Command{
		Use:   "export <arrow-file>",
		Short: "Write a random batch as an Arrow IPC file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, rows := opts.generate(t)
			bat, err := rowconv.ToBatch(fields, rows, t.mode, t.vectorOptions()...)
			if err != nil {
				return err
			}
			defer bat.Close()

			mem := memory.NewGoAllocator()
			rec, err := bat.ToArrow(mem)
			if err != nil {
				return err
			}
			defer rec.Release()

			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			w, err := ipc.NewFileWriter(f, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
			if err != nil {
				return err
			}
			if err = w.Write(rec); err != nil {
				_ = w.Close()
				return err
			}
			if err = w.Close(); err != nil {
				return err
			}
			logutil.Info("batch exported",
				zap.String("file", args[0]),
				zap.Int("rows", bat.NumRows()),
				zap.Int("cols", bat.NumCols()),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", bat.NumRows(), args[0])
			return f.Sync()
		},
	}
	opts.register(cmd)
	return cmd
}
