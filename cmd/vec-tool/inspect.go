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
	"strings"

	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/spf13/cobra"

	"github.com/matrixorigin/colvec/pkg/container/batch"
	"github.com/matrixorigin/colvec/pkg/container/vector"
)

func inspectCommand(t *tool) *cobra.Command {
	var (
		limit      int
		filterNull int
	)
	cmd := &cobra.Command{
		Use:   "inspect <arrow-file>",
		Short: "Print the rows of an Arrow IPC file",
		Long:  "Wrap every record of an Arrow IPC file in a batch and print its rows through the row iterator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			r, err := ipc.NewFileReader(f, ipc.WithAllocator(memory.NewGoAllocator()))
			if err != nil {
				return err
			}
			defer r.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "schema: %s\n", r.Schema())
			printed := 0
			for i := 0; i < r.NumRecords(); i++ {
				rec, err := r.Record(i)
				if err != nil {
					return err
				}
				bat, err := batch.FromArrow(rec)
				if err != nil {
					return err
				}
				if filterNull >= 0 && filterNull < bat.NumCols() {
					bat.FilterNullsInColumn(filterNull)
				}
				fmt.Fprintf(out, "record %d: %d rows, %d valid\n", i, bat.NumRows(), bat.NumValidRows())
				it := bat.Iterator()
				for it.HasNext() && (limit <= 0 || printed < limit) {
					fmt.Fprintln(out, formatRow(it.Next()))
					printed++
				}
				_ = bat.Close()
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "max rows to print, all when 0")
	cmd.Flags().IntVar(&filterNull, "filter-null", -1, "filter rows that are null in this column")
	return cmd
}

func formatRow(row *batch.Row) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d:", row.RowID())
	for i := 0; i < row.NumFields(); i++ {
		sb.WriteByte(' ')
		sb.WriteString(vector.ValueString(row.Column(i), row.RowID()))
	}
	return sb.String()
}
