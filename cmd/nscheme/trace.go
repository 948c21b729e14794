// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"

	"github.com/nojima/nscheme/internal/value"
	"github.com/nojima/nscheme/internal/vm"
)

// newTraceHook returns the --trace instruction printer. style is
// "table" (olekukonko/tablewriter, the default on a terminal), "plain"
// (tab-separated, the default when stdout is not a terminal), or empty to
// auto-detect.
func newTraceHook(style string) vm.StepHook {
	if style == "" {
		if isatty.IsTerminal(os.Stdout.Fd()) {
			style = "table"
		} else {
			style = "plain"
		}
	}
	if style == "table" {
		return traceTable
	}
	return tracePlain
}

func traceTable(s vm.Step) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ip", "instruction", "stack", "frame size"})
	table.Append([]string{
		fmt.Sprintf("%d", s.IP),
		fmt.Sprintf("%v", s.Inst),
		formatStack(s.ValueStack),
		fmt.Sprintf("%d", s.FrameSize),
	})
	table.Render()
}

func tracePlain(s vm.Step) {
	fmt.Fprintf(os.Stdout, "%d\t%v\t%s\t%d\n", s.IP, s.Inst, formatStack(s.ValueStack), s.FrameSize)
}

func formatStack(stack []value.Value) string {
	parts := make([]string, len(stack))
	for i, v := range stack {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
