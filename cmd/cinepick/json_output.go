package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// emit prints v as JSON when --json is set, otherwise calls render.
func emit(cmd *cobra.Command, ctx *commandContext, v any, render func(io.Writer) error) error {
	if ctx.jsonOutput() {
		return writeJSON(cmd, v)
	}
	return render(cmd.OutOrStdout())
}
