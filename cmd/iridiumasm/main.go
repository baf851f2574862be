// Command iridiumasm assembles a target-ISA source file into a raw
// binary image.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dthorpe/iridium/asm"
	"github.com/spf13/cobra"
)

var verbose bool

func main() {
	root := &cobra.Command{
		Use:          "iridiumasm <source>.asm <target>",
		Short:        "Assemble a target-ISA source file into a binary image",
		SilenceUsage: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return asm.NewCLIError("expected exactly 2 arguments (source, target), got %d", len(args))
			}
			return nil
		},
		RunE: runAssemble,
	}
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "trace each pipeline stage to stderr")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "iridiumasm:", err)
		os.Exit(1)
	}
}

func runAssemble(cmd *cobra.Command, args []string) error {
	source, target := args[0], args[1]
	if !strings.HasSuffix(source, ".asm") {
		return asm.NewCLIError("source file %q must have a .asm suffix", source)
	}

	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	var log io.Writer
	if verbose {
		log = os.Stderr
	}

	result, err := asm.Assemble(in, log)
	if err != nil {
		return err
	}

	return os.WriteFile(target, result.Bytes, 0o644)
}
