package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/repr"
	"github.com/go-json-experiment/json"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	jsoniter "github.com/json-iterator/go"

	"github.com/corvidlabs/jsonrepair"
	"github.com/corvidlabs/jsonrepair/internal/config"
)

var (
	outPath    string
	strictMode bool
	gzipOutput bool
	debugMode  bool

	fixCmd = &cobra.Command{
		Use:   "fix [file]",
		Short: "Repair a JSON document from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runFix,
	}
)

func init() {
	bindFixFlags(fixCmd.Flags())
	bindFixFlags(rootCmd.Flags())
	rootCmd.AddCommand(fixCmd)
}

// bindFixFlags registers the fix flags on fs. It is called for both fixCmd
// (so `jsonrepair fix ...` works) and rootCmd (so plain `jsonrepair ...`
// behaves like `fix` without requiring the subcommand name).
func bindFixFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&outPath, "output", "o", "", "write repaired JSON to this file instead of stdout")
	fs.BoolVar(&strictMode, "strict", false, "re-validate the repaired output before printing")
	fs.BoolVar(&gzipOutput, "gzip", false, "gzip-compress the output file (requires -o)")
	fs.BoolVar(&debugMode, "debug", false, "pretty-print the decoded structure to stderr")
}

func runFix(cmd *cobra.Command, args []string) error {
	logger := config.NewLogger(cfg)

	var input []byte
	var err error
	if len(args) == 1 {
		input, err = os.ReadFile(args[0])
	} else {
		input, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	result, repairErr := jsonrepair.Repair(string(input))
	if repairErr != nil {
		return repairErr
	}

	if strictMode && !jsoniter.Valid([]byte(result)) {
		return fmt.Errorf("internal error: repaired output failed strict validation")
	}

	if debugMode {
		var decoded any
		if err := json.Unmarshal([]byte(result), &decoded); err != nil {
			logger.WithError(err).Warn("failed to decode repaired output for debug printing")
		} else {
			repr.New(os.Stderr).Println(decoded)
		}
	}

	if outPath == "" {
		fmt.Println(result)
		return nil
	}

	return writeOutput(outPath, result, gzipOutput)
}

func writeOutput(path, result string, gzipped bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	if !gzipped {
		_, err = f.WriteString(result)
		return err
	}

	gw := gzip.NewWriter(f)
	defer gw.Close()
	_, err = gw.Write([]byte(result))
	return err
}
