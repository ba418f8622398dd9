package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alexghenderson/downloader-ctl/internal/batch"
)

func handleBatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("batch subcommand required: import")
	}
	switch args[0] {
	case "import":
		return handleBatchImport(ctx, args[1:])
	default:
		return fmt.Errorf("unknown batch subcommand: %s", args[0])
	}
}

// handleBatchImport turns a plain text URL list into a batch YAML file
// that 'add --batch' accepts. It never talks to the control service.
func handleBatchImport(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("batch import", flag.ContinueOnError)
	inPath := fs.String("input", "", "Text file with one download URL per line ('#' comments allowed)")
	outPath := fs.String("output", "", "Output batch YAML path (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" {
		return errors.New("--input is required")
	}

	f, err := os.Open(*inPath)
	if err != nil {
		return err
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 0, 1024), 1024*1024)
	var lines []string
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		return err
	}

	out := batch.FromURLs(lines)
	if len(out.Jobs) == 0 {
		return fmt.Errorf("no URLs found in %s", *inPath)
	}

	if *outPath == "" {
		enc := yamlEncoder()
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	}
	if err := batch.Save(*outPath, out); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote batch: %s (%d jobs)\n", *outPath, len(out.Jobs))
	return nil
}

// yamlEncoder provides a YAML encoder to stdout with indentation settings.
func yamlEncoder() *yaml.Encoder {
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	return enc
}
