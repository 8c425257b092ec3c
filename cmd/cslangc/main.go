// Command cslangc is the Processor's CLI front end (spec §10, §11): it reads
// a parsed AST and a Module Repository as JSON — standing in for the
// out-of-scope tokenizer/parser and runtime-imports catalog — runs the
// Driver, and writes the resulting IR either as JSON or as the `\XX`-escaped
// data-segment text form, reporting warnings and errors along the way.
//
// Flag-based configuration follows the teacher's cmd/run/main.go: no config
// file format, everything is a flag.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/MrShadowKiller/c-slang/ast"
	"github.com/MrShadowKiller/c-slang/driver"
	"github.com/MrShadowKiller/c-slang/internal/diag"
	"github.com/MrShadowKiller/c-slang/modules"
)

func main() {
	var (
		astPath  = flag.String("ast", "", "path to the parsed AST, as JSON (required)")
		modsPath = flag.String("modules", "", "path to the module repository, as JSON (optional)")
		outPath  = flag.String("o", "", "write output here instead of stdout")
		textMode = flag.Bool("text", false, "write the data segment in \\XX-escaped text form instead of JSON")
		interact = flag.Bool("i", false, "open an interactive browser over the produced IR")
		warnErr  = flag.Bool("warnings-as-errors", false, "treat warnings as a fatal error")
		verbose  = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		l, err := zap.NewDevelopment()
		if err == nil {
			diag.SetLogger(l)
		}
	}

	if *astPath == "" {
		fmt.Fprintln(os.Stderr, "cslangc: -ast is required")
		flag.Usage()
		os.Exit(1)
	}

	root, err := loadAST(*astPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cslangc: %v\n", err)
		os.Exit(1)
	}

	repo := modules.NewRepository()
	if *modsPath != "" {
		repo, err = loadRepository(*modsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cslangc: %v\n", err)
			os.Exit(1)
		}
	}

	result, err := driver.Process(root, repo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cslangc: %v\n", err)
		os.Exit(1)
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "cslangc: warning: %s\n", w.String())
	}
	if *warnErr && len(result.Warnings) > 0 {
		fmt.Fprintf(os.Stderr, "cslangc: %d warning(s) treated as errors\n", len(result.Warnings))
		os.Exit(1)
	}

	if *interact {
		if err := runInteractive(result.Root); err != nil {
			fmt.Fprintf(os.Stderr, "cslangc: %v\n", err)
			os.Exit(1)
		}
		return
	}

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cslangc: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if *textMode {
		fmt.Fprintln(out, result.Root.DataSegmentByteStr)
		return
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result.Root); err != nil {
		fmt.Fprintf(os.Stderr, "cslangc: %v\n", err)
		os.Exit(1)
	}
}

func loadAST(path string) (*ast.Root, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading AST: %w", err)
	}
	var root ast.Root
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing AST: %w", err)
	}
	return &root, nil
}

func loadRepository(path string) (*modules.Repository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading module repository: %w", err)
	}
	var repo modules.Repository
	if err := json.Unmarshal(data, &repo); err != nil {
		return nil, fmt.Errorf("parsing module repository: %w", err)
	}
	return &repo, nil
}
