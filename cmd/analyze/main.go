// Command analyze runs the invoice summarizer on local PDF files and prints
// the same JSON the /analyze endpoint returns, one line per file.
//
// Usage:
//
//	analyze [-backend rows|geometric] [-validation off|relaxed|strict] [-v] invoice.pdf...
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/Shimizu-Technology/finsight-api/internal/logger"
	"github.com/Shimizu-Technology/finsight-api/internal/services/invoice"
	"github.com/Shimizu-Technology/finsight-api/internal/services/pdf"
)

// Exit codes.
const (
	exitOK       = 0
	exitDocument = 1 // at least one file failed to process
	exitUsage    = 2
)

// result mirrors the /analyze response body, plus the file name when
// several files are given. Exactly one of Sum and Error is set.
type result struct {
	File  string   `json:"file,omitempty"`
	Sum   *float64 `json:"sum,omitempty"`
	Error string   `json:"error,omitempty"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	backend := fs.String("backend", pdf.BackendRows, "table extraction backend: rows or geometric")
	validation := fs.String("validation", pdf.ValidationRelaxed, "PDF validation: off, relaxed or strict")
	tempDir := fs.String("temp-dir", "", "scratch directory for the geometric backend")
	verbose := fs.Bool("v", false, "log extraction details to stderr")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: analyze [flags] invoice.pdf...")
		fs.PrintDefaults()
		return exitUsage
	}

	log := zerolog.Nop()
	if *verbose {
		log = logger.NewWithWriter(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.Kitchen}).Level(zerolog.DebugLevel)
	}

	opener, err := pdf.NewOpener(pdf.Options{Backend: *backend, Validation: *validation, TempDir: *tempDir})
	if err != nil {
		fmt.Fprintf(stderr, "analyze: %v\n", err)
		return exitUsage
	}
	s := invoice.New(opener)

	ctx := logger.WithContext(context.Background(), log)
	enc := json.NewEncoder(stdout)
	code := exitOK

	for _, path := range fs.Args() {
		fileLog := log.With().Str("file", path).Logger()
		res := result{}
		if fs.NArg() > 1 {
			res.File = path
		}

		data, err := os.ReadFile(path)
		if err == nil {
			var total float64
			if total, err = s.Analyze(logger.WithContext(ctx, fileLog), data); err == nil {
				res.Sum = &total
			}
		}
		if err != nil {
			fileLog.Debug().Err(err).Msg("failed")
			res.Error = "Failed to process PDF: " + err.Error()
			code = exitDocument
		}

		if err := enc.Encode(res); err != nil {
			fmt.Fprintf(stderr, "analyze: %v\n", err)
			return exitDocument
		}
	}
	return code
}
