package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"

	"github.com/insightdelivered/statement-normalizer/internal/api"
	"github.com/insightdelivered/statement-normalizer/internal/pipeline"
	"github.com/insightdelivered/statement-normalizer/internal/writer"
)

const version = "1.0.0"

func main() {
	passwordFlag := flag.String("password", "", "Password for encrypted PDF statements")
	outputFlag := flag.String("output", "", "Output CSV file path (defaults to input filename with .csv extension)")
	serveFlag := flag.String("serve", "", "Start the HTTP API on the given address (e.g. :8080) instead of converting files")
	verboseFlag := flag.Bool("verbose", false, "Enable debug logging")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Bank Statement Normalizer
by Insight Delivered

Converts bank statement exports (PDF, CSV, XLS, XLSX) from Indian banks
into a canonical transaction CSV.

Usage:
  statement-normalizer [flags] <input.pdf> [input2.csv ...]
  statement-normalizer -serve :8080

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Convert a statement
  statement-normalizer statement.pdf

  # Encrypted PDF
  statement-normalizer -password secret statement.pdf

  # Custom output path
  statement-normalizer -output transactions.csv statement.xlsx

  # Run as an upload API
  statement-normalizer -serve :8080

Supported Banks:
  ICICI, HDFC, SBI, Federal, Kotak, Axis, Canara
  (unknown banks fall back to generic table structuring)
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("statement-normalizer v%s\n", version)
		os.Exit(0)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if *verboseFlag {
		logger.SetLevel(log.DebugLevel)
	}

	pipe := pipeline.New(logger)

	if *serveFlag != "" {
		serve(*serveFlag, pipe, logger)
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	for _, inputPath := range flag.Args() {
		if err := processFile(pipe, inputPath, *passwordFlag, *outputFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			os.Exit(1)
		}
	}
}

func serve(addr string, pipe *pipeline.Pipeline, logger *log.Logger) {
	app := fiber.New(fiber.Config{
		BodyLimit:             32 << 20,
		DisableStartupMessage: true,
	})
	api.NewHandler(pipe, logger).RegisterRoutes(app)

	logger.Info("listening", "addr", addr)
	if err := app.Listen(addr); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}

func processFile(pipe *pipeline.Pipeline, inputPath, password, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	fmt.Printf("Processing: %s\n", inputPath)

	records, err := pipe.Process(data, filepath.Base(inputPath), password)
	if err != nil {
		return err
	}

	fmt.Printf("  Found %d transaction(s)\n", len(records))
	if len(records) == 0 {
		fmt.Println("  Warning: No transactions found. The statement format may not match expected patterns.")
	}
	if len(records) > 0 && records[0].BankCode != "" {
		fmt.Printf("  Detected bank: %s\n", records[0].BankCode)
	}

	outPath := outputPath
	if outPath == "" {
		outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".csv"
	}

	w := &writer.CSVWriter{}
	if err := w.WriteToFile(outPath, records); err != nil {
		return fmt.Errorf("CSV write failed: %w", err)
	}

	fmt.Printf("  Output: %s\n", outPath)
	fmt.Println("  Done.")
	return nil
}
