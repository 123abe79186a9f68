// Command taxreport runs the tax lot engine over a CoinTracking export
// without a database or server. It reads one or two export files, realizes
// capital gains FIFO, and writes the report to stdout or a file.
//
// A second export with exact timestamps can be merged into the first with
// -combine, matching trades on identity with times truncated to the minute.
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"taxlot/internal/importer"
	"taxlot/internal/model"
	"taxlot/internal/report"
	"taxlot/internal/taxlot"
)

func main() {
	log.SetFlags(0)

	input := flag.String("input", "", "trade export to read (.csv or .json)")
	combine := flag.String("combine", "", "optional second export with precise timestamps")
	output := flag.String("output", "", "report destination (default stdout)")
	format := flag.String("format", "csv", "report format: csv or json")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	trades, err := readTrades(*input)
	if err != nil {
		log.Fatalf("reading %s: %v", *input, err)
	}

	if *combine != "" {
		precise, err := readTrades(*combine)
		if err != nil {
			log.Fatalf("reading %s: %v", *combine, err)
		}
		if trades, err = importer.Combine(trades, precise); err != nil {
			log.Fatalf("combining exports: %v", err)
		}
	}

	processor := taxlot.NewProcessor()
	transactions, err := processor.Process(trades)
	if err != nil {
		log.Fatalf("processing trades: %v", err)
	}
	for _, issue := range processor.Issues() {
		log.Printf("warning: %s", issue.Message)
	}

	rows := make([]model.ReportTransaction, 0, len(transactions))
	for _, tx := range transactions {
		rows = append(rows, model.NewReportTransaction(tx))
	}

	out := io.Writer(os.Stdout)
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("creating %s: %v", *output, err)
		}
		defer f.Close()
		out = f
	}

	switch *format {
	case "csv":
		err = report.WriteCSV(out, rows)
	case "json":
		err = report.WriteJSON(out, rows)
	default:
		log.Fatalf("unsupported format %q", *format)
	}
	if err != nil {
		log.Fatalf("writing report: %v", err)
	}
}

// readTrades picks the parser from the file extension.
func readTrades(path string) ([]model.Trade, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return importer.ReadJSON(f)
	}
	return importer.ReadCSV(f)
}
