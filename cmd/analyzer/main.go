// Package main is the entry point for the offline timings analyzer.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/paulsc/officehours/internal/analyzer"
	"github.com/paulsc/officehours/internal/timelog"
)

func main() {
	help := flag.Bool("help", false, "display help message")
	flag.Parse()

	if *help || flag.NArg() != 1 {
		fmt.Println("Office Hours Timings Analyzer")
		fmt.Println()
		fmt.Println("Usage: analyzer [options] <timings.csv>")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		if *help {
			os.Exit(0)
		}
		os.Exit(2)
	}

	path := flag.Arg(0)
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot open timings log:", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := timelog.ReadRows(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot parse timings log:", err)
		os.Exit(1)
	}

	report := analyzer.Analyze(rows)
	report.Render(os.Stdout)
}
