package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ligustah/modelpull/internal/catalog"
)

// runCatalog validates a catalog file and lists its assets with the type
// each one is sent to the download service as.
func runCatalog(args []string) int {
	fs := flag.NewFlagSet("catalog", flag.ExitOnError)

	path := fs.String("catalog", "", "Catalog file (required)")
	quiet := fs.Bool("q", false, "Only validate, print nothing on success")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: modelpull catalog [options]

Validate a catalog file and list its assets.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	if *path == "" {
		*path = os.Getenv("MODELPULL_CATALOG")
	}
	if *path == "" {
		fmt.Fprintln(os.Stderr, "Error: -catalog is required")
		fs.Usage()
		return ExitInvalidArgs
	}

	cat, err := catalog.LoadFile(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitConfigError
	}
	if *quiet {
		return ExitSuccess
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tTYPE\tNAME")
	for _, a := range cat {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.ID, a.Category, a.Category.WireType(), a.Name)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}
	fmt.Printf("%d assets\n", len(cat))
	return ExitSuccess
}
