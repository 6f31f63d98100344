package dmsctl

import (
	"context"
	"flag"
	"fmt"

	"github.com/edvin/dockspace/internal/dms"
)

// RunExport writes all three Docker Mailserver config files from storage.
// Returns nonzero when any file failed to export or any record was skipped
// as malformed.
func RunExport(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	outputDir := fs.String("output-dir", "", "Override the configured DMS output directory")
	fs.Parse(args)

	e, err := setup(ctx, *outputDir)
	if err != nil {
		return fail(err)
	}
	defer e.close()

	res, err := e.syncer.Export(ctx)
	if err != nil {
		return fail(err)
	}

	return printExport(res)
}

func printExport(res *dms.ExportResult) int {
	for _, f := range res.Files {
		if f.Error != "" {
			fmt.Printf("%-24s FAILED: %s\n", f.File, f.Error)
			continue
		}
		status := fmt.Sprintf("%d records", f.Records)
		if len(f.Malformed) > 0 {
			status += fmt.Sprintf(", %d skipped as malformed", len(f.Malformed))
		}
		fmt.Printf("%-24s %s\n", f.File, status)
		for _, m := range f.Malformed {
			fmt.Printf("  skipped %s: %s\n", m.Key, m.Reason)
		}
	}
	fmt.Printf("export finished in %s\n", res.Elapsed)

	if res.Failed() {
		return 1
	}
	return 0
}
