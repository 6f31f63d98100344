package dmsctl

import (
	"context"
	"flag"
	"fmt"

	"github.com/edvin/dockspace/internal/dms"
)

// RunScan compares storage against the on-disk config files. With -dry-run
// the report is printed and the exit code is always zero; in repair mode the
// exit code is nonzero when any conflicting record was overridden.
func RunScan(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	outputDir := fs.String("output-dir", "", "Override the configured DMS output directory")
	dryRun := fs.Bool("dry-run", false, "Report drift without repairing it")
	fs.Parse(args)

	e, err := setup(ctx, *outputDir)
	if err != nil {
		return fail(err)
	}
	defer e.close()

	report, err := e.syncer.Scan(ctx, *dryRun)
	if err != nil {
		return fail(err)
	}

	printDrift(report)

	if *dryRun {
		return 0
	}
	if report.Conflicts() > 0 {
		return 1
	}
	return 0
}

func printDrift(report *dms.DriftReport) {
	if report.Clean() {
		fmt.Println("no drift detected")
		return
	}

	for _, f := range report.Files {
		if f.Error != "" {
			fmt.Printf("%s: ERROR %s\n", f.File, f.Error)
			continue
		}
		if f.Diff.Empty() && len(f.Orphans) == 0 && len(f.ParseErrors) == 0 && len(f.ImportErrors) == 0 {
			continue
		}
		fmt.Printf("%s:\n", f.File)
		for _, k := range f.OnlyInStorage {
			fmt.Printf("  missing from file:   %s\n", k)
		}
		for _, k := range f.OnlyInFile {
			fmt.Printf("  missing from store:  %s\n", k)
		}
		for _, c := range f.Conflicting {
			fmt.Printf("  conflict (storage wins): %s\n", c.Key)
		}
		for _, k := range f.Orphans {
			fmt.Printf("  orphan (not imported):   %s\n", k)
		}
		for _, p := range f.ParseErrors {
			fmt.Printf("  malformed line %d:    %s\n", p.LineNo, p.Reason)
		}
		for _, ie := range f.ImportErrors {
			fmt.Printf("  import failed:       %s\n", ie)
		}
	}

	if report.Repaired {
		fmt.Printf("repaired: %d conflicts resolved, files re-exported\n", report.Conflicts())
	}
}
