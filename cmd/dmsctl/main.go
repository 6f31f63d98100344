package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/edvin/dockspace/internal/dmsctl"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: dmsctl <command> [flags]

Commands:
  export        Write postfix-accounts.cf, postfix-virtual.cf and dovecot-quotas.cf from storage
  scan          Detect drift between storage and the config files; repairs unless -dry-run
  set-password  Rotate an account password and re-export
  seed          Load accounts, aliases, quotas and groups from a YAML file

Run 'dmsctl <command> -h' for command flags.
`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	args := os.Args[2:]
	var code int
	switch os.Args[1] {
	case "export":
		code = dmsctl.RunExport(ctx, args)
	case "scan":
		code = dmsctl.RunScan(ctx, args)
	case "set-password":
		code = dmsctl.RunSetPassword(ctx, args)
	case "seed":
		code = dmsctl.RunSeed(ctx, args)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		code = 2
	}
	os.Exit(code)
}
