package dmsctl

import (
	"context"
	"flag"
	"fmt"
	"os"
)

// RunSetPassword rotates an account's password and re-exports the config
// files so the running mailserver picks up the new hash.
func RunSetPassword(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("set-password", flag.ExitOnError)
	email := fs.String("email", "", "Mailbox address (required)")
	password := fs.String("password", "", "New password (required)")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "Error: -email and -password are required")
		fs.Usage()
		return 1
	}

	e, err := setup(ctx, "")
	if err != nil {
		return fail(err)
	}
	defer e.close()

	if err := e.services.MailAccount.SetPasswordByEmail(ctx, *email, *password); err != nil {
		return fail(err)
	}

	res, err := e.syncer.Export(ctx)
	if err != nil {
		return fail(err)
	}
	if res.Failed() {
		fmt.Fprintln(os.Stderr, "password updated, but export reported failures; run dmsctl export")
		return 1
	}

	fmt.Printf("password updated for %s\n", *email)
	return 0
}
