package dmsctl

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/edvin/dockspace/internal/dms"
	"github.com/edvin/dockspace/internal/model"
	"github.com/edvin/dockspace/internal/platform"
)

type seedFile struct {
	Accounts []seedAccount `yaml:"accounts"`
	Groups   []seedGroup   `yaml:"groups"`
}

type seedAccount struct {
	Email     string   `yaml:"email"`
	Password  string   `yaml:"password"`
	Username  string   `yaml:"username"`
	FirstName string   `yaml:"first_name"`
	LastName  string   `yaml:"last_name"`
	Active    *bool    `yaml:"active"`
	Admin     bool     `yaml:"admin"`
	Aliases   []string `yaml:"aliases"`
	Quota     string   `yaml:"quota"`
}

type seedGroup struct {
	Name    string   `yaml:"name"`
	Members []string `yaml:"members"`
}

// RunSeed loads accounts, aliases, quotas and groups from a YAML file into
// storage, then exports the config files. Accounts that already exist are
// skipped, so a seed file can be applied repeatedly.
func RunSeed(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	path := fs.String("f", "", "Seed file (required)")
	fs.Parse(args)

	if *path == "" {
		fmt.Fprintln(os.Stderr, "Error: -f flag is required")
		fs.Usage()
		return 1
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		return fail(err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fail(fmt.Errorf("parse seed file: %w", err))
	}

	e, err := setup(ctx, "")
	if err != nil {
		return fail(err)
	}
	defer e.close()

	exitCode := 0
	for _, sa := range seed.Accounts {
		if err := e.seedAccount(ctx, sa); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", sa.Email, err)
			exitCode = 1
		}
	}
	for _, sg := range seed.Groups {
		if err := e.seedGroup(ctx, sg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: group %s: %v\n", sg.Name, err)
			exitCode = 1
		}
	}

	res, err := e.syncer.Export(ctx)
	if err != nil {
		return fail(err)
	}
	if res.Failed() {
		exitCode = 1
	}
	fmt.Printf("seed applied: %d accounts, %d groups\n", len(seed.Accounts), len(seed.Groups))
	return exitCode
}

func (e *env) seedAccount(ctx context.Context, sa seedAccount) error {
	if sa.Email == "" || sa.Password == "" {
		return fmt.Errorf("email and password are required")
	}

	account, err := e.services.MailAccount.GetByEmail(ctx, sa.Email)
	if err != nil {
		now := time.Now().UTC()
		account = &model.MailAccount{
			ID:        platform.NewID(),
			Username:  sa.Username,
			Email:     sa.Email,
			FirstName: sa.FirstName,
			LastName:  sa.LastName,
			Active:    sa.Active == nil || *sa.Active,
			Admin:     sa.Admin,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := e.services.MailAccount.Create(ctx, account, sa.Password); err != nil {
			return err
		}
		fmt.Printf("created account %s\n", account.Email)
	}

	for _, alias := range sa.Aliases {
		now := time.Now().UTC()
		err := e.services.MailAlias.Create(ctx, &model.MailAlias{
			ID:        platform.NewID(),
			Alias:     alias,
			AccountID: account.ID,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			// Re-running a seed hits the unique constraint; not an error.
			e.logger.Debug().Str("alias", alias).Err(err).Msg("seed: alias skipped")
		}
	}

	if sa.Quota != "" {
		size, suffix, err := parseQuotaSpec(sa.Quota)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		return e.services.MailQuota.Set(ctx, &model.MailQuota{
			ID:        platform.NewID(),
			AccountID: account.ID,
			SizeValue: size,
			Suffix:    suffix,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return nil
}

func (e *env) seedGroup(ctx context.Context, sg seedGroup) error {
	if sg.Name == "" {
		return fmt.Errorf("group name is required")
	}

	group, err := e.services.MailGroup.GetByName(ctx, sg.Name)
	if err != nil {
		group = &model.MailGroup{
			ID:        platform.NewID(),
			Name:      sg.Name,
			CreatedAt: time.Now().UTC(),
		}
		if err := e.services.MailGroup.Create(ctx, group); err != nil {
			return err
		}
		fmt.Printf("created group %s\n", group.Name)
	}

	for _, email := range sg.Members {
		account, err := e.services.MailAccount.GetByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("member %s: %w", email, err)
		}
		if err := e.services.MailGroup.AddMember(ctx, group.ID, account.ID); err != nil {
			return fmt.Errorf("add member %s: %w", email, err)
		}
	}
	return nil
}

// parseQuotaSpec parses a "10G" style quota value.
func parseQuotaSpec(spec string) (int64, string, error) {
	spec = strings.ToUpper(strings.TrimSpace(spec))
	if len(spec) < 2 {
		return 0, "", fmt.Errorf("quota %q must be a size followed by one of B, K, M, G, T", spec)
	}
	suffix := spec[len(spec)-1:]
	if !strings.Contains(dms.QuotaSuffixes, suffix) {
		return 0, "", fmt.Errorf("quota suffix %q not one of B, K, M, G, T", suffix)
	}
	size, err := strconv.ParseInt(spec[:len(spec)-1], 10, 64)
	if err != nil || size <= 0 {
		return 0, "", fmt.Errorf("quota size in %q must be a positive integer", spec)
	}
	return size, suffix, nil
}
