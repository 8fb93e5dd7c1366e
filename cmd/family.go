package cmd

import (
	"context"
	"fmt"

	"family-sync/core/cache"
	"family-sync/core/config"
	"family-sync/core/logger"
	"family-sync/core/remote"
	"family-sync/core/session"
	"family-sync/core/storage"
	"family-sync/feature/family"

	"github.com/spf13/cobra"
)

// familyCmd prints the member list with derived presence, using the same
// reconciliation path as the HTTP surface. Handy for checking what a device
// would render without standing up the server.
var familyCmd = &cobra.Command{
	Use:   "family",
	Short: "Print the family member list with presence",
	RunE:  runFamily,
}

func init() {
	RootCmd.AddCommand(familyCmd)
}

func runFamily(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	store := cache.New(cfg.Database, l)
	defer store.Close()

	backend, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}
	rc := remote.NewClient(backend, cfg.Storage.Bucket, l)

	svc := family.NewService(rc, store, session.FromConfig(cfg.Session), cfg.Family, l)
	members, err := svc.Members(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch members: %w", err)
	}

	if len(members) == 0 {
		fmt.Println("no members found (remote unreachable and cache empty?)")
		return nil
	}

	for _, m := range members {
		line := fmt.Sprintf("%-4d %s %s\t%s", m.User.ID, m.User.FirstName, m.User.LastName, m.Status.Kind)
		if m.Status.Since != "" {
			line += fmt.Sprintf(" (since %s)", m.Status.Since)
		}
		fmt.Println(line)
	}
	return nil
}
