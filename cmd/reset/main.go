// Command reset is the operator tool for bulk-deleting agreements: for a
// whole deployment, a set of courses, contexts, users or policies. Runs
// against the same database and cache as the server; every run ends with a
// full cache purge.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"integrity/internal/agreement"
	"integrity/internal/contextdir"
	"integrity/internal/platform/cache"
	"integrity/internal/platform/config"
	"integrity/internal/platform/logger"
	"integrity/internal/platform/postgres"
	redisplatform "integrity/internal/platform/redis"
	"integrity/internal/reset"
	"integrity/internal/settings"
	"integrity/pkg/platform/audit/publisher"
	auditpg "integrity/pkg/platform/audit/store/postgres"
)

func main() {
	if err := newResetCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newResetCmd() *cobra.Command {
	var (
		configPath string
		actorID    int64
		all        bool
		courseIDs  []int64
		contextIDs []int64
		userIDs    []int64
		policies   []string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Bulk-delete agreement records",
		Long: `Bulk-delete agreement records and purge the statement cache.

Exactly one selector must be given: --all, --course-ids, --context-ids,
--user-ids or --policies. Settings are never touched; disable a policy in a
context through the server API instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sel := reset.Selector{
				All:        all,
				CourseIDs:  courseIDs,
				ContextIDs: contextIDs,
				UserIDs:    userIDs,
				Policies:   policies,
			}
			if err := sel.Validate(); err != nil {
				return err
			}
			if !yes {
				return fmt.Errorf("refusing to delete without --yes")
			}
			return runReset(cmd.Context(), configPath, sel, actorID)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", os.Getenv("INTEGRITY_CONFIG"), "Path to config file")
	cmd.Flags().Int64Var(&actorID, "actor-id", 0, "Operator user id recorded in the audit trail")
	cmd.Flags().BoolVar(&all, "all", false, "Delete every agreement")
	cmd.Flags().Int64SliceVar(&courseIDs, "course-ids", nil, "Delete agreements in all contexts of these courses")
	cmd.Flags().Int64SliceVar(&contextIDs, "context-ids", nil, "Delete agreements in these contexts")
	cmd.Flags().Int64SliceVar(&userIDs, "user-ids", nil, "Delete agreements of these users")
	cmd.Flags().StringSliceVar(&policies, "policies", nil, "Delete agreements for these policies")
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the deletion")

	return cmd
}

func runReset(ctx context.Context, configPath string, sel reset.Selector, actorID int64) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(logger.ParseLevel(cfg.LogLevel))
	slog.SetDefault(log)

	db, err := postgres.Open(cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	defer db.Close()

	var sharedCache cache.Cache
	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		sharedCache = cache.NewRedis(redisClient.Client)
	} else {
		// No shared cache to purge; server processes using the in-process
		// cache must be restarted after a reset.
		sharedCache = cache.NewMemory()
		log.Warn("redis not configured, cache purge only affects this process")
	}

	auditPub := publisher.New(auditpg.New(db), log)
	defer auditPub.Close()

	service := reset.New(
		agreement.NewPostgres(db),
		settings.NewPostgres(db),
		contextdir.NewPostgres(db),
		sharedCache,
		auditPub,
		log,
	)
	if err := service.Reset(ctx, sel, actorID); err != nil {
		return err
	}
	log.Info("reset complete")
	return nil
}
