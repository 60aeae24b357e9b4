package cli

import (
	"github.com/spf13/cobra"

	"github.com/shaiso/Radiola/internal/app"
	"github.com/shaiso/Radiola/internal/domain"
)

// NewSyncCmd создаёт группу команд планировщика.
func NewSyncCmd(envFn func(cmd *cobra.Command) (*app.Env, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run sync tiers manually",
	}

	cmd.AddCommand(newSyncRunCmd(envFn))

	return cmd
}

func newSyncRunCmd(envFn func(cmd *cobra.Command) (*app.Env, error)) *cobra.Command {
	var tierName string
	var force bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run all tasks of one sync tier",
		RunE: func(cmd *cobra.Command, args []string) error {
			tier, err := domain.ParseTier(tierName)
			if err != nil {
				return err
			}

			env, err := envFn(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			runner, err := env.Runner(cmd.Context())
			if err != nil {
				return err
			}

			// Ошибки отдельных задач изолированы внутри; сюда
			// долетает только отказ инфраструктуры блокировок.
			return runner.RunTier(cmd.Context(), tier, force)
		},
	}

	cmd.Flags().StringVar(&tierName, "tier", "", "Tier to run (fast, minute, five_minute, hourly)")
	cmd.Flags().BoolVar(&force, "force", false, "Run even if the tier lock is busy")
	_ = cmd.MarkFlagRequired("tier")

	return cmd
}
