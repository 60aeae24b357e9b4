// Radiola CLI — инструмент командной строки для ручных операций
// планировщика.
//
// Использование:
//
//	radiola <command> [flags]
//
// Команды:
//
//	sync run  Ручной запуск одного яруса планировщика
//	feedback  Feedback о смене трека в эфире станции
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Radiola/internal/app"
	"github.com/shaiso/Radiola/internal/cli"
	"github.com/shaiso/Radiola/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "radiola",
		Short:         "Radiola CLI — radio station sync tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	envFn := func(cmd *cobra.Command) (*app.Env, error) {
		return app.NewEnv(cmd.Context(), telemetry.SetupLogger())
	}

	rootCmd.AddCommand(
		cli.NewSyncCmd(envFn),
		cli.NewFeedbackCmd(envFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stdout, "Error: %s", err)
		os.Exit(1)
	}
}
