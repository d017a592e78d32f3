package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"browser-command-agent/internal/di"
	"browser-command-agent/internal/infrastructure/env"

	"github.com/spf13/cobra"
)

// App describes one interactive front-end.
type App struct {
	Name   string
	Short  string
	Mode   di.Mode
	Banner string
}

var (
	Agent = App{
		Name:  "agent",
		Short: "Drive a browser with literal commands",
		Mode:  di.ModeLiteral,
		Banner: "Browser agent ready. Type commands such as 'open example.com', 'search cats', or 'click Wikipedia'.\n" +
			"Type 'exit' to quit.",
	}

	Assistant = App{
		Name:  "assistant",
		Short: "Drive a browser with natural language",
		Mode:  di.ModeAssistant,
		Banner: "Natural language browser assistant ready. Ask it to open pages, search or click links. " +
			"Type 'exit' to quit.",
	}
)

// NewRootCommand builds the command for app. Options are handed to the
// container and exist for tests.
func NewRootCommand(app App, opts ...di.Option) *cobra.Command {
	var headless bool

	cmd := &cobra.Command{
		Use:           fmt.Sprintf("%s [%s]", app.Name, strings.Join(di.Drivers(), "|")),
		Short:         app.Short,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			requested := ""
			if len(args) == 1 {
				requested = args[0]
			}

			driver, ok := di.ResolveDriver(requested)
			if !ok {
				fmt.Fprintf(cmd.ErrOrStderr(), "Unknown browser %q, using %s.\n", requested, driver)
			}

			return run(cmd.Context(), app, driver, headless, opts...)
		},
	}
	cmd.Flags().BoolVar(&headless, "headless", false, "run the browser without a visible window")

	return cmd
}

func run(ctx context.Context, app App, driver string, headless bool, opts ...di.Option) error {
	envService := env.NewEnvService()

	container, err := di.NewContainer(ctx, di.Config{
		Mode:     app.Mode,
		Driver:   driver,
		Headless: headless,
		Env:      envService.Config(),
	}, opts...)
	if err != nil {
		return err
	}
	defer container.Close()

	container.UI.ShowBanner(ctx, app.Banner)

	reason, err := container.Session.Run(ctx)
	if err != nil {
		container.Logger.Error("Session ended with error", "reason", reason, "error", err)
		return err
	}

	container.Logger.Info("Session ended", "reason", reason)
	return nil
}

// Execute runs app until the session ends. An interrupt or SIGTERM cancels
// the wait for input and the session tears down normally.
func Execute(app App) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := NewRootCommand(app).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
