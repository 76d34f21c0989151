package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/SamWanekeya/UnCSS-Online/internal/clipboard"
	"github.com/SamWanekeya/UnCSS-Online/internal/config"
	"github.com/SamWanekeya/UnCSS-Online/internal/logging"
	"github.com/SamWanekeya/UnCSS-Online/internal/reducer"
	"github.com/SamWanekeya/UnCSS-Online/internal/submission"
	"github.com/SamWanekeya/UnCSS-Online/internal/ui"
)

var (
	configFile string
	htmlFile   string
	cssFile    string
)

// version is set by GetRootCommand and reported in the User-Agent header.
var version = "dev"

// rootCmd opens the interactive form.
var rootCmd = &cobra.Command{
	Use:   "uncss",
	Short: "Remove unused CSS from a stylesheet",
	Long: `UnCSS Online! Simply UnCSS your styles.

Paste your HTML and CSS into the form, submit, and take the shortened CSS.
The reduction itself is done by a remote UnCSS service; see --endpoint.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runForm(cmd.Context())
	},
}

// GetRootCommand returns the root command with the version set. Call it from
// main with the build's version string.
func GetRootCommand(v string) *cobra.Command {
	if v != "" {
		version = v
	}
	rootCmd.Version = version
	return rootCmd
}

// InitConfig loads the config file and environment into the global viper
// instance. It runs before every command.
func InitConfig() {
	used, err := config.Init(viper.GetViper(), configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if used != "" && viper.GetBool(config.KeyDebug) {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", used)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default is $HOME/.uncss.yml)")
	flags.String(config.KeyEndpoint, config.DefaultEndpoint, "URL of the UnCSS reduction endpoint")
	flags.Duration(config.KeyTimeout, config.DefaultTimeout, "timeout for a single reduction request")
	flags.String(config.KeySentryDSN, "", "Sentry DSN for error reporting (empty disables Sentry)")
	flags.String(config.KeySentryEnvironment, config.DefaultSentryEnvironment, "Sentry environment tag")
	flags.Bool(config.KeyDebug, false, "enable debug logging")
	flags.String(config.KeyLogFile, "", "write logs to this file")

	rootCmd.Flags().StringVar(&htmlFile, "html-file", "", "prefill the HTML field from a file")
	rootCmd.Flags().StringVar(&cssFile, "css-file", "", "prefill the CSS field from a file")

	// Bind flags to viper for config file support
	for _, key := range []string{
		config.KeyEndpoint,
		config.KeyTimeout,
		config.KeySentryDSN,
		config.KeySentryEnvironment,
		config.KeyDebug,
		config.KeyLogFile,
	} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}

	rootCmd.AddCommand(reduceCmd, configCmd)
}

// runForm starts the interactive Bubble Tea form.
//
// It:
//  1. Resolves the configuration and sends logs to the log file only, since
//     the form owns the screen.
//  2. Wires the reducer client, telemetry and clipboard into a submission
//     controller.
//  3. Gets the terminal dimensions (falls back to 80x24 if unavailable).
//  4. Runs a single tea.Program until the user quits.
func runForm(ctx context.Context) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the interactive form needs a terminal; use `uncss reduce` for scripts")
	}

	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return err
	}

	logger, logCloser, err := logging.Setup(logging.Options{File: cfg.LogFile, Debug: cfg.Debug})
	if err != nil {
		return err
	}
	defer logCloser.Close()

	prefillHTML, err := readOptional(htmlFile)
	if err != nil {
		return err
	}
	prefillCSS, err := readOptional(cssFile)
	if err != nil {
		return err
	}

	svc, err := newServices(cfg, logger, cfg.LogFile == "")
	if err != nil {
		return err
	}
	defer svc.Close()

	binding := clipboard.NewBinding(nil)
	svc.controller.Activate(binding)

	// Determine terminal size; fall back gracefully.
	termWidth, termHeight, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || termWidth == 0 {
		termWidth = 80
		termHeight = 24
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := ui.NewFormModel(svc.controller, binding, ui.FormOptions{
		Context:  ctx,
		HTML:     prefillHTML,
		CSS:      prefillCSS,
		Endpoint: svc.client.Endpoint(),
		Width:    termWidth,
		Height:   termHeight,
		Reporter: svc.reporter,
		Logger:   logger,
	})

	program := tea.NewProgram(model, tea.WithContext(ctx))
	_, runErr := program.Run()
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

// readOptional returns the contents of path, or "" when path is empty.
func readOptional(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// userAgent is sent with every reduction request.
func userAgent() string {
	return "uncss/" + version
}

// Compile-time check that the reducer client satisfies the controller's
// dependency.
var _ submission.Reducer = (*reducer.Client)(nil)
