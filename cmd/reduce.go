package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"golang.org/x/term"

	"github.com/SamWanekeya/UnCSS-Online/internal/config"
	"github.com/SamWanekeya/UnCSS-Online/internal/logging"
	"github.com/SamWanekeya/UnCSS-Online/internal/stats"
	"github.com/SamWanekeya/UnCSS-Online/internal/submission"
	"github.com/SamWanekeya/UnCSS-Online/internal/ui"
)

// reduceOptions are the flags of the reduce command.
type reduceOptions struct {
	htmlPath string
	cssPath  string
	outPath  string
	stats    bool
	json     bool
}

var reduceFlags reduceOptions

var reduceCmd = &cobra.Command{
	Use:   "reduce",
	Short: "Reduce a stylesheet once, without the form",
	Long: `Send one HTML file and one CSS file to the UnCSS endpoint and write the
reduced stylesheet to stdout, or to --out.

On failure the error is printed as "name: message" and the command exits
non-zero.`,
	Example: `  uncss reduce --html index.html --css site.css > site.min.css
  uncss reduce --html index.html --css site.css --out site.min.css --minify --stats`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromViper(viper.GetViper())
		if err != nil {
			return err
		}
		return runReduce(cmd.Context(), cfg, reduceFlags, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	flags := reduceCmd.Flags()
	flags.StringVar(&reduceFlags.htmlPath, "html", "", "HTML file the stylesheet is checked against")
	flags.StringVar(&reduceFlags.cssPath, "css", "", "CSS file to reduce")
	flags.StringVarP(&reduceFlags.outPath, "out", "o", "", "write the reduced CSS here instead of stdout")
	flags.Bool(config.KeyMinify, false, "minify the reduced CSS before writing it")
	flags.BoolVar(&reduceFlags.stats, "stats", false, "print an input/output summary to stderr")
	flags.BoolVar(&reduceFlags.json, "json", false, "write the result as a JSON object")
	_ = reduceCmd.MarkFlagRequired("html")
	_ = reduceCmd.MarkFlagRequired("css")
	_ = viper.BindPFlag(config.KeyMinify, flags.Lookup(config.KeyMinify))
}

// reduceResult is the --json output.
type reduceResult struct {
	OutputCSS string `json:"outputCss"`
	Minified  bool   `json:"minified"`
	Summary   string `json:"summary,omitempty"`
}

// runReduce runs one submission through the same controller the form uses.
func runReduce(ctx context.Context, cfg config.Config, opts reduceOptions, stdout, stderr io.Writer) error {
	logger, logCloser, err := logging.Setup(logging.Options{
		File:    cfg.LogFile,
		Debug:   cfg.Debug,
		Console: stderr,
	})
	if err != nil {
		return err
	}
	defer logCloser.Close()

	html, err := readOptional(opts.htmlPath)
	if err != nil {
		return err
	}
	input, err := readOptional(opts.cssPath)
	if err != nil {
		return err
	}

	svc, err := newServices(cfg, logger, false)
	if err != nil {
		return err
	}
	defer svc.Close()

	var spinner *ui.Spinner
	if f, ok := stderr.(*os.File); ok && term.IsTerminal(int(f.Fd())) && !cfg.Debug {
		spinner = ui.NewSpinner(f, "Reducing "+opts.cssPath+"...")
		spinner.Start()
	}

	outcome := svc.controller.Submit(ctx, submission.Input{HTML: html, CSS: input})
	if spinner != nil {
		spinner.Stop()
	}
	if outcome.Failure != nil {
		return errors.New(submission.Describe(outcome.Failure))
	}

	output := outcome.OutputCSS
	if cfg.Minify {
		output, err = minifyCSS(output)
		if err != nil {
			return err
		}
	}

	var summary string
	if opts.stats {
		report, err := stats.Build(html, input, output, true)
		if err != nil {
			logger.Warn("failed to summarize inputs", "err", err)
		} else {
			summary = report.String()
		}
	}

	if opts.json {
		data, err := sonic.ConfigStd.MarshalIndent(reduceResult{
			OutputCSS: output,
			Minified:  cfg.Minify,
			Summary:   summary,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		output = string(data) + "\n"
	} else if summary != "" {
		fmt.Fprintln(stderr, summary)
	}

	return writeOutput(opts.outPath, output, stdout)
}

// minifyCSS minifies a stylesheet. Only the written copy is minified.
func minifyCSS(src string) (string, error) {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	out, err := m.String("text/css", src)
	if err != nil {
		return "", fmt.Errorf("failed to minify output: %w", err)
	}
	return out, nil
}

// writeOutput writes s to path, or to w when path is empty.
func writeOutput(path, s string, w io.Writer) error {
	if path == "" {
		_, err := io.WriteString(w, s)
		return err
	}
	if err := os.WriteFile(path, []byte(s), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
