package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/nao1215/csprecommend/internal/config"
	"github.com/nao1215/csprecommend/internal/fetch"
	"github.com/nao1215/csprecommend/internal/log"
	"github.com/nao1215/csprecommend/internal/model"
	"github.com/nao1215/csprecommend/internal/pipeline"
	"github.com/nao1215/csprecommend/internal/report"
	"github.com/nao1215/csprecommend/internal/tor"
	"github.com/nao1215/csprecommend/internal/uri"
	"github.com/spf13/cobra"
)

// errAnalysisFailed is returned when at least one target could not be
// analysed. The reports of the other targets are still written.
var errAnalysisFailed = errors.New("analysis failed")

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [target...]",
		Short: "Recommend a Content-Security-Policy for HTML documents",
		Long: `Analyze loads each target, collects the origins of the resources it
references and prints the recommended Content-Security-Policy.

A target is an http(s) URL, a local file path, or "-" for stdin. Without
targets the document is read from stdin.

Examples:
  # Analyse a live page
  csprecommend analyze https://example.com/

  # Analyse a saved page as if it were served from www.example.com
  csprecommend analyze --self-host www.example.com index.html

  # Analyse a page piped from another tool
  curl -s https://example.com/ | csprecommend analyze --location https://example.com/

  # Analyse several pages concurrently and write a JSON report
  csprecommend analyze --json -o report.json https://a.example/ https://b.example/

  # Analyse an onion service through the Tor Browser proxy
  csprecommend analyze --proxy 127.0.0.1:9150 http://<address>.onion/

  # Analyse a page whose markup is built by JavaScript
  csprecommend analyze --render https://app.example/

Configuration file (.csprecommend) example:
  defaults:
    user_agent: "Mozilla/5.0"
  sites:
    example.com:
      cookie: "session_id=abc123"
      headers:
        Authorization: "Bearer token"`,
		Args: cobra.ArbitraryArgs,
		RunE: runAnalyzeCmd,
	}

	// Input flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request or render")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent analyses")
	cmd.Flags().String("uri-mode", string(config.DefaultURIMode),
		"Reference grammar: strict or loose")
	cmd.Flags().String("self-host", "",
		"Extra host treated as 'self' (e.g., www.example.com)")
	cmd.Flags().String("location", "",
		"URL assumed for a document read from stdin")
	cmd.Flags().Bool("no-stylesheets", false,
		"Do not read stylesheets for @font-face sources")
	cmd.Flags().String("user-agent", fetch.DefaultUserAgent,
		"User-Agent header for HTTP requests")
	cmd.Flags().Int64("max-body-size", fetch.DefaultMaxBodySize,
		"Maximum bytes read from a document or stylesheet")

	// Network flags
	cmd.Flags().String("proxy", "",
		"Route requests through a SOCKS5 proxy (e.g., 127.0.0.1:9150)")
	cmd.Flags().Bool("tor", false,
		"Start an embedded Tor daemon and route requests through it")
	cmd.Flags().DurationP("tor-timeout", "T", config.DefaultTorStartupTimeout,
		"Timeout for embedded Tor startup")
	cmd.Flags().Bool("render", false,
		"Load http(s) targets in headless Chrome before analysing")
	cmd.Flags().String("chrome-path", "",
		"Chrome or Chromium binary used by --render")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .csprecommend in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// The logger and the report callback share stderr from several goroutines.
	cmd.SetErr(&lockedWriter{w: cmd.ErrOrStderr()})
	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runAnalyze(ctx, cmd, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the
// configuration file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}
	mode, err := flags.GetString("uri-mode")
	if err != nil {
		return nil, err
	}
	cfg.URIMode = uri.Mode(mode)
	if cfg.SelfHost, err = flags.GetString("self-host"); err != nil {
		return nil, err
	}
	if cfg.StdinLocation, err = flags.GetString("location"); err != nil {
		return nil, err
	}
	if cfg.NoStyleSheets, err = flags.GetBool("no-stylesheets"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
		return nil, err
	}

	if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.UseTor, err = flags.GetBool("tor"); err != nil {
		return nil, err
	}
	if cfg.TorStartupTimeout, err = flags.GetDuration("tor-timeout"); err != nil {
		return nil, err
	}
	if cfg.Render, err = flags.GetBool("render"); err != nil {
		return nil, err
	}
	if cfg.ChromePath, err = flags.GetString("chrome-path"); err != nil {
		return nil, err
	}

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}

	// An explicit config path must exist. Without one, a missing file means
	// no site settings.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	cfg.Targets = args
	if len(cfg.Targets) == 0 {
		cfg.Targets = []string{fetch.StdinTarget}
	}

	return cfg, nil
}

// runAnalyze sets up the network path, analyses every target and writes
// the reports as they complete.
func runAnalyze(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) (err error) {
	logger.Debug("starting analysis",
		"targets", cfg.Targets,
		"batchSize", cfg.BatchSize,
		"proxy", cfg.ProxyAddress,
		"tor", cfg.UseTor,
		"render", cfg.Render,
	)

	client, cleanup, err := setupProxy(ctx, cmd, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	output, closeOutput, err := openOutput(cmd, cfg.ReportFile)
	if err != nil {
		return err
	}
	defer func() {
		// A failed close can lose buffered report data.
		if cerr := closeOutput(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	writer := newReportWriter(cfg, output)
	stdin := cmd.InOrStdin()

	bp := pipeline.NewBatchProcessor(
		func(target string) *pipeline.Pipeline {
			return createPipelineForTarget(cfg, target, client, stdin, logger)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	var (
		mu     sync.Mutex
		failed int
	)
	err = bp.ProcessBatchWithCallback(ctx, cfg.Targets, func(a *model.Analysis, _ int) {
		mu.Lock()
		defer mu.Unlock()

		if a.Error != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "Analysis error for %s: %v\n", a.Target, a.Error)
		}
		if _, werr := writer.Write(a); werr != nil {
			logger.Error("report failed", "target", a.Target, "error", werr)
		}
	})
	if err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d targets", errAnalysisFailed, failed, len(cfg.Targets))
	}
	return nil
}

// setupProxy verifies the external proxy or starts the embedded Tor daemon.
// It returns a nil client when neither is configured. cleanup is never nil.
func setupProxy(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) (*tor.Client, func(), error) {
	noop := func() {}

	switch {
	case cfg.ProxyAddress != "":
		client, err := tor.NewClient(cfg.ProxyAddress, cfg.Timeout)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create proxy client: %w", err)
		}
		if err := client.CheckConnection(ctx).Err(); err != nil {
			return nil, noop, fmt.Errorf("proxy check failed for %s: %w", cfg.ProxyAddress, err)
		}
		logger.Info("proxy connection verified", "address", cfg.ProxyAddress)
		return client, noop, nil

	case cfg.UseTor:
		return startEmbeddedTor(ctx, cmd, cfg, logger)

	default:
		return nil, noop, nil
	}
}

// startEmbeddedTor starts a Tor daemon and returns a client for its SOCKS
// port together with the function that stops it.
func startEmbeddedTor(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) (*tor.Client, func(), error) {
	noop := func() {}
	errOut := cmd.ErrOrStderr()

	fmt.Fprintln(errOut, "Starting embedded Tor daemon...")
	fmt.Fprintf(errOut, "This may take 1-3 minutes while Tor bootstraps and connects to the network.\n\n")

	daemon := tor.NewDaemon(tor.WithStartupTimeout(cfg.TorStartupTimeout))
	if err := daemon.Start(ctx); err != nil {
		return nil, noop, fmt.Errorf("failed to start embedded Tor: %w", err)
	}
	stop := func() {
		logger.Info("stopping embedded Tor daemon")
		if err := daemon.Stop(); err != nil {
			logger.Error("failed to stop embedded Tor", "error", err)
		}
	}

	client, err := daemon.NewClient(cfg.Timeout)
	if err != nil {
		stop()
		return nil, noop, fmt.Errorf("failed to create Tor client: %w", err)
	}
	if err := client.CheckConnection(ctx).Err(); err != nil {
		stop()
		return nil, noop, fmt.Errorf("embedded Tor proxy check failed: %w", err)
	}

	logger.Info("embedded Tor daemon started", "socksAddr", daemon.SocksAddr())
	return client, stop, nil
}

// createPipelineForTarget builds the loader and pipeline for one target,
// applying the site settings of its host.
func createPipelineForTarget(
	cfg *config.Config,
	target string,
	client *tor.Client,
	stdin io.Reader,
	logger *slog.Logger,
) *pipeline.Pipeline {
	site := cfg.SiteFor(target)

	loaderOpts := []fetch.Option{
		fetch.WithLogger(logger),
		fetch.WithUserAgent(site.UserAgent),
		fetch.WithCookie(site.Cookie),
		fetch.WithHeaders(site.Headers),
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithStdin(stdin),
		fetch.WithStdinLocation(cfg.StdinLocation),
	}
	if client != nil {
		loaderOpts = append(loaderOpts, fetch.WithProxyTransport(client.Transport()))
	}
	loader := fetch.New(loaderOpts...)

	var source pipeline.Loader = loader
	if cfg.Render {
		renderOpts := []fetch.RenderOption{
			fetch.WithRenderLogger(logger),
			fetch.WithExecPath(cfg.ChromePath),
		}
		if client != nil {
			renderOpts = append(renderOpts, fetch.WithSOCKSProxy(client.ProxyAddress()))
		}
		source = fetch.NewRenderLoader(loader, renderOpts...)
	}

	return pipeline.DefaultPipeline(source,
		[]pipeline.Option{
			pipeline.WithLogger(logger),
		},
		pipeline.WithPipelineURIMode(cfg.URIMode),
		pipeline.WithPipelineSelfHost(site.SelfHost),
		pipeline.WithPipelineSkipStyleSheets(cfg.NoStyleSheets),
	)
}

// newReportWriter returns the writer for the requested report format.
func newReportWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		opts := []report.JSONWriterOption{report.WithVersion(getVersion())}
		if len(cfg.Targets) == 1 {
			opts = append(opts, report.WithPrettyPrint())
		}
		return report.NewJSONWriter(output, opts...)
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output,
			report.WithShowTarget(len(cfg.Targets) > 1),
			report.WithVerbose(cfg.Verbose),
		)
	}
}

// openOutput returns the report destination: the command's stdout, or path
// created with owner-only permissions. The returned close function reports
// the error of closing the file.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}

	if err := ensureParentDir(path); err != nil {
		return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // user supplied report path
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	closeFile := func() error {
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close output file: %w", err)
		}
		return nil
	}
	return f, closeFile, nil
}

// lockedWriter serializes writes to w.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
