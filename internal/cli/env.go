package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/brandstream/internal/config"
	"github.com/jmylchreest/brandstream/internal/extraction"
	"github.com/jmylchreest/brandstream/internal/image"
	"github.com/jmylchreest/brandstream/internal/logging"
	"github.com/jmylchreest/brandstream/internal/selection"
	httputil "github.com/jmylchreest/brandstream/internal/util/http"
	"github.com/jmylchreest/brandstream/internal/util/imagecache"
)

// env is what every command needs: configuration, a logger and clients.
type env struct {
	cfg       *config.Config
	logger    hclog.Logger
	http      *retryablehttp.Client
	images    *imagecache.Cache
	extractor extraction.Extractor
	closers   []io.Closer
}

// setup loads configuration for cmd. logOut receives log lines unless a log
// file is configured; nil discards them.
func setup(cmd *cobra.Command, logOut io.Writer) (*env, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg}

	if cfg.Log.File != "" {
		f, err := logging.OpenFile(cfg.Log.File)
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, f)
		logOut = f
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	logger, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Verbose: verbose,
		Output:  logOut,
		JSON:    cfg.Log.JSON,
	})
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("invalid log.level: %w", err)
	}
	e.logger = logger

	e.http = httputil.NewClient(httputil.ClientOptions{
		Timeout: cfg.Service.Timeout,
		Retries: cfg.Service.Retries,
		Logger:  logger.Named("http"),
	})
	e.extractor = extraction.NewClient(cfg.Service.URL, e.http, logger)

	e.images, err = imagecache.New(e.http, imagecache.Options{
		Dir:    cfg.Cache.Dir,
		MaxAge: cfg.Cache.MaxAge,
		Logger: logger,
	})
	if err != nil {
		e.Close()
		return nil, err
	}

	logger.Debug("configuration loaded", "service", cfg.Service.URL, "export_dir", cfg.Export.Dir)
	return e, nil
}

// Close releases log files.
func (e *env) Close() {
	for _, c := range e.closers {
		_ = c.Close()
	}
}

// colorCount validates n against the configured slider bounds.
func (e *env) colorCount(n int) (int, error) {
	lo, hi := e.cfg.Colours.Min, e.cfg.Colours.Max
	if n < lo || n > hi {
		return 0, fmt.Errorf("invalid color count %d: must be between %d and %d", n, lo, hi)
	}
	return n, nil
}

// extractFrom loads location and runs one extraction with n colours.
func (e *env) extractFrom(ctx context.Context, location string, n int) (*selection.File, extraction.Palette, error) {
	n, err := e.colorCount(n)
	if err != nil {
		return nil, nil, err
	}

	f, err := image.Load(ctx, e.images, location)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load image: %w", err)
	}
	if !f.IsImage() {
		e.logger.Info("rejected file", "name", f.Name, "mime", f.MIMEType)
		return nil, nil, fmt.Errorf("%s (%s): %w", f.Name, f.MIMEType, selection.ErrNotImage)
	}

	params, err := extraction.NewParams(f, n)
	if err != nil {
		return nil, nil, err
	}
	p, err := e.extractor.Extract(ctx, params)
	if err != nil {
		return nil, nil, err
	}
	return f, p, nil
}
