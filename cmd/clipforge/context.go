package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"clipforge/internal/command"
	"clipforge/internal/config"
	"clipforge/internal/convert"
	"clipforge/internal/delivery"
	"clipforge/internal/engine"
	"clipforge/internal/logging"
	"clipforge/internal/media"
	"clipforge/internal/metrics"
	"clipforge/internal/refs"
	"clipforge/internal/session"
)

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(flagValue(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if level := flagValue(c.logLevelFlag); level != "" {
			cfg.Logging.Level = strings.ToLower(level)
		}
		if format := flagValue(c.logFormatFlag); format != "" {
			cfg.Logging.Format = strings.ToLower(format)
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// conversionRuntime wires one session to an initialized engine.
type conversionRuntime struct {
	cfg          *config.Config
	logger       *slog.Logger
	engine       *engine.FFmpeg
	session      *session.Session
	orchestrator *convert.Orchestrator
	metrics      *metrics.Recorder
}

// newConversionRuntime initializes the engine; failure is fatal to the command.
func (c *commandContext) newConversionRuntime(ctx context.Context) (*conversionRuntime, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	eng := engine.New(cfg, logger)
	if err := eng.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("start engine: %w", err)
	}

	kind, err := command.ParseKind(cfg.Conversion.DefaultKind)
	if err != nil {
		_ = eng.Close()
		return nil, err
	}
	recorder := metrics.New()
	registry := refs.NewRegistry()
	openOpts := media.OpenOptions{
		RequireVideo: cfg.Input.RequireVideo,
		MaxBytes:     cfg.Input.MaxBytes,
	}
	sess := session.New(registry, kind, openOpts,
		session.WithLogger(logger),
		session.WithObserver(func(status session.Status) {
			recorder.SetBusy(status == session.StatusBusy)
		}),
	)
	deliverer := delivery.NewDeliverer(registry, delivery.NewDirSaver(cfg.Paths.OutputDir, cfg.Output.Overwrite), logger)
	orch := convert.New(sess, eng, deliverer, command.LimitsFromConfig(cfg),
		convert.WithLogger(logger),
		convert.WithMetrics(recorder),
	)

	return &conversionRuntime{
		cfg:          cfg,
		logger:       logger,
		engine:       eng,
		session:      sess,
		orchestrator: orch,
		metrics:      recorder,
	}, nil
}

// Close releases the engine and exports metrics.
func (r *conversionRuntime) Close() error {
	if err := r.metrics.WriteTextfile(r.cfg.Metrics.Textfile); err != nil {
		r.logger.Warn("metrics export failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "metrics_export_failed"),
		)
	}
	return r.engine.Close()
}

func flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
