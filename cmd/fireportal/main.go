package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jroosing/fireportal/internal/config"
	"github.com/jroosing/fireportal/internal/logging"
	"github.com/jroosing/fireportal/internal/server"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML configuration file (or set FIREPORTAL_CONFIG)")
		host       = flag.String("host", "", "Override bind host")
		port       = flag.Int("port", 0, "Override bind port")
		method     = flag.String("method", "", "Override resolution method (doh, dot, local)")
		reusePort  = flag.Bool("reuse-port", false, "Set SO_REUSEPORT on the listener")
		jsonLogs   = flag.Bool("json-logs", false, "Enable JSON structured logging")
		debug      = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(config.ResolveConfigPath(*configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *method != "" {
		cfg.Resolver.Method = *method
	}
	if *reusePort {
		cfg.Server.ReusePort = true
	}
	if *jsonLogs {
		cfg.Logging.Structured = true
		cfg.Logging.StructuredFormat = "json"
	}
	if *debug {
		cfg.Logging.Level = "DEBUG"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Configure(logging.Config{
		Level:            cfg.Logging.Level,
		Structured:       cfg.Logging.Structured,
		StructuredFormat: cfg.Logging.StructuredFormat,
		IncludePID:       cfg.Logging.IncludePID,
		ExtraFields:      cfg.Logging.ExtraFields,
	})
	logger.Info("FirePortal starting",
		"version", config.Version,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"method", cfg.Resolver.Method,
		"gateway", cfg.Gateway.URL,
	)
	if !cfg.KnownMethod() {
		logger.Warn("unknown resolution method, falling back to doh", "method", cfg.Resolver.Method)
	}

	runner := server.NewRunner(logger)
	if err := runner.Run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "server exited with error: %v\n", err)
		os.Exit(1)
	}
}
