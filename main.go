package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/CristiGvl/picoCPUMon/internal/display"
	"github.com/CristiGvl/picoCPUMon/internal/monitor"
	"github.com/CristiGvl/picoCPUMon/internal/platform"
	"github.com/charmbracelet/lipgloss"
	"github.com/klauspost/cpuid/v2"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := newLogger()
	if err := run(logger); err != nil {
		logger.Fatalf("picoCPUMon exited: %v", err)
	}
}

// newLogger logs to stderr and stays quiet below warnings so the report on stdout is not disturbed
func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger
}

func run(logger *logrus.Logger) error {
	// Validate platform support
	if err := platform.ValidateSupport(); err != nil {
		logger.Warnf("Platform validation: %v", err)
	}

	// Stop between cycles on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	terminal := display.NewTerminal(os.Stdout)
	mon := monitor.New(platform.New(platform.Options{Logger: logger}), terminal, monitor.Options{
		CPUModel: cpuid.CPU.BrandName,
		Logger:   logger,
		Renderer: lipgloss.NewRenderer(os.Stdout),
	})

	logger.Infof("Starting picoCPUMon on %s", platform.GetOS())
	if err := mon.Run(ctx); err != nil {
		return err
	}

	if err := terminal.Close(); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
	return nil
}
