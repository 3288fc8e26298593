package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/nkhare/armada/internal/config"
	"github.com/nkhare/armada/internal/dispatch"
	"github.com/nkhare/armada/internal/output"
)

// loadSettings resolves the operational settings from flags, env, and
// the config file.
func loadSettings() (*config.Settings, error) {
	settings, err := config.LoadSettings(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// loadRegistry reads the deployment registry named by the registry flag.
func loadRegistry() (*config.Registry, error) {
	path := viper.GetString("registry")
	if path == "" {
		return nil, fmt.Errorf("no registry file configured (use --registry or ARMADA_REGISTRY)")
	}

	slog.Debug("loading registry", "path", path)
	return config.LoadRegistry(path)
}

// newDispatcher builds the dispatcher all fan-outs run through.
func newDispatcher(settings *config.Settings) *dispatch.Dispatcher {
	return dispatch.New(settings.ParallelDisabled, slog.Default())
}

// newKubeconfigLoader builds the kubeconfig loader from the kubeconfig
// flag, falling back to KUBECONFIG and ~/.kube/config.
func newKubeconfigLoader() *config.KubeconfigLoader {
	return config.NewKubeconfigLoader(viper.GetString("kubeconfig"))
}

// resolveFormat picks the output format, preferring the per-command
// flag over the global setting.
func resolveFormat(flagValue string, settings *config.Settings) (output.Format, error) {
	format := flagValue
	if format == "" {
		format = settings.OutputFormat
	}

	switch output.Format(format) {
	case output.FormatTable, output.FormatJSON, output.FormatYAML:
		return output.Format(format), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s (supported: table, json, yaml)", format)
	}
}

// newFormatter builds a formatter honoring the global display options.
func newFormatter(format output.Format, settings *config.Settings, wide bool) output.Formatter {
	return output.NewFormatter(format,
		output.WithNoColor(settings.NoColor),
		output.WithWide(wide),
	)
}
