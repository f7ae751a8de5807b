package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the loaded configuration and reports every problem at once
func (c *Config) Validate() error {
	var errs []error

	if c.APIKey == "" {
		errs = append(errs, errors.New(ErrMsgMissingAPIKey))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("%s: %d", ErrMsgInvalidPort, c.Port))
	}
	for _, b := range []struct{ name, value string }{
		{"DB_BACKEND", c.DB.Backend},
		{"COOLDOWN_BACKEND", c.Cooldowns.Backend},
	} {
		if b.value != BackendPostgres && b.value != BackendMemory {
			errs = append(errs, fmt.Errorf("%s %s=%q", ErrMsgInvalidBackend, b.name, b.value))
		}
	}
	if c.Cooldowns.Backend == BackendPostgres && c.DB.Backend != BackendPostgres {
		errs = append(errs, errors.New(ErrMsgCooldownNeedsDB))
	}
	if c.Workers.Count <= 0 || c.Workers.QueueSize <= 0 {
		errs = append(errs, errors.New(ErrMsgInvalidWorkers))
	}
	if c.Workers.SweepInterval <= 0 {
		errs = append(errs, errors.New(ErrMsgInvalidInterval))
	}
	if c.Cooldowns.Village < 0 || c.Cooldowns.Global < 0 {
		errs = append(errs, errors.New(ErrMsgInvalidCooldown))
	}
	switch c.TraceExporter {
	case TraceExporterNone, TraceExporterStdout, TraceExporterOTLP:
	default:
		errs = append(errs, fmt.Errorf("%s: %q", ErrMsgInvalidExporter, c.TraceExporter))
	}

	return errors.Join(errs...)
}

// Validate checks that the bot has credentials for Discord and the API
func (c *DiscordConfig) Validate() error {
	var missing []string
	if c.Token == "" {
		missing = append(missing, "DISCORD_TOKEN")
	}
	if c.AppID == "" {
		missing = append(missing, "DISCORD_APP_ID")
	}
	if c.APIKey == "" {
		missing = append(missing, "API_KEY")
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%s: %s", ErrMsgMissingDiscordEnv, strings.Join(missing, ", "))
}
