package config

import (
	"fmt"
	"os"
)

// ValidateTLSConfig validates the TLS configuration
func (c *Config) ValidateTLSConfig() error {
	tls := c.Server.TLS

	switch tls.Mode {
	case "disabled":
		return nil
	case "server":
		if err := requireFiles(map[string]string{"certFile": tls.CertFile, "keyFile": tls.KeyFile}, "server mode"); err != nil {
			return err
		}
	case "mutual":
		if err := requireFiles(map[string]string{
			"certFile": tls.CertFile,
			"keyFile":  tls.KeyFile,
			"caFile":   tls.CAFile,
		}, "mutual mode"); err != nil {
			return err
		}
		if err := validateClientAuthPolicy(tls.ClientAuthPolicy); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", tls.Mode)
	}

	return validateTLSVersion(tls.MinVersion)
}

// requireFiles checks that each named file is configured and exists.
func requireFiles(files map[string]string, mode string) error {
	for _, name := range []string{"certFile", "keyFile", "caFile"} {
		path, wanted := files[name]
		if !wanted {
			continue
		}
		if path == "" {
			return fmt.Errorf("%s is required for %s", name, mode)
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%s %s is not accessible: %w", name, path, err)
		}
	}
	return nil
}

func validateClientAuthPolicy(policy string) error {
	switch policy {
	case "require", "request", "verify", "":
		return nil
	default:
		return fmt.Errorf("invalid clientAuthPolicy: %s (must be 'require', 'request', or 'verify')", policy)
	}
}

func validateTLSVersion(version string) error {
	switch version {
	case "", "1.2", "1.3":
		return nil
	default:
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", version)
	}
}
