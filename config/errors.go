package config

import "fmt"

// ConfigError reports an unusable config source. It is non-fatal: the
// loader logs it and keeps the built-in defaults.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid config: %v", e.Err)
	}
	return fmt.Sprintf("invalid config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// CredentialError reports a required secret that did not resolve from
// the environment or the config file. It is fatal for the operation
// that needs the credential.
type CredentialError struct {
	Name string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("%s is required; set it in your environment or .env file", e.Name)
}
