package driven

// ConfigStore provides read access to project configuration.
// Keys use dot notation for nested tables, e.g. "changelog.dir".
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// Load reads configuration from storage.
	// A missing configuration file is not an error.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
