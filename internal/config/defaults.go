package config

// DefaultLocalConfigPath is the project config file read when --config is not given.
const DefaultLocalConfigPath = ".plaid/config.json"

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"document":    "vision.json",
		"log_level":   "warn",
		"color":       "auto",
		"json_schema": false,
	}
}
