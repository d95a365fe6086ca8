package helpers

import "github.com/Jeffail/gabs"

// config Saves the bot-config
var config *gabs.Container

// DEBUG_MODE prints stack traces to discord instead of the plain error
var DEBUG_MODE = false

// LoadConfig loads the config from $path into $config
func LoadConfig(path string) {
	json, err := gabs.ParseJSONFile(path)
	Relax(err)

	config = json
}

// SetConfig replaces the config, used by tests
func SetConfig(container *gabs.Container) {
	config = container
}

// GetConfig is a config getter
func GetConfig() *gabs.Container {
	return config
}

// ConfigString returns the string at $path or "" if it doesn't exist
func ConfigString(path string) string {
	if config == nil || !config.ExistsP(path) {
		return ""
	}
	value, ok := config.Path(path).Data().(string)
	if !ok {
		return ""
	}
	return value
}

// ConfigBool returns the bool at $path or false if it doesn't exist
func ConfigBool(path string) bool {
	if config == nil || !config.ExistsP(path) {
		return false
	}
	value, _ := config.Path(path).Data().(bool)
	return value
}

// ConfigInt returns the number at $path or $fallback
func ConfigInt(path string, fallback int) int {
	if config == nil || !config.ExistsP(path) {
		return fallback
	}
	value, ok := config.Path(path).Data().(float64)
	if !ok {
		return fallback
	}
	return int(value)
}

// ConfigStrings returns the string array at $path, non string items are skipped
func ConfigStrings(path string) []string {
	result := make([]string, 0)
	if config == nil || !config.ExistsP(path) {
		return result
	}
	children, err := config.Path(path).Children()
	if err != nil {
		return result
	}
	for _, child := range children {
		if value, ok := child.Data().(string); ok {
			result = append(result, value)
		}
	}
	return result
}
