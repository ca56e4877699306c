// Package config defines configuration structures
package config

import (
	"strings"

	"github.com/spf13/cast"
)

// DefaultQsubPath is the default scheduler submission binary
const DefaultQsubPath = "qsub"

// DefaultSSHPort is the default port for SSH connections to a cluster front-end
const DefaultSSHPort = 22

// DefaultConsulDatacenter is the default datacenter of the Consul node
const DefaultConsulDatacenter = "dc1"

// Configuration holds config information filled by Cobra and Viper (see commands package for more information)
type Configuration struct {
	// WorkingDirectory is where submit scripts are written, and the remote
	// submission directory when submitting over SSH
	WorkingDirectory string
	QsubPath         string
	ConsulAddress    string
	ConsulDatacenter string
	ConsulToken      string
	// Scheduler holds the cluster front-end parameters: user_name, url,
	// port, private_key, password
	Scheduler DynamicMap
}

// DynamicMap parameters for the scheduler front-end.
//
// It has methods to automatically cast data to the desired type.
type DynamicMap map[string]interface{}

// Get returns the raw value of a given configuration key
func (dm DynamicMap) Get(name string) interface{} {
	return dm[name]
}

// Set sets a value for a given configuration key
func (dm DynamicMap) Set(name string, value interface{}) {
	dm[name] = value
}

// GetString returns the value of the given key casted into a string.
// An empty string is returned if not found.
func (dm DynamicMap) GetString(name string) string {
	return cast.ToString(dm[name])
}

// GetStringOrDefault returns the value of the given key casted into a string.
// The given default value is returned if not found.
func (dm DynamicMap) GetStringOrDefault(name, defaultValue string) string {
	if res := dm.GetString(name); res != "" {
		return res
	}
	return defaultValue
}

// GetBool returns the value of the given key casted into a boolean.
// False is returned if not found.
func (dm DynamicMap) GetBool(name string) bool {
	return cast.ToBool(dm[name])
}

// GetInt returns the value of the given key casted into an int.
// 0 is returned if not found.
func (dm DynamicMap) GetInt(name string) int {
	return cast.ToInt(dm[name])
}

// GetIntOrDefault returns the value of the given key casted into an int.
// The given default value is returned if not found.
func (dm DynamicMap) GetIntOrDefault(name string, defaultValue int) int {
	if res := dm.GetInt(name); res != 0 {
		return res
	}
	return defaultValue
}

// GetStringSlice returns the value of the given key casted into a slice of string.
// If the corresponding raw value is a string, it is splited on comas.
// A nil or empty slice is returned if not found.
func (dm DynamicMap) GetStringSlice(name string) []string {
	val := dm[name]
	switch v := val.(type) {
	case string:
		return strings.Split(v, ",")
	default:
		return cast.ToStringSlice(val)
	}
}
