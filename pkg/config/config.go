package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

// Suffixes appended to a caller-supplied authentication prefix. Keys are
// formed as prefix + "." + suffix, e.g.
// "spark.kubernetes.authentication.oauthTokenFile".
const (
	SuffixOAuthTokenFile     = "oauthTokenFile"
	SuffixOAuthToken         = "oauthToken"
	SuffixOAuthTokenProvider = "oauthTokenProvider"
	SuffixCACertFile         = "caCertFile"
	SuffixClientKeyFile      = "clientKeyFile"
	SuffixClientCertFile     = "clientCertFile"
)

// Global keys not scoped by an authentication prefix.
const (
	KeyTrustCertificates = "kubernetes.trust.certificates"
	KeyContext           = "kubernetes.context"
	KeyNamespace         = "kubernetes.namespace"
)

// Lookup is a narrow key/value view over application configuration.
// Presence is determined by whether the key was set, not by whether the
// value is non-empty: an explicitly configured empty string reports ok=true.
type Lookup interface {
	// GetString returns the raw value for key and whether the key is set.
	GetString(key string) (string, bool)
	// GetInt returns the value for key parsed as an integer. Unset or
	// unparsable values report ok=false.
	GetInt(key string) (int, bool)
}

// Properties is a flat map-backed Lookup. The zero value is unusable; use
// make or Load.
type Properties map[string]string

func (p Properties) GetString(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

func (p Properties) GetInt(key string) (int, bool) {
	raw, ok := p[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Key joins a prefix and suffix into a configuration key.
func Key(prefix, suffix string) string {
	return prefix + "." + suffix
}

// StringOr returns the value for key, or def when the key is unset.
func StringOr(l Lookup, key, def string) string {
	if v, ok := l.GetString(key); ok {
		return v
	}
	return def
}

// IntOr returns the integer value for key, or def when the key is unset or
// not an integer.
func IntOr(l Lookup, key string, def int) int {
	if v, ok := l.GetInt(key); ok {
		return v
	}
	return def
}

// BoolOr returns the boolean value for key, or def when the key is unset or
// not parsable as a boolean.
func BoolOr(l Lookup, key string, def bool) bool {
	raw, ok := l.GetString(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return b
}

// Load reads a flat YAML property file into Properties. Scalar values are
// rendered with their YAML string representation, so booleans and integers
// survive round-tripping through GetInt/BoolOr.
func Load(path string) (Properties, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("trying to open properties file %s: %w", path, err)
	}

	raw := map[string]interface{}{}
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("error unmarshaling YAML %s: %w", path, err)
	}

	props := make(Properties, len(raw))
	for k, v := range raw {
		if v == nil {
			props[k] = ""
			continue
		}
		props[k] = fmt.Sprintf("%v", v)
	}
	return props, nil
}
