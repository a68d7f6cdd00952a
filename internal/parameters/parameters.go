// Package parameters handles generic configuration Params, a map[string]string that the
// user can set, e.g. "heuristic:ab,max_depth=3" for an AI player or "capture=remove" for the
// game rules.
package parameters

import (
	"github.com/pkg/errors"
	"strconv"
	"strings"
	"time"
)

// Params represent generic configuration parameters.
type Params map[string]string

// Value enumerates the types that can be parsed from a Params.
type Value interface {
	bool | int | int64 | float32 | float64 | string | time.Duration
}

// NewFromConfigString create params from user's configuration string.
// See GetParamOr and PopParamOr to parse values from this map.
//
// Empty parts (e.g. a trailing comma) are ignored, and surrounding spaces are trimmed.
func NewFromConfigString(config string) Params {
	params := make(Params)
	parts := strings.Split(config, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		subParts := strings.SplitN(part, "=", 2) // Split into up to 2 parts to handle '=' in values
		if len(subParts) == 1 {
			params[subParts[0]] = ""
		} else {
			params[strings.TrimSpace(subParts[0])] = strings.TrimSpace(subParts[1])
		}
	}
	return params
}

// PopParamOr is like GetParamOr, but it also deletes from the params map the retrieved parameter.
func PopParamOr[T Value](params Params, key string, defaultValue T) (T, error) {
	value, err := GetParamOr(params, key, defaultValue)
	if err != nil {
		return value, err
	}
	delete(params, key)
	return value, nil
}

// GetParamOr attempts to parse a parameter to the given type if the key is present, or returns the defaultValue
// if not.
//
// For bool types, a key without a value is interpreted as true.
func GetParamOr[T Value](params Params, key string, defaultValue T) (T, error) {
	value, exists := params[key]
	if !exists {
		return defaultValue, nil
	}
	vAny := (any)(defaultValue)
	toT := func(v any) T { return v.(T) }
	switch vAny.(type) {
	case string:
		return toT(value), nil
	case bool:
		lower := strings.ToLower(value)
		if value == "" || lower == "true" || value == "1" { // Empty value is considered "true"
			return toT(true), nil
		}
		if lower == "false" || value == "0" {
			return toT(false), nil
		}
		return defaultValue, errors.Errorf("failed to parse configuration %s=%q to bool", key, value)
	case time.Duration:
		if value == "" {
			return defaultValue, nil
		}
		parsedValue, err := time.ParseDuration(value)
		if err != nil {
			return defaultValue, errors.Wrapf(err, "failed to parse configuration %s=%q to duration", key, value)
		}
		return toT(parsedValue), nil
	case float32:
		if value == "" {
			return defaultValue, nil
		}
		parsedValue, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return defaultValue, errors.Wrapf(err, "failed to parse configuration %s=%q to float", key, value)
		}
		return toT(float32(parsedValue)), nil
	case float64:
		if value == "" {
			return defaultValue, nil
		}
		parsedValue, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return defaultValue, errors.Wrapf(err, "failed to parse configuration %s=%q to float", key, value)
		}
		return toT(parsedValue), nil
	case int:
		if value == "" {
			return defaultValue, nil
		}
		parsedValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue, errors.Wrapf(err, "failed to parse configuration %s=%q to int", key, value)
		}
		return toT(parsedValue), nil
	case int64:
		if value == "" {
			return defaultValue, nil
		}
		parsedValue, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return defaultValue, errors.Wrapf(err, "failed to parse configuration %s=%q to int64", key, value)
		}
		return toT(parsedValue), nil
	}
	return defaultValue, nil
}
