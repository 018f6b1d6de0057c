package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

type EnvValue interface {
	string | int | bool | time.Duration
}

func parseEnv[T EnvValue](envVar, raw string) (T, error) {
	var out T
	switch ptr := any(&out).(type) {
	case *string:
		*ptr = raw
	case *int:
		intValue, err := strconv.Atoi(raw)
		if err != nil {
			return out, fmt.Errorf("environment variable %s: '%s' is not an integer", envVar, raw)
		}
		*ptr = intValue
	case *bool:
		boolValue, err := strconv.ParseBool(raw)
		if err != nil {
			return out, fmt.Errorf("environment variable %s: '%s' is not a boolean", envVar, raw)
		}
		*ptr = boolValue
	case *time.Duration:
		duration, err := time.ParseDuration(raw)
		if err != nil {
			return out, fmt.Errorf("environment variable %s: '%s' is not a duration", envVar, raw)
		}
		*ptr = duration
	}
	return out, nil
}

func GetEnv[T EnvValue](envVar string, defaultValue T) T {
	raw, ok := os.LookupEnv(envVar)
	if !ok || raw == "" {
		return defaultValue
	}
	value, err := parseEnv[T](envVar, raw)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return value
}

func GetRequiredEnv[T EnvValue](envVar string) T {
	raw, ok := os.LookupEnv(envVar)
	if !ok || raw == "" {
		log.Fatalf("%s environment variable is required", envVar)
	}
	value, err := parseEnv[T](envVar, raw)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return value
}
