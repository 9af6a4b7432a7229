package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// envLookup reads one variable; os.LookupEnv outside tests
type envLookup func(key string) (string, bool)

// applyEnv overrides every field tagged `env:"NAME"` whose variable is set.
// Nested sections are walked recursively. All malformed variables are
// reported together, each by name.
func applyEnv(cfg *Config, lookup envLookup) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return errors.Join(overrideSection(reflect.ValueOf(cfg).Elem(), lookup)...)
}

func overrideSection(section reflect.Value, lookup envLookup) []error {
	var errs []error
	for i := 0; i < section.NumField(); i++ {
		field := section.Field(i)
		if field.Kind() == reflect.Struct {
			errs = append(errs, overrideSection(field, lookup)...)
			continue
		}

		name := section.Type().Field(i).Tag.Get("env")
		if name == "" {
			continue
		}
		raw, ok := lookup(name)
		if !ok {
			continue
		}
		if err := assign(field, raw); err != nil {
			errs = append(errs, fmt.Errorf("%s=%q: %w", name, raw, err))
		}
	}
	return errs
}

// assign parses raw into field; config sections only use strings, ints and bools.
// Strings are taken verbatim, numbers and booleans may carry surrounding blanks.
func assign(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return errors.New("not an integer")
		}
		field.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return errors.New("not a boolean")
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported kind %s", field.Kind())
	}
	return nil
}
