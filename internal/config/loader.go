// Package config loads service configuration from a YAML file, dotenv files and
// environment variables.
//
// Dotenv files are read first. ENV_FILE names a single file; otherwise .env.local and
// then .env are tried, and a variable already set is never replaced. Struct fields opt
// into environment overrides with an `env` tag:
//
//	type ServerConfig struct {
//	    Port int `yaml:"port" env:"SERVER_PORT"`
//	}
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var durationType = reflect.TypeFor[time.Duration]()

// LoadFile decodes path into a new T and applies environment overrides. An empty path starts
// from the zero value.
func LoadFile[T any](path string) (*T, error) {
	if err := loadDotenv(); err != nil {
		return nil, err
	}

	cfg := new(T)
	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := overrideFromEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithDefaults is LoadFile with setDefaults run in between. Environment values are applied
// once more afterwards so they win over defaults.
func LoadWithDefaults[T any](path string, setDefaults func(*T)) (*T, error) {
	cfg, err := LoadFile[T](path)
	if err != nil {
		return nil, err
	}
	if setDefaults == nil {
		return cfg, nil
	}
	setDefaults(cfg)
	if err = overrideFromEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetConfigPath returns CONFIG_PATH when set, else defaultPath.
func GetConfigPath(defaultPath string) string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return defaultPath
}

func dotenvFiles() []string {
	if f := os.Getenv("ENV_FILE"); f != "" {
		return []string{f}
	}
	return []string{".env.local", ".env"}
}

func loadDotenv() error {
	for _, f := range dotenvFiles() {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load dotenv %s: %w", f, err)
		}
	}
	return nil
}

func decodeFile(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	if err = yaml.NewDecoder(f).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// envField is a settable struct field tagged with an environment variable name.
type envField struct {
	name  string
	value reflect.Value
}

// envFields walks v depth-first, allocating nil struct pointers on the way.
func envFields(v reflect.Value) iter.Seq[envField] {
	return func(yield func(envField) bool) {
		walkEnvFields(v, yield)
	}
}

func walkEnvFields(v reflect.Value, yield func(envField) bool) bool {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			if !v.CanSet() {
				return true
			}
			v.Set(reflect.New(v.Type().Elem()))
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return true
	}

	for i := range v.NumField() {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}
		if isNested(field.Type()) {
			if !walkEnvFields(field, yield) {
				return false
			}
			continue
		}
		if name := v.Type().Field(i).Tag.Get("env"); name != "" {
			if !yield(envField{name: name, value: field}) {
				return false
			}
		}
	}
	return true
}

func isNested(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

func overrideFromEnv(cfg any) error {
	var errs []error
	for f := range envFields(reflect.ValueOf(cfg)) {
		raw, ok := os.LookupEnv(f.name)
		if !ok || raw == "" {
			continue
		}
		if err := setFromString(f.value, raw); err != nil {
			errs = append(errs, fmt.Errorf("env %s: %w", f.name, err))
		}
	}
	return errors.Join(errs...)
}

func setFromString(field reflect.Value, raw string) error {
	raw = strings.TrimSpace(raw)

	switch {
	case field.Type() == durationType:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
	case field.CanInt():
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case field.CanFloat():
		x, err := strconv.ParseFloat(raw, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(x)
	case field.Kind() == reflect.Bool:
		field.SetBool(parseBool(raw))
	case field.Kind() == reflect.String:
		field.SetString(raw)
	case field.Kind() == reflect.Slice && field.Type().Elem().Kind() == reflect.String:
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		field.Set(reflect.ValueOf(parts))
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}

// parseBool accepts true, 1, yes and on, in any case.
func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}
