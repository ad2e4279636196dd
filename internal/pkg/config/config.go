// Package config reads runtime settings. Values are looked up on every call, so
// a reloaded file takes effect for limits and timeouts without a restart.
package config

import (
	"io"
	"time"
)

// TimeConfig reads integer values scaled to a duration unit.
type TimeConfig interface {
	// GetSecond reads key as a number of seconds. Missing keys yield 0.
	GetSecond(key string) time.Duration

	// GetMinute reads key as a number of minutes. Missing keys yield 0.
	GetMinute(key string) time.Duration
}

// Config is the set of typed getters the application reads settings through.
// Missing keys and unconvertible values yield the type's zero value unless a
// default is registered in Defaults.
type Config interface {
	io.Closer
	TimeConfig

	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetBool(key string) bool
	GetFloat64(key string) float64
	GetString(key string) string

	// GetBinary reads a base64 encoded value.
	GetBinary(key string) []byte

	// GetArray reads a list, or a value stored as <element1>,<element2>,...
	// Elements are trimmed and empty elements dropped.
	GetArray(key string) []string
}

// Defaults lists fallbacks for keys the core depends on.
var Defaults = map[string]any{
	"app.tz":                             "Asia/Tokyo",
	"app.server.address":                 ":8080",
	"app.server.max_goroutine":           200,
	"upload.dir":                         "./public",
	"upload.max_bytes":                   2 << 20,
	"upload.form_max_bytes":              8 << 20,
	"upload.move_timeout_seconds":        10,
	"validation.lookup_timeout_seconds":  3,
	"validation.default_locale":          "ja",
	"account.remind.key_ttl_minutes":     30,
	"account.remind.throttle_seconds":    60,
	"hash.bcrypt_cost":                   10,
	"storage.prefix":                     "uploads",
	"instrument.service_name":            "formgate",
	"instrument.log_mask_fields":         "password,pass,pass_re,token,authorization",
	"instrument.metric_interval_seconds": 60,
}
