package envlock

import (
	"os"
	"strings"
)

// Getter looks up environment variables. A *Lock reads the live
// environment; a MapGetter reads a snapshot.
type Getter interface {
	LookupEnv(key string) (string, bool)
}

var _ Getter = (*Lock)(nil)

// MapGetter serves lookups from a fixed snapshot.
type MapGetter map[string]string

func (m MapGetter) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// LookupEnv reads key while holding l.
func (l *Lock) LookupEnv(key string) (value string, ok bool) {
	l.Do(func() { value, ok = os.LookupEnv(key) })
	return value, ok
}

// Getenv reads key while holding l. Unset keys read as "".
func (l *Lock) Getenv(key string) string {
	v, _ := l.LookupEnv(key)
	return v
}

// Setenv sets key while holding l.
func (l *Lock) Setenv(key, value string) (err error) {
	l.Do(func() { err = os.Setenv(key, value) })
	return err
}

// Unsetenv removes key while holding l.
func (l *Lock) Unsetenv(key string) (err error) {
	l.Do(func() { err = os.Unsetenv(key) })
	return err
}

// Environ returns a copy of the environment as KEY=VALUE pairs.
func (l *Lock) Environ() (env []string) {
	l.Do(func() { env = os.Environ() })
	return env
}

// Snapshot returns the environment as a map, captured in one critical section.
func (l *Lock) Snapshot() map[string]string {
	return ParseEnviron(l.Environ())
}

// ParseEnviron splits KEY=VALUE pairs into a map. Windows stores per-drive
// working directories under keys that begin with '=', so the separator search
// starts after the first byte.
func ParseEnviron(environ []string) map[string]string {
	m := make(map[string]string, len(environ))
	for _, kv := range environ {
		if kv == "" {
			continue
		}
		idx := strings.IndexByte(kv[1:], '=')
		if idx < 0 {
			continue
		}
		idx++
		m[kv[:idx]] = kv[idx+1:]
	}
	return m
}

// LookupEnv reads key under the default lock.
func LookupEnv(key string) (string, bool) { return Default.LookupEnv(key) }

// Getenv reads key under the default lock.
func Getenv(key string) string { return Default.Getenv(key) }

// Setenv sets key under the default lock.
func Setenv(key, value string) error { return Default.Setenv(key, value) }

// Unsetenv removes key under the default lock.
func Unsetenv(key string) error { return Default.Unsetenv(key) }

// Environ copies the environment under the default lock.
func Environ() []string { return Default.Environ() }

// Snapshot captures the environment under the default lock.
func Snapshot() map[string]string { return Default.Snapshot() }
