// Package param provides the runtime parameter database read by components.
//
// Parameters are unsigned integers registered up front. Each carries a
// validity: a parameter never loaded and without a default is
// Uninitialized, one loaded with a value its validator rejects is Invalid.
// Values are persisted as a flat YAML map of name to value.
package param

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ID identifies a registered parameter.
type ID uint32

// Validity describes whether a stored value may be used.
type Validity int

const (
	Uninitialized Validity = iota
	Valid
	Invalid
)

func (v Validity) String() string {
	switch v {
	case Valid:
		return "VALID"
	case Invalid:
		return "INVALID"
	default:
		return "UNINIT"
	}
}

// Validator reports whether a value is acceptable for a parameter.
type Validator func(v uint32) error

// Positive rejects zero.
func Positive(v uint32) error {
	if v == 0 {
		return errors.New("must be greater than zero")
	}
	return nil
}

// Def describes a parameter at registration time.
type Def struct {
	ID       ID
	Name     string
	Default  *uint32
	Validate Validator
}

// Uint32 returns a pointer to v, for use as a Def default.
func Uint32(v uint32) *uint32 {
	return &v
}

// Reader is the read side of the store used by components.
type Reader interface {
	Get(id ID) (uint32, Validity)
}

// ErrUnknown is returned for names or ids that were never registered.
var ErrUnknown = errors.New("unknown parameter")

type entry struct {
	def      Def
	value    uint32
	validity Validity
}

// Store holds parameter values. It is safe for concurrent use; change
// notifications run on the goroutine calling Set.
type Store struct {
	mu     sync.RWMutex
	byID   map[ID]*entry
	byName map[string]*entry
	subs   []func(ID)
	log    logrus.FieldLogger
}

// NewStore creates a store with the given definitions. Parameters with a
// default start Valid.
func NewStore(log logrus.FieldLogger, defs ...Def) (*Store, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Store{
		byID:   make(map[ID]*entry),
		byName: make(map[string]*entry),
		log:    log,
	}
	for _, d := range defs {
		if _, ok := s.byID[d.ID]; ok {
			return nil, fmt.Errorf("duplicate parameter id %d", d.ID)
		}
		if _, ok := s.byName[d.Name]; ok {
			return nil, fmt.Errorf("duplicate parameter name %q", d.Name)
		}
		e := &entry{def: d}
		if d.Default != nil {
			e.value = *d.Default
			e.validity = Valid
		}
		s.byID[d.ID] = e
		s.byName[d.Name] = e
	}
	return s, nil
}

// Get returns the current value of id and its validity.
// Unknown ids are reported as Uninitialized.
func (s *Store) Get(id ID) (uint32, Validity) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byID[id]
	if !ok {
		return 0, Uninitialized
	}
	return e.value, e.validity
}

// Lookup resolves a parameter name to its id.
func (s *Store) Lookup(name string) (ID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byName[name]
	if !ok {
		return 0, false
	}
	return e.def.ID, true
}

// Names returns the registered parameter names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.byName))
	for n := range s.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Subscribe registers fn to be called after each successful Set.
func (s *Store) Subscribe(fn func(ID)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Set validates and stores a value, then notifies subscribers.
// A rejected value leaves the stored value unchanged.
func (s *Store) Set(name string, v uint32) error {
	s.mu.Lock()
	e, ok := s.byName[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	if e.def.Validate != nil {
		if err := e.def.Validate(v); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	e.value = v
	e.validity = Valid
	id := e.def.ID
	subs := make([]func(ID), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(id)
	}
	return nil
}

// Load reads a YAML parameter file. A missing file is not an error.
// Unknown names are skipped with a warning; values failing validation are
// kept but marked Invalid.
func (s *Store) Load(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s.log.WithField("path", path).Info("param: no parameter file, using defaults")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read parameters: %w", err)
	}
	return s.Decode(data)
}

// Decode applies YAML-encoded parameter values.
func (s *Store) Decode(data []byte) error {
	var values map[string]uint32
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("parse parameters: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for name, v := range values {
		e, ok := s.byName[name]
		if !ok {
			s.log.WithField("param", name).Warn("param: ignoring unknown parameter")
			continue
		}
		e.value = v
		e.validity = Valid
		if e.def.Validate != nil {
			if err := e.def.Validate(v); err != nil {
				e.validity = Invalid
				s.log.WithField("param", name).Warnf("param: invalid value %d: %v", v, err)
			}
		}
	}
	return nil
}

// Encode returns the Valid parameters as YAML.
func (s *Store) Encode() ([]byte, error) {
	s.mu.RLock()
	values := make(map[string]uint32)
	for name, e := range s.byName {
		if e.validity == Valid {
			values[name] = e.value
		}
	}
	s.mu.RUnlock()
	return yaml.Marshal(values)
}

// Save writes the Valid parameters to path.
func (s *Store) Save(path string) error {
	data, err := s.Encode()
	if err != nil {
		return fmt.Errorf("encode parameters: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write parameters: %w", err)
	}
	return nil
}
