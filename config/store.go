// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/barkimedes/go-deepcopy"
	"github.com/google/go-cmp/cmp"
)

const AppName = "tradingcal"

// Store manages a directory of exchange descriptor files, one YAML file per
// exchange. Descriptors are read lazily and cached; Copy hands out deep
// copies so that callers can never mutate the cached state.
type Store struct {
	dir       string
	loaded    bool
	exchanges map[string]ExchangeConfig
	mutex     sync.Mutex
}

// NewStore creates a store over the given directory. An empty dir selects
// the default location below the user configuration directory.
func NewStore(dir string) *Store {
	if dir == "" {
		userConfigDir, err := os.UserConfigDir()
		if err != nil {
			// We do not want to run on operating systems without config dir.
			// This is considered to be a fatal error.
			log.Fatalf("unable to determine configuration path: %v", err)
		}
		dir = filepath.Join(userConfigDir, AppName, "exchanges")
	}
	return &Store{
		dir:       dir,
		exchanges: make(map[string]ExchangeConfig),
	}
}

// Names returns the names of all stored exchanges, sorted.
func (s *Store) Names() ([]string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	err := s.readIfNeeded()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(s.exchanges))
	for name := range s.exchanges {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Copy returns a deep copy of the descriptor of the named exchange.
func (s *Store) Copy(name string) (ExchangeConfig, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	err := s.readIfNeeded()
	if err != nil {
		return ExchangeConfig{}, err
	}
	c, ok := s.exchanges[name]
	if !ok {
		return ExchangeConfig{}, fmt.Errorf("unknown exchange %q", name)
	}
	return c.deepCopy(), nil
}

// Save validates and stores a descriptor, writing its file only if the
// contents changed.
func (s *Store) Save(c ExchangeConfig) error {
	err := c.Validate()
	if err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	err = s.readIfNeeded()
	if err != nil {
		return err
	}
	if existing, ok := s.exchanges[c.Name]; ok && cmp.Equal(existing, c) {
		return nil
	}
	err = s.write(c)
	if err != nil {
		return err
	}
	s.exchanges[c.Name] = c.deepCopy()
	return nil
}

func (s *Store) readIfNeeded() error {
	if s.loaded {
		return nil
	}
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		// It is fine if the directory does not yet exist.
		log.Printf("Exchange directory \"%s\" does not yet exist, starting empty.", s.dir)
		s.loaded = true
		return nil
	}
	files, err := filepath.Glob(filepath.Join(s.dir, "*.yaml"))
	if err != nil {
		return fmt.Errorf("failed to list exchange configurations: %v", err)
	}
	for _, file := range files {
		c, err := LoadExchange(file)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		s.exchanges[c.Name] = *c
	}
	s.loaded = true
	return nil
}

func (s *Store) write(c ExchangeConfig) error {
	err := os.MkdirAll(s.dir, 0700)
	if err != nil {
		return fmt.Errorf("failed to create configuration directory: %v", err)
	}
	file, err := marshalExchange(&c)
	if err != nil {
		return err
	}
	fileName := filepath.Join(s.dir, c.Name+".yaml")
	tmpFileName := fileName + ".tmp"
	// Writing may fail, so we write to a temporary file and replace afterwards.
	err = os.WriteFile(tmpFileName, file, 0600)
	if err != nil {
		return fmt.Errorf("failed to write configuration file: %v", err)
	}
	err = os.Rename(tmpFileName, fileName)
	if err != nil {
		return fmt.Errorf("failed to replace configuration file: %v", err)
	}
	return nil
}

func (c *ExchangeConfig) deepCopy() ExchangeConfig {
	copied, err := deepcopy.Anything(c)
	if err != nil {
		panic(err)
	}
	return *copied.(*ExchangeConfig)
}
