/* Copyright 2020 The Rigorous Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package store persists runs in a Bolt database, so a run can be
// rendered or compared later without re-executing it.
package store

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/rigorous-lang/rigorous/rules"
)

var (
	bucketName = []byte("traces")

	// NotFound is returned by Load for an unknown trace name.
	NotFound = errors.New("trace not found")
)

// A TraceRecord is the persisted form of a run.  Configurations are
// stored rendered, so loading a record does not need the rule system
// that produced it.
type TraceRecord struct {
	Name           string    `json:"name"`
	System         string    `json:"system,omitempty"`
	StoppedBecause string    `json:"stoppedBecause"`
	Configurations []string  `json:"configurations"`
	Rules          []string  `json:"rules"`
	SavedAt        time.Time `json:"savedAt"`
}

// Record flattens a run for storage.
func Record(name, system string, w *rules.Walked) *TraceRecord {
	r := &TraceRecord{
		Name:           name,
		System:         system,
		StoppedBecause: w.StoppedBecause.String(),
		Configurations: make([]string, 0, len(w.Trace)),
		Rules:          make([]string, 0, len(w.Strides)),
		SavedAt:        time.Now().UTC(),
	}
	for _, c := range w.Trace {
		r.Configurations = append(r.Configurations, c.String())
	}
	for _, s := range w.Strides {
		r.Rules = append(r.Rules, s.Rule)
	}
	return r
}

type Store struct {
	Debug    bool
	filename string
	db       *bolt.DB
}

func NewStore(filename string) (*Store, error) {
	return &Store{
		filename: filename,
	}, nil
}

func (s *Store) Open() error {
	opts := &bolt.Options{
		Timeout: time.Second,
	}

	db, err := bolt.Open(s.filename, 0644, opts)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) logf(format string, args ...interface{}) {
	if s.Debug {
		log.Printf("Store."+format, args...)
	}
}

// Save writes the record under its name, overwriting any previous
// trace with that name.
func (s *Store) Save(r *TraceRecord) error {
	s.logf("Save %s", r.Name)
	js, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		return b.Put([]byte(r.Name), js)
	})
}

func (s *Store) Load(name string) (*TraceRecord, error) {
	s.logf("Load %s", name)
	var r *TraceRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return NotFound
		}
		js := b.Get([]byte(name))
		if js == nil {
			return NotFound
		}
		r = &TraceRecord{}
		return json.Unmarshal(js, r)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// List gives the stored trace names in key order.
func (s *Store) List() ([]string, error) {
	acc := make([]string, 0, 32)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for name, _ := c.First(); name != nil; name, _ = c.Next() {
			acc = append(acc, string(name))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// Delete removes a stored trace.  Deleting an unknown name is not an
// error.
func (s *Store) Delete(name string) error {
	s.logf("Delete %s", name)
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(name))
	})
}
