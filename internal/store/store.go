package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Store is the people record store. All methods are safe for concurrent
// use; every mutation is persisted to the backing JSON file before it
// returns.
type Store struct {
	path string

	mu     sync.RWMutex
	people []Person // insertion order; List pagination follows this order
	nextID int
}

// storeFile is the on-disk JSON shape.
type storeFile struct {
	Version int      `json:"version"`
	NextID  int      `json:"next_id"`
	People  []Person `json:"people"`
}

// Open loads (or initialises) the store backed by the JSON file at path.
// A missing file yields an empty store; the file is created on first write.
func Open(path string) (*Store, error) {
	s := &Store{path: path, nextID: 1}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read store %s: %w", path, err)
	}

	var f storeFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse store %s: %w", path, err)
	}
	s.people = f.People
	s.nextID = f.NextID
	for _, p := range s.people {
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
	}
	return s, nil
}

// Create validates the draft, assigns an id, and persists the new person.
func (s *Store) Create(d Draft) (Person, error) {
	if err := d.validate(); err != nil {
		return Person{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if d.Email != nil && s.emailTakenLocked(*d.Email, 0) {
		return Person{}, ErrDuplicateEmail
	}

	p := Person{
		ID:        s.nextID,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Age:       d.Age,
		Email:     d.Email,
	}
	s.nextID++
	s.people = append(s.people, p)

	if err := s.saveLocked(); err != nil {
		// Roll back the in-memory insert so state matches disk.
		s.people = s.people[:len(s.people)-1]
		s.nextID--
		return Person{}, err
	}
	return p, nil
}

// Get returns the person with the given id, or ErrNotFound.
func (s *Store) Get(id int) (Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.people {
		if p.ID == id {
			return p, nil
		}
	}
	return Person{}, ErrNotFound
}

// List returns up to limit people, skipping the first skip records, in
// insertion order. Negative skip is treated as 0; limit <= 0 yields an
// empty slice.
func (s *Store) List(skip, limit int) []Person {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if skip < 0 {
		skip = 0
	}
	if skip >= len(s.people) || limit <= 0 {
		return []Person{}
	}
	end := skip + limit
	if end > len(s.people) {
		end = len(s.people)
	}
	out := make([]Person, end-skip)
	copy(out, s.people[skip:end])
	return out
}

// Count returns the number of stored people.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.people)
}

// Update applies a partial update to the person with the given id.
// Nil fields are left untouched; an all-nil update returns the current
// record unchanged.
func (s *Store) Update(id int, u Update) (Person, error) {
	if u.FirstName != nil {
		if err := validateName("first_name", *u.FirstName); err != nil {
			return Person{}, err
		}
	}
	if u.LastName != nil {
		if err := validateName("last_name", *u.LastName); err != nil {
			return Person{}, err
		}
	}
	if u.Age != nil {
		if err := validateAge(*u.Age); err != nil {
			return Person{}, err
		}
	}
	if u.Email != nil {
		if err := validateEmail(*u.Email); err != nil {
			return Person{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, p := range s.people {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Person{}, ErrNotFound
	}
	if u.IsZero() {
		return s.people[idx], nil
	}
	if u.Email != nil && s.emailTakenLocked(*u.Email, id) {
		return Person{}, ErrDuplicateEmail
	}

	prev := s.people[idx]
	p := prev
	if u.FirstName != nil {
		p.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		p.LastName = *u.LastName
	}
	if u.Age != nil {
		p.Age = u.Age
	}
	if u.Email != nil {
		p.Email = u.Email
	}
	s.people[idx] = p

	if err := s.saveLocked(); err != nil {
		s.people[idx] = prev
		return Person{}, err
	}
	return p, nil
}

// Delete removes the person with the given id, or returns ErrNotFound.
func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.people {
		if p.ID == id {
			removed := s.people[i]
			s.people = append(s.people[:i], s.people[i+1:]...)
			if err := s.saveLocked(); err != nil {
				// Restore at the original position.
				s.people = append(s.people[:i], append([]Person{removed}, s.people[i:]...)...)
				return err
			}
			return nil
		}
	}
	return ErrNotFound
}

// Backup writes a timestamped snapshot of the store into dir and returns
// the snapshot path.
func (s *Store) Backup(dir string) (string, error) {
	s.mu.RLock()
	data, err := s.encodeLocked()
	s.mu.RUnlock()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	name := "people-" + time.Now().Format("20060102-150405") + ".json"
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write backup %s: %w", path, err)
	}
	return path, nil
}

func (s *Store) emailTakenLocked(email string, excludeID int) bool {
	for _, p := range s.people {
		if p.ID != excludeID && p.Email != nil && *p.Email == email {
			return true
		}
	}
	return false
}

func (s *Store) encodeLocked() ([]byte, error) {
	f := storeFile{Version: 1, NextID: s.nextID, People: s.people}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal store: %w", err)
	}
	return append(data, '\n'), nil
}

func (s *Store) saveLocked() error {
	data, err := s.encodeLocked()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write store %s: %w", s.path, err)
	}
	return nil
}
