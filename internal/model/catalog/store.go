package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// StudentStore exposes applicant lookup for the survey service.
type StudentStore interface {
	List() []Student
	FindByID(id string) (Student, bool)
	// Default is the profile used when init does not name a student.
	Default() (Student, bool)
}

// UniversityStore exposes the institution catalog.
type UniversityStore interface {
	List() []University
	FindByID(id string) (University, bool)
}

// MemoryStudentStore implements StudentStore over an in-memory slice.
type MemoryStudentStore struct {
	items []Student
}

// NewMemoryStudentStore returns a store preloaded with the given students.
func NewMemoryStudentStore(items []Student) *MemoryStudentStore {
	return &MemoryStudentStore{items: append([]Student(nil), items...)}
}

func (s *MemoryStudentStore) List() []Student {
	return append([]Student(nil), s.items...)
}

func (s *MemoryStudentStore) FindByID(id string) (Student, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Student{}, false
}

func (s *MemoryStudentStore) Default() (Student, bool) {
	if len(s.items) == 0 {
		return Student{}, false
	}
	return s.items[0], true
}

// MemoryUniversityStore implements UniversityStore over an in-memory slice.
type MemoryUniversityStore struct {
	items []University
}

// NewMemoryUniversityStore returns a store preloaded with the given universities.
func NewMemoryUniversityStore(items []University) *MemoryUniversityStore {
	return &MemoryUniversityStore{items: append([]University(nil), items...)}
}

func (s *MemoryUniversityStore) List() []University {
	return append([]University(nil), s.items...)
}

func (s *MemoryUniversityStore) FindByID(id string) (University, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return University{}, false
}

// The normalized stores come in two shapes: a plain JSON array of records,
// or an object keyed by id whose values wrap the record under "normalized".
// Loaders accept both.

type normalizedEnvelope struct {
	Normalized json.RawMessage `json:"normalized"`
}

// LoadStudents reads a normalized students store from disk.
func LoadStudents(path string) ([]Student, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeStudents(data)
}

// LoadUniversities reads a normalized universities store from disk.
func LoadUniversities(path string) ([]University, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeUniversities(data)
}

func decodeStudents(data []byte) ([]Student, error) {
	if isJSONArray(data) {
		var out []Student
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("decode students store: %w", err)
		}
		return out, nil
	}

	var keyed map[string]normalizedEnvelope
	if err := json.Unmarshal(data, &keyed); err != nil {
		return nil, fmt.Errorf("decode students store: %w", err)
	}
	out := make([]Student, 0, len(keyed))
	for key, env := range keyed {
		var s Student
		if len(env.Normalized) > 0 {
			if err := json.Unmarshal(env.Normalized, &s); err != nil {
				return nil, fmt.Errorf("decode student %q: %w", key, err)
			}
		}
		if s.ID == "" {
			s.ID = key
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeUniversities(data []byte) ([]University, error) {
	if isJSONArray(data) {
		var out []University
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("decode universities store: %w", err)
		}
		return out, nil
	}

	var keyed map[string]normalizedEnvelope
	if err := json.Unmarshal(data, &keyed); err != nil {
		return nil, fmt.Errorf("decode universities store: %w", err)
	}
	out := make([]University, 0, len(keyed))
	for key, env := range keyed {
		var u University
		if len(env.Normalized) > 0 {
			if err := json.Unmarshal(env.Normalized, &u); err != nil {
				return nil, fmt.Errorf("decode university %q: %w", key, err)
			}
		}
		if u.ID == "" {
			u.ID = key
		}
		out = append(out, u)
	}
	return out, nil
}

func isJSONArray(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '['
}
