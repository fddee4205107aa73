// Package store persists the roster, student and portal JSON files with
// timestamped backups and upgrades legacy schema versions on load.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"runde/internal/models"
)

// ErrSourceMissing is returned when a required input file does not exist.
var ErrSourceMissing = errors.New("source file not found")

const backupTimeLayout = "20060102150405"

// Store reads and writes the site's JSON data files. Writes are whole-file
// and last-writer-wins; a backup of the previous version is taken first and
// never deleted automatically.
type Store struct {
	createBackup bool
}

// New creates a store. When createBackup is set, every write copies the
// previous file to a sibling .bak.<timestamp> path first.
func New(createBackup bool) *Store {
	return &Store{createBackup: createBackup}
}

// rawPerson accepts both the v2 schema (roles array) and the legacy v1
// schema (flat department/position).
type rawPerson struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Photo        string         `json:"photo"`
	ShortSummary string         `json:"shortSummary"`
	Bio          string         `json:"bio"`
	Achievements []string       `json:"achievements"`
	Department   string         `json:"department"`
	Position     string         `json:"position"`
	Roles        *[]models.Role `json:"roles"`
}

// LoadPeople reads teachers.json, upgrading v1 records (flat
// department/position) to the v2 roles schema in memory and defaulting
// fields absent from older versions. A missing file yields an empty roster.
func (s *Store) LoadPeople(path string) ([]models.Person, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.Person{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var raw []rawPerson
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if len(raw) == 0 {
		return []models.Person{}, nil
	}

	// v2 detection follows the first record, as the legacy tool did.
	if raw[0].Roles != nil {
		people := make([]models.Person, 0, len(raw))
		for _, r := range raw {
			p := models.Person{
				ID:           r.ID,
				Name:         r.Name,
				Photo:        r.Photo,
				ShortSummary: r.ShortSummary,
				Bio:          r.Bio,
				Achievements: r.Achievements,
			}
			if r.Roles != nil {
				p.Roles = *r.Roles
			}

			if p.Photo == "" {
				p.Photo = models.PlaceholderPhoto
			}

			if p.Achievements == nil {
				p.Achievements = []string{}
			}

			if p.Roles == nil {
				p.Roles = []models.Role{}
			}

			people = append(people, p)
		}

		return people, nil
	}

	return upgradeLegacy(raw), nil
}

// upgradeLegacy lifts v1 records into the v2 schema: the flat
// department/position pair becomes a one-element roles list ranked by file
// position, and missing ids get a legacy_NNN slug.
func upgradeLegacy(raw []rawPerson) []models.Person {
	people := make([]models.Person, 0, len(raw))

	for idx, r := range raw {
		id := r.ID
		if id == "" {
			id = fmt.Sprintf("legacy_%03d", idx+1)
		}

		photo := r.Photo
		if photo == "" {
			photo = models.PlaceholderPhoto
		}

		achievements := r.Achievements
		if achievements == nil {
			achievements = []string{}
		}

		people = append(people, models.Person{
			ID:           id,
			Name:         r.Name,
			Photo:        photo,
			ShortSummary: r.ShortSummary,
			Bio:          r.Bio,
			Achievements: achievements,
			Roles: []models.Role{
				{Department: r.Department, Position: r.Position, Order: idx + 1},
			},
		})
	}

	return people
}

// SavePeople writes the roster back to teachers.json.
func (s *Store) SavePeople(path string, people []models.Person) error {
	return s.writeJSON(path, people)
}

// LoadStudents reads students.json. A missing file yields an empty list.
func (s *Store) LoadStudents(path string) ([]models.Student, error) {
	var students []models.Student
	if err := s.readJSON(path, &students); err != nil {
		return nil, err
	}

	if students == nil {
		students = []models.Student{}
	}

	return students, nil
}

// SaveStudents writes students.json.
func (s *Store) SaveStudents(path string, students []models.Student) error {
	return s.writeJSON(path, students)
}

// LoadPosts reads portal.json. A missing file yields an empty list.
func (s *Store) LoadPosts(path string) ([]models.Post, error) {
	var posts []models.Post
	if err := s.readJSON(path, &posts); err != nil {
		return nil, err
	}

	if posts == nil {
		posts = []models.Post{}
	}

	return posts, nil
}

// SavePosts writes portal.json.
func (s *Store) SavePosts(path string, posts []models.Post) error {
	return s.writeJSON(path, posts)
}

// ReadSource reads a required input file, e.g. the raw roster text. Unlike
// the data files, absence is fatal for the operation.
func (s *Store) ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrSourceMissing, path)
	}

	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return string(data), nil
}

func (s *Store) readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return nil
}

func (s *Store) writeJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if s.createBackup {
		if err := BackupFile(path); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// BackupFile copies path to path.bak.<timestamp>. A missing original is not
// an error; there is simply nothing to back up.
func BackupFile(path string) error {
	src, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to open %s for backup: %w", path, err)
	}
	defer src.Close()

	bak := path + ".bak." + time.Now().Format(backupTimeLayout)

	dst, err := os.Create(bak)
	if err != nil {
		return fmt.Errorf("failed to create backup %s: %w", bak, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy backup %s: %w", bak, err)
	}

	return nil
}
