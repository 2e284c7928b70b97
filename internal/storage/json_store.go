package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vmartins/studysync/internal/models"
)

// maxRunHistory caps how many run records the stores keep around.
const maxRunHistory = 20

type jsonFile struct {
	Version   int                 `json:"version"`
	Templates TemplateCache       `json:"templates"`
	Topics    map[string]TopicSet `json:"topics"`
	Runs      []models.RunRecord  `json:"runs"` // newest first
}

type JSONStore struct {
	path string
	file *jsonFile
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	s.file = &jsonFile{
		Version: 1,
		Topics:  make(map[string]TopicSet),
	}
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("store not initialized, run 'studysync init' first")
		}
		return fmt.Errorf("failed to read store: %w", err)
	}

	s.file = &jsonFile{}
	if err := json.Unmarshal(data, s.file); err != nil {
		return fmt.Errorf("failed to parse store: %w", err)
	}
	if s.file.Topics == nil {
		s.file.Topics = make(map[string]TopicSet)
	}
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize store: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace store: %w", err)
	}
	return nil
}

func (s *JSONStore) GetTemplates() (TemplateCache, error) {
	if s.file == nil {
		return TemplateCache{}, fmt.Errorf("store not loaded")
	}
	if s.file.Templates.FetchedAt.IsZero() {
		return TemplateCache{}, ErrNotFound
	}
	return s.file.Templates, nil
}

func (s *JSONStore) SaveTemplates(cache TemplateCache) error {
	if s.file == nil {
		return fmt.Errorf("store not loaded")
	}
	s.file.Templates = cache
	return s.save()
}

func (s *JSONStore) GetTopics(activityID string) (TopicSet, error) {
	if s.file == nil {
		return TopicSet{}, fmt.Errorf("store not loaded")
	}
	set, ok := s.file.Topics[activityID]
	if !ok {
		return TopicSet{}, ErrNotFound
	}
	return set, nil
}

func (s *JSONStore) SaveTopics(activityID string, set TopicSet) error {
	if s.file == nil {
		return fmt.Errorf("store not loaded")
	}
	s.file.Topics[activityID] = set
	return s.save()
}

func (s *JSONStore) ClearTopics() error {
	if s.file == nil {
		return fmt.Errorf("store not loaded")
	}
	s.file.Topics = make(map[string]TopicSet)
	return s.save()
}

func (s *JSONStore) SaveRun(run models.RunRecord) error {
	if s.file == nil {
		return fmt.Errorf("store not loaded")
	}
	s.file.Runs = append(s.file.Runs, run)
	sort.SliceStable(s.file.Runs, func(i, j int) bool {
		return s.file.Runs[i].StartedAt.After(s.file.Runs[j].StartedAt)
	})
	if len(s.file.Runs) > maxRunHistory {
		s.file.Runs = s.file.Runs[:maxRunHistory]
	}
	return s.save()
}

func (s *JSONStore) GetLastRun() (models.RunRecord, error) {
	if s.file == nil {
		return models.RunRecord{}, fmt.Errorf("store not loaded")
	}
	if len(s.file.Runs) == 0 {
		return models.RunRecord{}, ErrNotFound
	}
	return s.file.Runs[0], nil
}

func (s *JSONStore) GetRuns(limit int) ([]models.RunRecord, error) {
	if s.file == nil {
		return nil, fmt.Errorf("store not loaded")
	}
	runs := s.file.Runs
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	out := make([]models.RunRecord, len(runs))
	copy(out, runs)
	return out, nil
}

func (s *JSONStore) Path() string {
	return s.path
}
