package application

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/learnai/learnai-api/internal/domain/entity"
	"github.com/learnai/learnai-api/internal/domain/repository"
)

// LessonService serves the lesson catalog. Text search goes through
// Elasticsearch when a client is configured and falls back to the Postgres
// repository otherwise (or when the search call fails).
type LessonService struct {
	Repo    repository.LessonRepository
	ES      *elasticsearch.Client
	ESIndex string
	Logger  *logrus.Logger
}

func NewLessonService(repo repository.LessonRepository, es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *LessonService {
	return &LessonService{Repo: repo, ES: es, ESIndex: esIndex, Logger: logger}
}

func (s *LessonService) List(ctx context.Context) ([]entity.Lesson, error) {
	return s.Repo.List(ctx)
}

func (s *LessonService) Search(ctx context.Context, f entity.LessonFilter) ([]entity.Lesson, error) {
	if s.ES != nil && s.ESIndex != "" && f.Query != "" {
		if out, err := s.searchES(ctx, f); err == nil {
			return out, nil
		} else if s.Logger != nil {
			s.Logger.WithError(err).Warn("es lesson search failed, falling back to store")
		}
	}
	return s.Repo.Search(ctx, f)
}

func (s *LessonService) searchES(ctx context.Context, f entity.LessonFilter) ([]entity.Lesson, error) {
	must := []map[string]any{{
		"multi_match": map[string]any{
			"query":  f.Query,
			"fields": []string{"title^2", "description", "category"},
		},
	}}
	var filter []map[string]any
	if f.Category != "" && !strings.EqualFold(f.Category, "all") {
		filter = append(filter, map[string]any{"term": map[string]any{"category": strings.ToLower(f.Category)}})
	}
	if f.Difficulty != "" {
		filter = append(filter, map[string]any{"term": map[string]any{"difficulty": strings.ToLower(f.Difficulty)}})
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{"must": must, "filter": filter},
		},
		"size": 50,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, errors.New("es search: " + res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source entity.Lesson `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]entity.Lesson, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		l := h.Source
		// grade-level range filtering is cheap enough to do here
		if f.GradeLevel == "" || gradeInRange(f.GradeLevel, l.GradeLevel) {
			out = append(out, l)
		}
	}
	return out, nil
}

// IndexLesson writes one lesson document; used by the seed command.
func (s *LessonService) IndexLesson(ctx context.Context, l entity.Lesson) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	b, _ := json.Marshal(l)
	req := esapi.IndexRequest{
		Index:      s.ESIndex,
		DocumentID: strconv.FormatInt(l.ID, 10),
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("lesson_id", l.ID).Warn("es index response error")
	}
	return nil
}

// gradeInRange reports whether grade (a single number label) falls into the
// lesson's "min-max" range label. Unparseable labels never match.
func gradeInRange(grade, rng string) bool {
	parts := strings.SplitN(rng, "-", 2)
	if len(parts) != 2 {
		return false
	}
	g, ok1 := atoiOK(grade)
	lo, ok2 := atoiOK(parts[0])
	hi, ok3 := atoiOK(parts[1])
	return ok1 && ok2 && ok3 && g >= lo && g <= hi
}

func atoiOK(s string) (int, bool) {
	n := 0
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
