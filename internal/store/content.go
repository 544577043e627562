package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/subodh556/AI-Teacher-sub000/internal/difficulty"
	"github.com/subodh556/AI-Teacher-sub000/internal/question"
)

// AssessmentInfo is a catalogue entry for a stored assessment.
type AssessmentInfo struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	TopicID       string    `json:"topic_id"`
	Adaptive      bool      `json:"adaptive"`
	QuestionCount int       `json:"question_count"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SaveAssessment validates a and replaces any stored assessment with the
// same id, questions included. Resources are upserted per area.
func (s *Store) SaveAssessment(ctx context.Context, a *question.Assessment) error {
	if err := question.ValidateAssessment(a); err != nil {
		return err
	}
	return s.withTx(ctx, func(tx dialect.Tx) error {
		ins := sqlite().Insert(AssessmentsTable.Name).
			Columns("id", "title", "topic_id", "format_version", "adaptive",
				"time_limit_minutes", "passing_score", "difficulty_min", "difficulty_max", "updated_at").
			Values(a.ID, a.Title, a.TopicID, a.FormatVersion, a.Adaptive,
				a.TimeLimitMinutes, a.PassingScore, a.DifficultyMin, a.DifficultyMax, time.Now().UTC()).
			OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues())
		if err := run(ctx, tx, ins); err != nil {
			return fmt.Errorf("save assessment %q: %w", a.ID, err)
		}

		del := sqlite().Delete(QuestionsTable.Name).Where(entsql.EQ("assessment_id", a.ID))
		if err := run(ctx, tx, del); err != nil {
			return fmt.Errorf("clear questions of %q: %w", a.ID, err)
		}
		for i, q := range a.Questions {
			payload, err := question.MarshalQuestion(q)
			if err != nil {
				return fmt.Errorf("encode question %q: %w", q.ID, err)
			}
			ins := sqlite().Insert(QuestionsTable.Name).
				Columns("assessment_id", "question_id", "position", "kind", "difficulty", "knowledge_area_id", "payload").
				Values(a.ID, q.ID, i, string(q.Kind()), q.Difficulty, q.KnowledgeAreaID, string(payload))
			if err := run(ctx, tx, ins); err != nil {
				return fmt.Errorf("save question %q: %w", q.ID, err)
			}
		}

		for area, resources := range a.Resources {
			for _, r := range resources {
				ins := sqlite().Insert(ResourcesTable.Name).
					Columns("area_id", "resource_id", "title", "url", "kind").
					Values(area, r.ID, r.Title, r.URL, r.Kind).
					OnConflict(entsql.ConflictColumns("area_id", "resource_id"), entsql.ResolveWithNewValues())
				if err := run(ctx, tx, ins); err != nil {
					return fmt.Errorf("save resource %q: %w", r.ID, err)
				}
			}
		}
		return nil
	})
}

// LoadAssessment reads an assessment with its questions in authoring order
// and the resources of every area its questions touch. The result is
// validated before it is returned.
func (s *Store) LoadAssessment(ctx context.Context, id string) (*question.Assessment, error) {
	a := &question.Assessment{}
	found := false
	sel := sqlite().Select("id", "title", "topic_id", "format_version", "adaptive",
		"time_limit_minutes", "passing_score", "difficulty_min", "difficulty_max").
		From(entsql.Table(AssessmentsTable.Name)).
		Where(entsql.EQ("id", id))
	err := query(ctx, s.drv, sel, func(rows *entsql.Rows) error {
		found = true
		return rows.Scan(&a.ID, &a.Title, &a.TopicID, &a.FormatVersion, &a.Adaptive,
			&a.TimeLimitMinutes, &a.PassingScore, &a.DifficultyMin, &a.DifficultyMax)
	})
	if err != nil {
		return nil, fmt.Errorf("load assessment %q: %w", id, err)
	}
	if !found {
		return nil, fmt.Errorf("assessment %q: %w", id, ErrNotFound)
	}

	a.Questions, err = s.questions(ctx, sqlite().Select("payload").
		From(entsql.Table(QuestionsTable.Name)).
		Where(entsql.EQ("assessment_id", id)).
		OrderBy("position", "question_id"))
	if err != nil {
		return nil, fmt.Errorf("load questions of %q: %w", id, err)
	}

	var areas []string
	seen := map[string]bool{}
	for _, q := range a.Questions {
		if q.KnowledgeAreaID != "" && !seen[q.KnowledgeAreaID] {
			seen[q.KnowledgeAreaID] = true
			areas = append(areas, q.KnowledgeAreaID)
		}
	}
	if a.Resources, err = s.Resources(ctx, areas...); err != nil {
		return nil, err
	}

	if err := question.ValidateAssessment(a); err != nil {
		return nil, err
	}
	return a, nil
}

// ListAssessments returns every stored assessment, newest first.
func (s *Store) ListAssessments(ctx context.Context) ([]AssessmentInfo, error) {
	counts := map[string]int{}
	cnt := sqlite().Select("assessment_id", "COUNT(*)").
		From(entsql.Table(QuestionsTable.Name)).
		GroupBy("assessment_id")
	err := query(ctx, s.drv, cnt, func(rows *entsql.Rows) error {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return err
		}
		counts[id] = n
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}

	var out []AssessmentInfo
	sel := sqlite().Select("id", "title", "topic_id", "adaptive", "updated_at").
		From(entsql.Table(AssessmentsTable.Name)).
		OrderBy(entsql.Desc("updated_at"), "id")
	err = query(ctx, s.drv, sel, func(rows *entsql.Rows) error {
		var info AssessmentInfo
		if err := rows.Scan(&info.ID, &info.Title, &info.TopicID, &info.Adaptive, &info.UpdatedAt); err != nil {
			return err
		}
		info.QuestionCount = counts[info.ID]
		out = append(out, info)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	return out, nil
}

// FindAt implements difficulty.Finder over the stored questions. Eligible
// questions are ordered by authoring position, then id; the store's picker
// chooses among them.
func (s *Store) FindAt(ctx context.Context, req difficulty.SelectRequest, level int) (*question.Question, error) {
	sel := sqlite().Select("payload").
		From(entsql.Table(QuestionsTable.Name)).
		Where(entsql.And(
			entsql.EQ("assessment_id", req.AssessmentID),
			entsql.EQ("difficulty", level),
		)).
		OrderBy("position", "question_id")
	if len(req.Exclude) > 0 {
		sel.Where(entsql.NotIn("question_id", anys(req.Exclude)...))
	}
	if len(req.Areas) > 0 {
		sel.Where(entsql.In("knowledge_area_id", anys(req.Areas)...))
	}

	candidates, err := s.questions(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("select question at difficulty %d: %w", level, err)
	}
	i := s.picker.Pick(len(candidates))
	if i < 0 {
		return nil, nil
	}
	return candidates[i], nil
}

func (s *Store) questions(ctx context.Context, sel *entsql.Selector) ([]*question.Question, error) {
	var out []*question.Question
	err := query(ctx, s.drv, sel, func(rows *entsql.Rows) error {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return err
		}
		q, err := question.UnmarshalQuestion([]byte(payload))
		if err != nil {
			return err
		}
		out = append(out, q)
		return nil
	})
	return out, err
}

// Resources returns the stored resources of the given areas.
func (s *Store) Resources(ctx context.Context, areas ...string) (map[string][]question.Resource, error) {
	out := map[string][]question.Resource{}
	if len(areas) == 0 {
		return out, nil
	}
	sel := sqlite().Select("area_id", "resource_id", "title", "url", "kind").
		From(entsql.Table(ResourcesTable.Name)).
		Where(entsql.In("area_id", anys(areas)...)).
		OrderBy("area_id", "resource_id")
	err := query(ctx, s.drv, sel, func(rows *entsql.Rows) error {
		var area string
		var r question.Resource
		if err := rows.Scan(&area, &r.ID, &r.Title, &r.URL, &r.Kind); err != nil {
			return err
		}
		out[area] = append(out[area], r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}
	return out, nil
}
