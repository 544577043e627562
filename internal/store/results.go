package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/subodh556/AI-Teacher-sub000/internal/question"
	"github.com/subodh556/AI-Teacher-sub000/internal/result"
)

// KnowledgeArea is a learner's latest proficiency in one area.
type KnowledgeArea struct {
	UserID      string    `json:"user_id"`
	AreaID      string    `json:"area_id"`
	Proficiency int       `json:"proficiency"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var resultColumns = []string{
	"id", "session_id", "user_id", "assessment_id", "topic_id", "score",
	"time_taken_seconds", "end_reason", "knowledge_gaps", "completed_at",
}

// SaveResult persists a finished assessment result with its question log.
// Saving the same result twice is a no-op.
func (s *Store) SaveResult(ctx context.Context, r *result.AssessmentResult) error {
	gaps := r.KnowledgeGaps
	if gaps == nil {
		gaps = []result.KnowledgeGap{}
	}
	gapJSON, err := json.Marshal(gaps)
	if err != nil {
		return fmt.Errorf("encode knowledge gaps: %w", err)
	}

	return s.withTx(ctx, func(tx dialect.Tx) error {
		exists, err := s.hasResult(ctx, tx, r.ID)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		ins := sqlite().Insert(AssessmentResultsTable.Name).
			Columns(resultColumns...).
			Values(r.ID, r.SessionID, r.UserID, r.AssessmentID, r.TopicID, r.Score,
				r.TimeTakenSeconds, string(r.EndReason), string(gapJSON), r.CompletedAt.UTC())
		if err := run(ctx, tx, ins); err != nil {
			return fmt.Errorf("save result %q: %w", r.ID, err)
		}

		for i, qr := range r.QuestionResults {
			answer, err := json.Marshal(qr.UserAnswer)
			if err != nil {
				return fmt.Errorf("encode answer to %q: %w", qr.QuestionID, err)
			}
			ins := sqlite().Insert(QuestionResultsTable.Name).
				Columns("result_id", "position", "question_id", "correct", "user_answer",
					"time_taken_seconds", "difficulty", "knowledge_area_id").
				Values(r.ID, i, qr.QuestionID, qr.Correct, string(answer),
					qr.TimeTakenSeconds, qr.Difficulty, qr.KnowledgeAreaID)
			if err := run(ctx, tx, ins); err != nil {
				return fmt.Errorf("save question result %d of %q: %w", i, r.ID, err)
			}
		}
		return nil
	})
}

func (s *Store) hasResult(ctx context.Context, eq dialect.ExecQuerier, id string) (bool, error) {
	found := false
	sel := sqlite().Select("id").
		From(entsql.Table(AssessmentResultsTable.Name)).
		Where(entsql.EQ("id", id))
	err := query(ctx, eq, sel, func(*entsql.Rows) error {
		found = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("look up result %q: %w", id, err)
	}
	return found, nil
}

// Result returns the stored result with the given id.
func (s *Store) Result(ctx context.Context, id string) (*result.AssessmentResult, error) {
	return s.oneResult(ctx, entsql.EQ("id", id), id)
}

// ResultBySession returns the result a session produced.
func (s *Store) ResultBySession(ctx context.Context, sessionID string) (*result.AssessmentResult, error) {
	return s.oneResult(ctx, entsql.EQ("session_id", sessionID), sessionID)
}

func (s *Store) oneResult(ctx context.Context, pred *entsql.Predicate, key string) (*result.AssessmentResult, error) {
	rs, err := s.results(ctx, pred, 1)
	if err != nil {
		return nil, err
	}
	if len(rs) == 0 {
		return nil, fmt.Errorf("result %q: %w", key, ErrNotFound)
	}
	return rs[0], nil
}

// ResultsForUser returns a learner's results, oldest first. A positive
// limit keeps only the most recent ones.
func (s *Store) ResultsForUser(ctx context.Context, userID string, limit int) ([]*result.AssessmentResult, error) {
	rs, err := s.results(ctx, entsql.EQ("user_id", userID), limit)
	if err != nil {
		return nil, err
	}
	// Fetched newest first for the limit.
	for i, j := 0, len(rs)-1; i < j; i, j = i+1, j-1 {
		rs[i], rs[j] = rs[j], rs[i]
	}
	return rs, nil
}

func (s *Store) results(ctx context.Context, pred *entsql.Predicate, limit int) ([]*result.AssessmentResult, error) {
	sel := sqlite().Select(resultColumns...).
		From(entsql.Table(AssessmentResultsTable.Name)).
		Where(pred).
		OrderBy(entsql.Desc("completed_at"), entsql.Desc("id"))
	if limit > 0 {
		sel.Limit(limit)
	}

	var out []*result.AssessmentResult
	err := query(ctx, s.drv, sel, func(rows *entsql.Rows) error {
		var (
			r       result.AssessmentResult
			reason  string
			gapJSON string
		)
		if err := rows.Scan(&r.ID, &r.SessionID, &r.UserID, &r.AssessmentID, &r.TopicID, &r.Score,
			&r.TimeTakenSeconds, &reason, &gapJSON, &r.CompletedAt); err != nil {
			return err
		}
		r.EndReason = result.EndReason(reason)
		if err := json.Unmarshal([]byte(gapJSON), &r.KnowledgeGaps); err != nil {
			return fmt.Errorf("decode knowledge gaps of %q: %w", r.ID, err)
		}
		out = append(out, &r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}

	for _, r := range out {
		if r.QuestionResults, err = s.questionResults(ctx, r.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) questionResults(ctx context.Context, resultID string) ([]result.QuestionResult, error) {
	out := []result.QuestionResult{}
	sel := sqlite().Select("question_id", "correct", "user_answer", "time_taken_seconds", "difficulty", "knowledge_area_id").
		From(entsql.Table(QuestionResultsTable.Name)).
		Where(entsql.EQ("result_id", resultID)).
		OrderBy("position")
	err := query(ctx, s.drv, sel, func(rows *entsql.Rows) error {
		var (
			qr     result.QuestionResult
			answer string
		)
		if err := rows.Scan(&qr.QuestionID, &qr.Correct, &answer, &qr.TimeTakenSeconds, &qr.Difficulty, &qr.KnowledgeAreaID); err != nil {
			return err
		}
		qr.UserAnswer = question.ParseAnswer(json.RawMessage(answer))
		out = append(out, qr)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load question results of %q: %w", resultID, err)
	}
	return out, nil
}

// UpsertKnowledgeArea records a learner's latest proficiency in an area.
func (s *Store) UpsertKnowledgeArea(ctx context.Context, ka KnowledgeArea) error {
	if ka.UpdatedAt.IsZero() {
		ka.UpdatedAt = time.Now()
	}
	ins := sqlite().Insert(KnowledgeAreasTable.Name).
		Columns("user_id", "area_id", "proficiency", "updated_at").
		Values(ka.UserID, ka.AreaID, ka.Proficiency, ka.UpdatedAt.UTC()).
		OnConflict(entsql.ConflictColumns("user_id", "area_id"), entsql.ResolveWithNewValues())
	if err := run(ctx, s.drv, ins); err != nil {
		return fmt.Errorf("upsert knowledge area %q: %w", ka.AreaID, err)
	}
	return nil
}

// KnowledgeAreas returns a learner's areas, weakest first.
func (s *Store) KnowledgeAreas(ctx context.Context, userID string) ([]KnowledgeArea, error) {
	var out []KnowledgeArea
	sel := sqlite().Select("user_id", "area_id", "proficiency", "updated_at").
		From(entsql.Table(KnowledgeAreasTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("proficiency", "area_id")
	err := query(ctx, s.drv, sel, func(rows *entsql.Rows) error {
		var ka KnowledgeArea
		if err := rows.Scan(&ka.UserID, &ka.AreaID, &ka.Proficiency, &ka.UpdatedAt); err != nil {
			return err
		}
		out = append(out, ka)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load knowledge areas: %w", err)
	}
	return out, nil
}
