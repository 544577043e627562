package assess

import "github.com/subodh556/AI-Teacher-sub000/internal/question"

// Overview describes an assessment without revealing any question.
type Overview struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	TopicID          string         `json:"topic_id,omitempty"`
	Adaptive         bool           `json:"adaptive"`
	TimeLimitMinutes int            `json:"time_limit_minutes,omitempty"`
	PassingScore     int            `json:"passing_score,omitempty"`
	QuestionCount    int            `json:"question_count"`
	Areas            []string       `json:"knowledge_areas,omitempty"`
	ByKind           map[string]int `json:"by_kind"`
}

func overview(a *question.Assessment) *Overview {
	o := &Overview{
		ID:               a.ID,
		Title:            a.Title,
		TopicID:          a.TopicID,
		Adaptive:         a.Adaptive,
		TimeLimitMinutes: a.TimeLimitMinutes,
		PassingScore:     a.PassingScore,
		QuestionCount:    len(a.Questions),
		ByKind:           map[string]int{},
	}
	seen := map[string]bool{}
	for _, q := range a.Questions {
		o.ByKind[string(q.Kind())]++
		if q.KnowledgeAreaID != "" && !seen[q.KnowledgeAreaID] {
			seen[q.KnowledgeAreaID] = true
			o.Areas = append(o.Areas, q.KnowledgeAreaID)
		}
	}
	return o
}
