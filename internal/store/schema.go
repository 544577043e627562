package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// AssessmentsColumns holds the columns for the "assessments" table.
	AssessmentsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "title", Type: field.TypeString},
		{Name: "topic_id", Type: field.TypeString},
		{Name: "format_version", Type: field.TypeString},
		{Name: "adaptive", Type: field.TypeBool},
		{Name: "time_limit_minutes", Type: field.TypeInt},
		{Name: "passing_score", Type: field.TypeInt},
		{Name: "difficulty_min", Type: field.TypeInt},
		{Name: "difficulty_max", Type: field.TypeInt},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// AssessmentsTable holds the schema information for the "assessments" table.
	AssessmentsTable = &schema.Table{
		Name:       "assessments",
		Columns:    AssessmentsColumns,
		PrimaryKey: []*schema.Column{AssessmentsColumns[0]},
	}

	// QuestionsColumns holds the columns for the "questions" table.
	QuestionsColumns = []*schema.Column{
		{Name: "assessment_id", Type: field.TypeString},
		{Name: "question_id", Type: field.TypeString},
		{Name: "position", Type: field.TypeInt},
		{Name: "kind", Type: field.TypeString},
		{Name: "difficulty", Type: field.TypeInt},
		{Name: "knowledge_area_id", Type: field.TypeString},
		{Name: "payload", Type: field.TypeString, Size: 2147483647},
	}
	// QuestionsTable holds the schema information for the "questions" table.
	QuestionsTable = &schema.Table{
		Name:       "questions",
		Columns:    QuestionsColumns,
		PrimaryKey: []*schema.Column{QuestionsColumns[0], QuestionsColumns[1]},
		Indexes: []*schema.Index{
			{
				Name:    "question_assessment_id_difficulty_position",
				Columns: []*schema.Column{QuestionsColumns[0], QuestionsColumns[4], QuestionsColumns[2]},
			},
		},
	}

	// ResourcesColumns holds the columns for the "resources" table.
	ResourcesColumns = []*schema.Column{
		{Name: "area_id", Type: field.TypeString},
		{Name: "resource_id", Type: field.TypeString},
		{Name: "title", Type: field.TypeString},
		{Name: "url", Type: field.TypeString},
		{Name: "kind", Type: field.TypeString},
	}
	// ResourcesTable holds the schema information for the "resources" table.
	ResourcesTable = &schema.Table{
		Name:       "resources",
		Columns:    ResourcesColumns,
		PrimaryKey: []*schema.Column{ResourcesColumns[0], ResourcesColumns[1]},
	}

	// AssessmentResultsColumns holds the columns for the "assessment_results" table.
	AssessmentResultsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "session_id", Type: field.TypeString, Unique: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "assessment_id", Type: field.TypeString},
		{Name: "topic_id", Type: field.TypeString},
		{Name: "score", Type: field.TypeInt},
		{Name: "time_taken_seconds", Type: field.TypeInt},
		{Name: "end_reason", Type: field.TypeString},
		{Name: "knowledge_gaps", Type: field.TypeString, Size: 2147483647},
		{Name: "completed_at", Type: field.TypeTime},
	}
	// AssessmentResultsTable holds the schema information for the "assessment_results" table.
	AssessmentResultsTable = &schema.Table{
		Name:       "assessment_results",
		Columns:    AssessmentResultsColumns,
		PrimaryKey: []*schema.Column{AssessmentResultsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "assessmentresult_user_id_completed_at",
				Columns: []*schema.Column{AssessmentResultsColumns[2], AssessmentResultsColumns[9]},
			},
		},
	}

	// QuestionResultsColumns holds the columns for the "question_results" table.
	QuestionResultsColumns = []*schema.Column{
		{Name: "result_id", Type: field.TypeString},
		{Name: "position", Type: field.TypeInt},
		{Name: "question_id", Type: field.TypeString},
		{Name: "correct", Type: field.TypeBool},
		{Name: "user_answer", Type: field.TypeString, Size: 2147483647},
		{Name: "time_taken_seconds", Type: field.TypeInt},
		{Name: "difficulty", Type: field.TypeInt},
		{Name: "knowledge_area_id", Type: field.TypeString},
	}
	// QuestionResultsTable holds the schema information for the "question_results" table.
	QuestionResultsTable = &schema.Table{
		Name:       "question_results",
		Columns:    QuestionResultsColumns,
		PrimaryKey: []*schema.Column{QuestionResultsColumns[0], QuestionResultsColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "question_results_assessment_results_question_results",
				Columns:    []*schema.Column{QuestionResultsColumns[0]},
				RefColumns: []*schema.Column{AssessmentResultsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// KnowledgeAreasColumns holds the columns for the "knowledge_areas" table.
	KnowledgeAreasColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "area_id", Type: field.TypeString},
		{Name: "proficiency", Type: field.TypeInt},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// KnowledgeAreasTable holds the schema information for the "knowledge_areas" table.
	KnowledgeAreasTable = &schema.Table{
		Name:       "knowledge_areas",
		Columns:    KnowledgeAreasColumns,
		PrimaryKey: []*schema.Column{KnowledgeAreasColumns[0], KnowledgeAreasColumns[1]},
	}

	// LlmEventsColumns holds the columns for the "llm_events" table.
	LlmEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString},
	}
	// LlmEventsTable holds the schema information for the "llm_events" table.
	LlmEventsTable = &schema.Table{
		Name:       "llm_events",
		Columns:    LlmEventsColumns,
		PrimaryKey: []*schema.Column{LlmEventsColumns[0]},
	}

	// Tables holds every table the store migrates.
	Tables = []*schema.Table{
		AssessmentsTable,
		QuestionsTable,
		ResourcesTable,
		AssessmentResultsTable,
		QuestionResultsTable,
		KnowledgeAreasTable,
		LlmEventsTable,
	}
)

func init() {
	QuestionResultsTable.ForeignKeys[0].RefTable = AssessmentResultsTable
}
