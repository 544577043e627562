package cmd

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/subodh556/AI-Teacher-sub000/internal/assess"
	"github.com/subodh556/AI-Teacher-sub000/internal/llm"
	"github.com/subodh556/AI-Teacher-sub000/internal/question"
	"github.com/subodh556/AI-Teacher-sub000/internal/questiongen"
)

var kinds = []question.Kind{
	question.KindChoice,
	question.KindShortText,
	question.KindCode,
	question.KindMultiStep,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft an assessment with a language model",
	Long: "Draft an assessment with a language model. Every question passes the " +
		"same validation as an imported file before it is written out.",
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.String("id", "", "Assessment id (required)")
	f.String("title", "", "Assessment title (default: the topic)")
	f.String("topic", "", "What the questions are about (required)")
	f.String("topic-id", "", "Topic id results are grouped under (default: the id)")
	f.StringSlice("areas", nil, "Knowledge areas to spread questions across")
	f.String("kind", string(question.KindChoice), "Question kind: choice, short_text, code or multi_step")
	f.IntSlice("difficulty", []int{1, 2, 3, 4, 5}, "Difficulty levels to cycle through")
	f.IntP("count", "n", 5, "Number of questions")
	f.Bool("adaptive", true, "Mark the assessment adaptive")
	f.String("format", string(question.FormatYAML), "Output format: yaml or json")
	f.StringP("out", "o", "", "Write to this file instead of stdout")
	f.Bool("import", false, "Also store the generated assessment")

	generateCmd.MarkFlagRequired("id")
	generateCmd.MarkFlagRequired("topic")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	f := cmd.Flags()
	id, _ := f.GetString("id")
	title, _ := f.GetString("title")
	topic, _ := f.GetString("topic")
	topicID, _ := f.GetString("topic-id")
	areas, _ := f.GetStringSlice("areas")
	kindFlag, _ := f.GetString("kind")
	levels, _ := f.GetIntSlice("difficulty")
	count, _ := f.GetInt("count")
	adaptive, _ := f.GetBool("adaptive")
	formatFlag, _ := f.GetString("format")
	outPath, _ := f.GetString("out")
	doImport, _ := f.GetBool("import")

	kind := question.Kind(kindFlag)
	if !slices.Contains(kinds, kind) {
		return fmt.Errorf("unknown kind %q", kindFlag)
	}
	format := question.Format(strings.ToLower(formatFlag))
	if format != question.FormatYAML && format != question.FormatJSON {
		return fmt.Errorf("unknown format %q", formatFlag)
	}
	if count < 1 || len(levels) == 0 {
		return fmt.Errorf("need at least one question and one difficulty level")
	}
	if title == "" {
		title = topic
	}
	if topicID == "" {
		topicID = id
	}

	e, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	provider, err := llm.NewProvider(ctx, e.cfg.LLM, e.store.EventRepo(), e.log)
	if err != nil {
		return fmt.Errorf("LLM provider not configured: %w", err)
	}
	gen := questiongen.NewCache(questiongen.New(provider, questiongen.DefaultConfig(), e.log), e.cfg.Cache)

	a := &question.Assessment{
		ID:            id,
		Title:         title,
		TopicID:       topicID,
		FormatVersion: question.SupportedFormat,
		Adaptive:      adaptive,
	}
	var prior []string
	for i := range count {
		input := questiongen.GenerateInput{
			Topic:        topic,
			Kind:         kind,
			Difficulty:   levels[i%len(levels)],
			PriorPrompts: prior,
		}
		if len(areas) > 0 {
			input.KnowledgeAreaID = areas[i%len(areas)]
		}
		q, err := gen.Generate(ctx, input)
		if err != nil {
			return fmt.Errorf("generate question %d: %w", i+1, err)
		}
		e.log.Info("question generated",
			zap.String("question_id", q.ID),
			zap.Int("difficulty", q.Difficulty),
			zap.String("area", q.KnowledgeAreaID))
		a.Questions = append(a.Questions, q)
		prior = append(prior, q.Prompt)
	}

	if err := question.ValidateAssessment(a); err != nil {
		return err
	}
	data, err := question.Encode(a, format)
	if err != nil {
		return err
	}
	if outPath == "" {
		_, err = cmd.OutOrStdout().Write(data)
	} else {
		err = os.WriteFile(outPath, data, 0o644)
	}
	if err != nil {
		return fmt.Errorf("write assessment: %w", err)
	}

	if doImport {
		svc := assess.New(e.store, assess.Options{Logger: e.log})
		if err := svc.Import(ctx, a); err != nil {
			return fmt.Errorf("import: %w", err)
		}
	}
	return nil
}
