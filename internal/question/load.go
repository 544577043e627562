package question

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// SupportedFormat is the definition format version this build reads. Any
// version with the same major is accepted.
const SupportedFormat = "v1.0.0"

// Format selects the encoding of a definition file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatForPath picks the format from a file extension, defaulting to YAML.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// LoadFile reads, decodes and validates an assessment definition.
func LoadFile(path string) (*Assessment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read assessment: %w", err)
	}
	return Decode(data, FormatForPath(path))
}

// Decode parses a definition and validates it. Unknown fields and multiple
// documents are rejected.
func Decode(data []byte, format Format) (*Assessment, error) {
	var doc AssessmentDoc
	var err error
	if format == FormatJSON {
		err = decodeJSON(data, &doc)
	} else {
		err = decodeYAML(data, &doc)
	}
	if err != nil {
		return nil, err
	}
	return doc.ToAssessment()
}

func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return errors.New("parse json: multiple documents are not supported")
		}
		return fmt.Errorf("parse json: %w", err)
	}
	return nil
}

func decodeYAML(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return errors.New("parse yaml: multiple documents are not supported")
		}
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

// ToAssessment converts and validates the document.
func (d AssessmentDoc) ToAssessment() (*Assessment, error) {
	c := &issueCollector{}
	version := checkFormatVersion(c, d.FormatVersion)

	a := &Assessment{
		ID:               d.ID,
		Title:            d.Title,
		TopicID:          d.TopicID,
		FormatVersion:    version,
		Adaptive:         d.Adaptive,
		TimeLimitMinutes: d.TimeLimitMinutes,
		PassingScore:     d.PassingScore,
		Resources:        d.Resources,
	}
	if d.DifficultyRange != nil {
		a.DifficultyMin = d.DifficultyRange.Min
		a.DifficultyMax = d.DifficultyRange.Max
	}

	for i, qd := range d.Questions {
		q, err := qd.ToQuestion()
		if err != nil {
			c.merge(fmt.Sprintf("questions[%d]", i), err)
			continue
		}
		a.Questions = append(a.Questions, q)
	}
	if err := c.result(); err != nil {
		return nil, err
	}
	if err := ValidateAssessment(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Doc converts a back into its document form.
func (a *Assessment) Doc() AssessmentDoc {
	d := AssessmentDoc{
		FormatVersion:    a.FormatVersion,
		ID:               a.ID,
		Title:            a.Title,
		TopicID:          a.TopicID,
		Adaptive:         a.Adaptive,
		TimeLimitMinutes: a.TimeLimitMinutes,
		PassingScore:     a.PassingScore,
		Resources:        a.Resources,
	}
	if d.FormatVersion == "" {
		d.FormatVersion = SupportedFormat
	}
	if a.DifficultyMin != 0 || a.DifficultyMax != 0 {
		d.DifficultyRange = &RangeDoc{Min: a.DifficultyMin, Max: a.DifficultyMax}
	}
	for _, q := range a.Questions {
		d.Questions = append(d.Questions, DocFromQuestion(q))
	}
	return d
}

// Encode writes a in the given format.
func Encode(a *Assessment, format Format) ([]byte, error) {
	doc := a.Doc()
	if format == FormatJSON {
		return json.MarshalIndent(doc, "", "  ")
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// checkFormatVersion returns the canonical version, or records an issue
// when the version is invalid or has an unsupported major.
func checkFormatVersion(c *issueCollector, version string) string {
	if version == "" {
		return SupportedFormat
	}
	v := version
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		c.add("format_version", fmt.Sprintf("invalid version %q", version))
		return ""
	}
	if semver.Major(v) != semver.Major(SupportedFormat) {
		c.add("format_version", fmt.Sprintf("unsupported version %q, want %s.x", version, semver.Major(SupportedFormat)))
		return ""
	}
	return semver.Canonical(v)
}

// merge copies the issues of a malformed-question error under prefix.
func (c *issueCollector) merge(prefix string, err error) {
	var malformed *MalformedQuestionError
	if !errors.As(err, &malformed) {
		c.add(prefix, err.Error())
		return
	}
	for _, issue := range malformed.Issues {
		c.add(joinField(prefix, issue.Field), issue.Message)
	}
}
