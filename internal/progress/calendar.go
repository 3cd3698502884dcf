package progress

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Assessment is a checkpoint in the academic term, such as a continuous
// assessment test.
type Assessment struct {
	Week   int    `yaml:"week" json:"week"`
	Label  string `yaml:"label" json:"label"`
	Advice string `yaml:"advice" json:"advice"`
}

type AcademicCalendar struct {
	Assessments []Assessment `yaml:"assessments" json:"assessments"`
	// LeadWeeks is how many weeks ahead of an assessment the reminder fires.
	LeadWeeks int `yaml:"lead_weeks" json:"lead_weeks"`
	// ExamPeriodFrom is the first week of exam preparation. Zero disables it.
	ExamPeriodFrom int    `yaml:"exam_period_from" json:"exam_period_from"`
	ExamAdvice     string `yaml:"exam_advice" json:"exam_advice"`
	// ExamsFrom is the first week of the exams themselves. Zero disables the
	// exam phase.
	ExamsFrom int `yaml:"exams_from" json:"exams_from"`
}

type PhaseKind string

const (
	PhaseEarly      PhaseKind = "early"
	PhaseAssessment PhaseKind = "assessment"
	PhaseMid        PhaseKind = "mid"
	PhaseLate       PhaseKind = "late"
	PhaseExam       PhaseKind = "exam"
)

type Phase struct {
	Kind PhaseKind `json:"kind"`
	Name string    `json:"name"`
}

func DefaultCalendar() AcademicCalendar {
	return AcademicCalendar{
		Assessments: []Assessment{
			{Week: 5, Label: "CAT", Advice: "Focus on reviewing all units."},
			{Week: 8, Label: "CAT", Advice: "Prioritize weaker units."},
		},
		LeadWeeks:      1,
		ExamPeriodFrom: 10,
		ExamAdvice:     "Exam preparation mode! Create comprehensive review schedules.",
		ExamsFrom:      11,
	}
}

// ParseCalendar reads a YAML calendar. Keys absent from raw keep their defaults.
func ParseCalendar(raw []byte) (AcademicCalendar, error) {
	cal := DefaultCalendar()
	if err := yaml.Unmarshal(raw, &cal); err != nil {
		return AcademicCalendar{}, fmt.Errorf("parse academic calendar: %w", err)
	}
	if err := cal.Validate(); err != nil {
		return AcademicCalendar{}, err
	}
	return cal, nil
}

// LoadCalendar reads the calendar at path. An empty path yields the defaults.
func LoadCalendar(path string) (AcademicCalendar, error) {
	if path == "" {
		return DefaultCalendar(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return AcademicCalendar{}, fmt.Errorf("read academic calendar: %w", err)
	}
	return ParseCalendar(raw)
}

func (c AcademicCalendar) Validate() error {
	if c.LeadWeeks < 0 {
		return fmt.Errorf("academic calendar: lead_weeks must be >= 0, got %d", c.LeadWeeks)
	}
	if c.ExamPeriodFrom < 0 {
		return fmt.Errorf("academic calendar: exam_period_from must be >= 0, got %d", c.ExamPeriodFrom)
	}
	if c.ExamsFrom < 0 {
		return fmt.Errorf("academic calendar: exams_from must be >= 0, got %d", c.ExamsFrom)
	}
	for i, a := range c.Assessments {
		if a.Week <= 0 {
			return fmt.Errorf("academic calendar: assessment %d has week %d", i, a.Week)
		}
	}
	return nil
}

// Reminder returns the phase reminder for currentWeek, if any. Assessment
// checkpoints are checked in file order before the exam period.
func (c AcademicCalendar) Reminder(currentWeek int) (string, bool) {
	for _, a := range c.Assessments {
		if a.Week-c.LeadWeeks != currentWeek {
			continue
		}
		label := a.Label
		if label == "" {
			label = "Assessment"
		}
		var head string
		if c.LeadWeeks > 0 {
			head = fmt.Sprintf("%s Week %d approaching!", label, a.Week)
		} else {
			head = fmt.Sprintf("%s Week %d is here!", label, a.Week)
		}
		if a.Advice == "" {
			return head, true
		}
		return head + " " + a.Advice, true
	}
	if c.ExamPeriodFrom > 0 && currentWeek >= c.ExamPeriodFrom {
		return c.ExamAdvice, c.ExamAdvice != ""
	}
	return "", false
}

// Phase names the part of the term that week falls in. Assessments are
// numbered per label in week order ("CAT Week 1", "CAT Week 2"). Weeks before
// the first assessment are early, weeks between assessments are mid and weeks
// after the last one are late until the exams start.
func (c AcademicCalendar) Phase(week int) Phase {
	if c.ExamsFrom > 0 && week >= c.ExamsFrom {
		return Phase{Kind: PhaseExam, Name: "Exam Period"}
	}
	checkpoints := append([]Assessment{}, c.Assessments...)
	sort.SliceStable(checkpoints, func(i, j int) bool { return checkpoints[i].Week < checkpoints[j].Week })

	seen := map[string]int{}
	for _, a := range checkpoints {
		label := a.Label
		if label == "" {
			label = "Assessment"
		}
		seen[label]++
		if a.Week == week {
			return Phase{Kind: PhaseAssessment, Name: fmt.Sprintf("%s Week %d", label, seen[label])}
		}
	}

	switch {
	case len(checkpoints) == 0 || week < checkpoints[0].Week:
		return Phase{Kind: PhaseEarly, Name: "Early Semester"}
	case week > checkpoints[len(checkpoints)-1].Week:
		return Phase{Kind: PhaseLate, Name: "Late Semester"}
	default:
		return Phase{Kind: PhaseMid, Name: "Mid Semester"}
	}
}
