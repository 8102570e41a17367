// Package corpus loads the read-only job, course, and demo CV datasets from
// JSON files on disk.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// JobRequirements holds the skill requirements of a posting.
type JobRequirements struct {
	SkillsRequired []string `json:"skills_required"`
	NiceToHave     []string `json:"nice_to_have,omitempty"`
}

// Job is a posting candidates are matched against.
type Job struct {
	JobID        string          `json:"job_id"`
	Title        string          `json:"title"`
	Company      string          `json:"company"`
	Location     string          `json:"location"`
	Description  string          `json:"description"`
	Requirements JobRequirements `json:"requirements"`
}

// EmbeddingText is the canonical text a job is embedded from.
func (j *Job) EmbeddingText() string {
	return fmt.Sprintf("%s. %s. Required: %s. Nice: %s",
		j.Title, j.Description,
		strings.Join(j.Requirements.SkillsRequired, ", "),
		strings.Join(j.Requirements.NiceToHave, ", "))
}

// Course is a learning resource recommended for missing skills.
type Course struct {
	CourseID       string   `json:"course_id"`
	Title          string   `json:"title"`
	Platform       string   `json:"platform"`
	URL            string   `json:"url,omitempty"`
	Rating         float64  `json:"rating,omitempty"`
	Duration       string   `json:"duration,omitempty"`
	Level          string   `json:"level"`
	Description    string   `json:"description,omitempty"`
	SkillsOutcomes []string `json:"skills_outcomes"`
}

// EmbeddingText is the canonical text a course is embedded from.
func (c *Course) EmbeddingText() string {
	return fmt.Sprintf("%s. %s. Outcomes: %s. Provider: %s",
		c.Title, c.Description,
		strings.Join(c.SkillsOutcomes, ", "),
		c.Platform)
}

// DemoCV is a pre-built candidate profile used for demo matching without an
// upload.
type DemoCV struct {
	CVID         string   `json:"cv_id"`
	StudentName  string   `json:"student_name"`
	Summary      string   `json:"summary"`
	Education    string   `json:"education"`
	Experiences  string   `json:"experiences"`
	CoursesTaken []string `json:"courses_taken"`
	Skills       []string `json:"skills"`
}

// EmbeddingText is the canonical text a demo CV is embedded from.
func (d *DemoCV) EmbeddingText() string {
	return fmt.Sprintf("Skills: %s. Summary: %s. Experience: %s. Education: %s",
		strings.Join(d.Skills, ", "), d.Summary, d.Experiences, d.Education)
}

// Corpus holds the loaded datasets with ID lookups.
type Corpus struct {
	Jobs    []Job
	Courses []Course
	DemoCVs []DemoCV

	jobByID    map[string]*Job
	courseByID map[string]*Course
	demoCVByID map[string]*DemoCV
}

// New builds a Corpus with its ID lookups from already loaded datasets.
func New(jobs []Job, courses []Course, demoCVs []DemoCV) *Corpus {
	c := &Corpus{
		Jobs:       jobs,
		Courses:    courses,
		DemoCVs:    demoCVs,
		jobByID:    make(map[string]*Job, len(jobs)),
		courseByID: make(map[string]*Course, len(courses)),
		demoCVByID: make(map[string]*DemoCV, len(demoCVs)),
	}
	for i := range c.Jobs {
		c.jobByID[c.Jobs[i].JobID] = &c.Jobs[i]
	}
	for i := range c.Courses {
		c.courseByID[c.Courses[i].CourseID] = &c.Courses[i]
	}
	for i := range c.DemoCVs {
		c.demoCVByID[c.DemoCVs[i].CVID] = &c.DemoCVs[i]
	}
	return c
}

// Load reads jobs.json, courses.json, and cvs.json from dir. Missing files
// are tolerated and leave the corresponding dataset empty, so the service
// can start before data has been generated.
func Load(dir string, logger *zap.Logger) (*Corpus, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		jobs    []Job
		courses []Course
		demoCVs []DemoCV
	)
	if err := loadFile(filepath.Join(dir, "jobs.json"), &jobs, logger); err != nil {
		return nil, err
	}
	if err := loadFile(filepath.Join(dir, "courses.json"), &courses, logger); err != nil {
		return nil, err
	}
	if err := loadFile(filepath.Join(dir, "cvs.json"), &demoCVs, logger); err != nil {
		return nil, err
	}

	c := New(jobs, courses, demoCVs)
	logger.Info("corpus loaded",
		zap.Int("jobs", len(c.Jobs)),
		zap.Int("courses", len(c.Courses)),
		zap.Int("demo_cvs", len(c.DemoCVs)))
	return c, nil
}

func loadFile(path string, out any, logger *zap.Logger) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Warn("corpus file missing, dataset left empty", zap.String("path", path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("read corpus file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode corpus file %s: %w", path, err)
	}
	return nil
}

// Job returns the job with the given ID.
func (c *Corpus) Job(id string) (*Job, bool) {
	j, ok := c.jobByID[id]
	return j, ok
}

// Course returns the course with the given ID.
func (c *Corpus) Course(id string) (*Course, bool) {
	course, ok := c.courseByID[id]
	return course, ok
}

// DemoCV returns the demo CV with the given ID.
func (c *Corpus) DemoCV(id string) (*DemoCV, bool) {
	cv, ok := c.demoCVByID[id]
	return cv, ok
}
