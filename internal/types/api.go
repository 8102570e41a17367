package types

import "github.com/go-playground/validator/v10"

// DemoMatchRequest asks for a match between a job and a demo CV.
type DemoMatchRequest struct {
	JobID string `json:"job_id" validate:"required"`
	CVID  string `json:"cv_id" validate:"required"`
}

// MatchUserCVRequest asks for a match between a job and an uploaded CV.
type MatchUserCVRequest struct {
	JobID string `json:"job_id" validate:"required"`
	CVID  string `json:"cv_id" validate:"required,uuid"`
}

// RecommendCoursesRequest asks for course suggestions for a skill list.
type RecommendCoursesRequest struct {
	Skills []string `json:"skills" validate:"required,min=1,dive,min=1"`
}

// NormalizeSkillsRequest asks for canonical forms of raw skill strings.
type NormalizeSkillsRequest struct {
	Skills []string `json:"skills" validate:"required,min=1"`
}

// Validate validates the DemoMatchRequest using the validator.
func (r *DemoMatchRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the MatchUserCVRequest using the validator.
func (r *MatchUserCVRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the RecommendCoursesRequest using the validator.
func (r *RecommendCoursesRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the NormalizeSkillsRequest using the validator.
func (r *NormalizeSkillsRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
