package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/qri-io/jsonschema"

	"github.com/anandk/placement/pkg/models"
	"github.com/anandk/placement/pkg/repository"
)

// CurrentVersion is the schema version profile payloads are validated
// against unless the caller picks another.
const CurrentVersion = "v1"

var ErrSchemaNotFound = errors.New("profile schema version not found")

// ValidationError carries the individual schema violations for a rejected
// payload.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("profile payload invalid: %v", e.Violations)
}

// Payload is the student-editable profile document. Stored fields are JSON
// arrays serialized into the user row.
type Payload struct {
	ProfessionalSummary string          `json:"professional_summary,omitempty"`
	Skills              []string        `json:"skills,omitempty"`
	Internships         []Internship    `json:"internships,omitempty"`
	Projects            []Project       `json:"projects,omitempty"`
	Certifications      []Certification `json:"certifications,omitempty"`
	LinkedinURL         string          `json:"linkedin_url,omitempty"`
}

type Internship struct {
	Company  string `json:"company"`
	Role     string `json:"role"`
	Duration string `json:"duration,omitempty"`
}

type Project struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Year   int    `json:"year,omitempty"`
}

// Validator loads and caches compiled JSON schemas from the repository and
// checks profile payloads against them.
type Validator struct {
	repo  repository.SchemaRepo
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

func NewValidator(ctx context.Context, r repository.SchemaRepo) (*Validator, error) {
	v := &Validator{
		repo:  r,
		cache: make(map[string]*jsonschema.Schema),
	}
	if err := v.Reload(ctx); err != nil {
		return nil, err
	}
	return v, nil
}

// Reload loads all schemas from the DB and compiles them.
func (v *Validator) Reload(ctx context.Context) error {
	rows, err := v.repo.ListSchemas(ctx)
	if err != nil {
		return fmt.Errorf("load schemas: %w", err)
	}

	newCache := make(map[string]*jsonschema.Schema)
	for _, r := range rows {
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal([]byte(r.SchemaJSON), rs); err != nil {
			return fmt.Errorf("compile schema %s: %w", r.Version, err)
		}
		newCache[r.Version] = rs
	}

	v.mu.Lock()
	v.cache = newCache
	v.mu.Unlock()
	return nil
}

// Schema returns the compiled schema for a version.
func (v *Validator) Schema(version string) (*jsonschema.Schema, bool) {
	v.mu.RLock()
	s, ok := v.cache[version]
	v.mu.RUnlock()
	return s, ok
}

// Validate checks raw profile JSON against the schema version. A payload that
// fails yields a *ValidationError listing every violation.
func (v *Validator) Validate(ctx context.Context, version string, raw []byte) error {
	schema, ok := v.Schema(version)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSchemaNotFound, version)
	}

	verrs, err := schema.ValidateBytes(ctx, raw)
	if err != nil {
		return fmt.Errorf("validate payload: %w", err)
	}
	if len(verrs) > 0 {
		ve := &ValidationError{}
		for _, e := range verrs {
			ve.Violations = append(ve.Violations, e.Error())
		}
		return ve
	}
	return nil
}

// Apply validates the payload and copies it onto the user's profile fields,
// arrays serialized as JSON text.
func (v *Validator) Apply(ctx context.Context, user *models.User, raw []byte) error {
	if err := v.Validate(ctx, CurrentVersion, raw); err != nil {
		return err
	}

	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	setString := func(dst **string, val string) {
		if val == "" {
			return
		}
		s := val
		*dst = &s
	}
	setList := func(dst **string, vals any, empty bool) error {
		if empty {
			return nil
		}
		b, err := json.Marshal(vals)
		if err != nil {
			return err
		}
		s := string(b)
		*dst = &s
		return nil
	}

	setString(&user.ProfessionalSummary, p.ProfessionalSummary)
	setString(&user.LinkedinURL, p.LinkedinURL)
	for _, pair := range []struct {
		dst   **string
		vals  any
		empty bool
	}{
		{&user.Skills, p.Skills, p.Skills == nil},
		{&user.Internships, p.Internships, p.Internships == nil},
		{&user.Projects, p.Projects, p.Projects == nil},
		{&user.Certifications, p.Certifications, p.Certifications == nil},
	} {
		if err := setList(pair.dst, pair.vals, pair.empty); err != nil {
			return fmt.Errorf("encode profile list: %w", err)
		}
	}
	return nil
}
