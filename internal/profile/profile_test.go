package profile

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	dbfs "github.com/anandk/placement/db"
	"github.com/anandk/placement/pkg/models"
	"github.com/anandk/placement/pkg/repository/mock"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	ctx := context.Background()

	raw, err := dbfs.SeedFiles.ReadFile("seed/profile_schema_v1.json")
	if err != nil {
		t.Fatalf("read embedded schema: %v", err)
	}

	schemas := mock.NewMocks().Schemas
	if _, err := schemas.CreateSchema(ctx, CurrentVersion, "profile payload", string(raw)); err != nil {
		t.Fatalf("seed schema: %v", err)
	}

	v, err := NewValidator(ctx, schemas)
	if err != nil {
		t.Fatalf("NewValidator error: %v", err)
	}
	return v
}

func TestValidate(t *testing.T) {
	ctx := context.Background()
	v := newTestValidator(t)

	tests := []struct {
		name    string
		payload string
		wantOK  bool
	}{
		{
			name: "full valid payload",
			payload: `{
				"professional_summary": "Backend developer",
				"skills": ["Go", "SQL"],
				"internships": [{"company": "Acme", "role": "Intern", "duration": "3 months"}],
				"projects": [{"title": "Placement portal", "url": "https://example.com"}],
				"certifications": [{"name": "Cloud Basics", "year": 2025}],
				"linkedin_url": "https://linkedin.com/in/someone"
			}`,
			wantOK: true,
		},
		{name: "empty object is valid", payload: `{}`, wantOK: true},
		{name: "unknown field rejected", payload: `{"nickname": "x"}`},
		{name: "internship missing role", payload: `{"internships": [{"company": "Acme"}]}`},
		{name: "project missing title", payload: `{"projects": [{"description": "no title"}]}`},
		{name: "skills must be strings", payload: `{"skills": [1, 2]}`},
		{name: "empty skill rejected", payload: `{"skills": [""]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(ctx, CurrentVersion, []byte(tt.payload))
			if tt.wantOK {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(ve.Violations) == 0 {
				t.Fatalf("expected violations listed")
			}
		})
	}
}

func TestValidateUnknownVersion(t *testing.T) {
	v := newTestValidator(t)
	err := v.Validate(context.Background(), "v99", []byte(`{}`))
	if !errors.Is(err, ErrSchemaNotFound) {
		t.Fatalf("expected ErrSchemaNotFound, got %v", err)
	}
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	v := newTestValidator(t)

	user := &models.User{ID: 1, Role: models.RoleStudent}
	payload := `{
		"professional_summary": "Backend developer",
		"skills": ["Go", "SQL"],
		"projects": [{"title": "Portal"}]
	}`

	if err := v.Apply(ctx, user, []byte(payload)); err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	if user.ProfessionalSummary == nil || *user.ProfessionalSummary != "Backend developer" {
		t.Fatalf("summary not applied: %#v", user.ProfessionalSummary)
	}
	if user.Skills == nil {
		t.Fatalf("skills not applied")
	}
	var skills []string
	if err := json.Unmarshal([]byte(*user.Skills), &skills); err != nil || len(skills) != 2 {
		t.Fatalf("skills not stored as JSON array: %v %v", *user.Skills, err)
	}
	if user.Internships != nil {
		t.Fatalf("absent field should stay untouched")
	}

	// invalid payload leaves the user unchanged and reports the violation
	err := v.Apply(ctx, user, []byte(`{"unknown": true}`))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
