// Coloratura - Coloring Page Catalog and Recommendation Engine
// Copyright 2026 Coloratura Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coloratura-app/coloratura

package validation

import (
	"strings"
	"testing"
)

type recommendationsParams struct {
	Limit    int    `validate:"min=1,max=100"`
	AgeGroup string `validate:"omitempty,agegroup"`
}

type preferenceParams struct {
	Difficulties []string `validate:"omitempty,dive,difficulty"`
	Keywords     []string `validate:"omitempty,dive,min=1"`
}

type subscribeParams struct {
	Email    string `validate:"required,email"`
	Language string `validate:"omitempty,oneof=en fr de nl"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantErr   bool
		wantField string
		wantTag   string
	}{
		{
			name:  "valid recommendations params",
			input: &recommendationsParams{Limit: 20, AgeGroup: "child"},
		},
		{
			name:  "age group omitted",
			input: &recommendationsParams{Limit: 1},
		},
		{
			name:      "limit too small",
			input:     &recommendationsParams{Limit: 0},
			wantErr:   true,
			wantField: "Limit",
			wantTag:   "min",
		},
		{
			name:      "limit too large",
			input:     &recommendationsParams{Limit: 101, AgeGroup: "adult"},
			wantErr:   true,
			wantField: "Limit",
			wantTag:   "max",
		},
		{
			name:      "unknown age group",
			input:     &recommendationsParams{Limit: 20, AgeGroup: "toddler"},
			wantErr:   true,
			wantField: "AgeGroup",
			wantTag:   "agegroup",
		},
		{
			name:  "valid difficulties",
			input: &preferenceParams{Difficulties: []string{"easy", "hard"}},
		},
		{
			name:      "unknown difficulty",
			input:     &preferenceParams{Difficulties: []string{"easy", "impossible"}},
			wantErr:   true,
			wantTag:   "difficulty",
		},
		{
			name:      "empty keyword",
			input:     &preferenceParams{Keywords: []string{"dragon", ""}},
			wantErr:   true,
			wantTag:   "min",
		},
		{
			name:  "valid subscription",
			input: &subscribeParams{Email: "reader@example.com", Language: "fr"},
		},
		{
			name:      "missing email",
			input:     &subscribeParams{},
			wantErr:   true,
			wantField: "Email",
			wantTag:   "required",
		},
		{
			name:      "bad email",
			input:     &subscribeParams{Email: "not-an-email"},
			wantErr:   true,
			wantField: "Email",
			wantTag:   "email",
		},
		{
			name:      "unsupported language",
			input:     &subscribeParams{Email: "reader@example.com", Language: "xx"},
			wantErr:   true,
			wantField: "Language",
			wantTag:   "oneof",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			if len(err.Errors()) == 0 {
				t.Fatal("Errors() is empty, want at least one")
			}
			first := err.Errors()[0]
			if tt.wantField != "" && first.Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", first.Field(), tt.wantField)
			}
			if tt.wantTag != "" && first.Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", first.Tag(), tt.wantTag)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	err := ValidateStruct(&recommendationsParams{Limit: 0, AgeGroup: "toddler"})
	if err == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "Limit") {
		t.Errorf("Message = %q, want mention of Limit", apiErr.Message)
	}
	if !strings.Contains(apiErr.Message, "AgeGroup") {
		t.Errorf("Message = %q, want mention of AgeGroup", apiErr.Message)
	}
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("Details[fields] has type %T, want []map[string]interface{}", apiErr.Details["fields"])
	}
	if len(fields) != 2 {
		t.Errorf("len(fields) = %d, want 2", len(fields))
	}
}

func TestToAPIErrorSingle(t *testing.T) {
	err := ValidateStruct(&subscribeParams{Email: "bad"})
	if err == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Details["field"] != "Email" {
		t.Errorf("Details[field] = %v, want Email", apiErr.Details["field"])
	}
	if got := apiErr.Message; got != "Email must be a valid email address" {
		t.Errorf("Message = %q, want %q", got, "Email must be a valid email address")
	}
}
