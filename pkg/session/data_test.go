// SPDX-License-Identifier: MPL-2.0

package session

import (
	"errors"
	"testing"

	"github.com/jrcribb/trogon/pkg/schema"
)

// deploySchema is a hand-built command node covering every parameter shape.
func deploySchema() *schema.CommandSchema {
	return &schema.CommandSchema{
		Name: "deploy",
		Parameters: []schema.ParameterSchema{
			{Name: "env", Kind: schema.KindOption, Type: schema.TypeChoice, Required: true,
				Choices: []string{"dev", "staging", "prod"}},
			{Name: "replicas", Kind: schema.KindOption, Type: schema.TypeInt},
			{Name: "ratio", Kind: schema.KindOption, Type: schema.TypeFloat},
			{Name: "force", Kind: schema.KindFlag, Type: schema.TypeBool},
			{Name: "tag", Kind: schema.KindOption, Type: schema.TypeString, Multiple: true},
			{Name: "target", Kind: schema.KindArgument, Type: schema.TypeString, Required: true},
			{Name: "note", Kind: schema.KindOption, Type: schema.TypeString,
				Default: []string{"none"}, Required: true},
		},
	}
}

func TestSet_CoercesAndNormalizes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		field string
		raw   string
		want  string
	}{
		{"plain string", "target", "web", "web"},
		{"explicit empty string", "target", "", ""},
		{"integer strips leading zeros", "replicas", "007", "7"},
		{"negative integer", "replicas", "-2", "-2"},
		{"float shortest form", "ratio", "1.50", "1.5"},
		{"choice member", "env", "prod", "prod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := New(deploySchema())
			if err := d.Set(tt.field, tt.raw); err != nil {
				t.Fatalf("Set(%q, %q): %v", tt.field, tt.raw, err)
			}
			got, ok := d.GetString(tt.field)
			if !ok || got != tt.want {
				t.Errorf("stored = %q (ok=%v), want %q", got, ok, tt.want)
			}
		})
	}
}

func TestSet_RejectsAndRetainsPrevious(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		field string
		prior string
		raw   string
	}{
		{"non-integer", "replicas", "3", "many"},
		{"non-number", "ratio", "0.5", "fast"},
		{"outside choice set", "env", "dev", "production"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := New(deploySchema())
			if err := d.Set(tt.field, tt.prior); err != nil {
				t.Fatalf("Set prior: %v", err)
			}

			err := d.Set(tt.field, tt.raw)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("ValidationError.Field = %q, want %q", ve.Field, tt.field)
			}

			got, ok := d.GetString(tt.field)
			if !ok || got != tt.prior {
				t.Errorf("stored after rejection = %q (ok=%v), want prior %q", got, ok, tt.prior)
			}
		})
	}
}

func TestSet_RejectionWithoutPriorLeavesUnfilled(t *testing.T) {
	t.Parallel()

	d := New(deploySchema())
	if err := d.Set("env", "production"); err == nil {
		t.Fatal("expected validation error")
	}
	if _, ok := d.Get("env"); ok {
		t.Error("rejected value must not be stored")
	}
}

func TestSet_UnknownParameter(t *testing.T) {
	t.Parallel()

	d := New(deploySchema())
	err := d.Set("no-such-flag", "x")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
}

func TestFlags_BoolValues(t *testing.T) {
	t.Parallel()

	d := New(deploySchema())

	if err := d.SetBool("force", true); err != nil {
		t.Fatalf("SetBool: %v", err)
	}
	if v, ok := d.GetBool("force"); !ok || !v {
		t.Errorf("GetBool = %v, %v", v, ok)
	}

	// Textual entry parses as a boolean too.
	if err := d.Set("force", "false"); err != nil {
		t.Fatalf("Set(force, false): %v", err)
	}
	if v, _ := d.GetBool("force"); v {
		t.Error("flag should be off")
	}

	if err := d.Set("force", "maybe"); err == nil {
		t.Error("non-boolean text for a flag should be rejected")
	}

	// SetBool on a non-flag is a validation error.
	if err := d.SetBool("env", true); err == nil {
		t.Error("SetBool on an option should be rejected")
	}
}

func TestMultiple_SequencesNeverScalars(t *testing.T) {
	t.Parallel()

	d := New(deploySchema())

	if err := d.Set("tag", "a"); err == nil {
		t.Error("Set on a multi-value parameter should be rejected")
	}
	if err := d.Append("env", "prod"); err == nil {
		t.Error("Append on a single-value parameter should be rejected")
	}

	if err := d.Append("tag", "a"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := d.Append("tag", "b"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	got, ok := d.GetStrings("tag")
	if !ok || len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("GetStrings = %v (ok=%v), want [a b]", got, ok)
	}

	if err := d.SetAll("tag", []string{"x"}); err != nil {
		t.Fatalf("SetAll: %v", err)
	}
	got, _ = d.GetStrings("tag")
	if len(got) != 1 || got[0] != "x" {
		t.Errorf("after SetAll = %v, want [x]", got)
	}
}

func TestSetAll_RejectsWholeMutation(t *testing.T) {
	t.Parallel()

	cs := &schema.CommandSchema{
		Name: "scale",
		Parameters: []schema.ParameterSchema{
			{Name: "replica", Kind: schema.KindOption, Type: schema.TypeInt, Multiple: true},
		},
	}
	d := New(cs)
	if err := d.SetAll("replica", []string{"1", "2"}); err != nil {
		t.Fatalf("SetAll: %v", err)
	}

	if err := d.SetAll("replica", []string{"3", "many"}); err == nil {
		t.Fatal("expected validation error")
	}
	got, _ := d.GetStrings("replica")
	if len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Errorf("sequence after rejection = %v, want [1 2]", got)
	}
}

func TestUnset(t *testing.T) {
	t.Parallel()

	d := New(deploySchema())
	if err := d.Set("target", ""); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := d.Get("target"); !ok {
		t.Fatal("explicit empty value should count as filled")
	}

	d.Unset("target")
	if _, ok := d.Get("target"); ok {
		t.Error("Unset should revert to unfilled")
	}
	if d.Len() != 0 {
		t.Errorf("Len = %d, want 0", d.Len())
	}
}

func TestMissingRequired(t *testing.T) {
	t.Parallel()

	d := New(deploySchema())

	// env and target are required with no default; note is required but
	// carries a default, so it never counts as missing.
	got := d.MissingRequired()
	want := []string{"env", "target"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("MissingRequired = %v, want %v", got, want)
	}

	if err := d.Set("env", "dev"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got = d.MissingRequired()
	if len(got) != 1 || got[0] != "target" {
		t.Errorf("MissingRequired = %v, want [target]", got)
	}
}

func TestSelectionReplaceCarriesNothingOver(t *testing.T) {
	t.Parallel()

	first := deploySchema()
	d := New(first)
	if err := d.Set("env", "prod"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Selecting a different node means a fresh record, not a merge.
	second := &schema.CommandSchema{
		Name: "migrate",
		Parameters: []schema.ParameterSchema{
			{Name: "steps", Kind: schema.KindArgument, Type: schema.TypeInt},
		},
	}
	d = New(second)
	if d.Len() != 0 {
		t.Errorf("fresh data Len = %d, want 0", d.Len())
	}
	if _, ok := d.Get("env"); ok {
		t.Error("value leaked across selections")
	}
	if d.Command() != second {
		t.Error("Command() should be the newly selected node")
	}
}
