package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	Name  string  `validate:"notblank"`
	Patch *string `validate:"omitempty,notblank"`
	Sort  string  `validate:"omitempty,record_sort"`
}

func newValidate(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	if err := v.RegisterValidation("notblank", validateNotBlank); err != nil {
		t.Fatalf("register notblank: %v", err)
	}
	if err := v.RegisterValidation("record_sort", validateRecordSort); err != nil {
		t.Fatalf("register record_sort: %v", err)
	}
	return v
}

func TestNotBlank(t *testing.T) {
	v := newValidate(t)
	blank := "   "
	filled := "Groceries"

	cases := []struct {
		name    string
		in      sample
		wantErr bool
	}{
		{name: "filled", in: sample{Name: "Lunch"}},
		{name: "empty", in: sample{Name: ""}, wantErr: true},
		{name: "whitespace", in: sample{Name: " \t"}, wantErr: true},
		{name: "nil patch skipped", in: sample{Name: "x", Patch: nil}},
		{name: "filled patch", in: sample{Name: "x", Patch: &filled}},
		{name: "blank patch", in: sample{Name: "x", Patch: &blank}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(tc.in)
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRecordSort(t *testing.T) {
	v := newValidate(t)

	for _, sort := range []string{"", "date", "-date"} {
		if err := v.Struct(sample{Name: "x", Sort: sort}); err != nil {
			t.Errorf("sort %q should be accepted: %v", sort, err)
		}
	}
	for _, sort := range []string{"amount", "DATE", "+date"} {
		if err := v.Struct(sample{Name: "x", Sort: sort}); err == nil {
			t.Errorf("sort %q should be rejected", sort)
		}
	}
}
