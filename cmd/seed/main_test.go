package main

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestGenerate(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	records := generate(rng, "seed-user", 2024)

	perMonth := map[time.Month]int{}
	lo, hi := decimal.NewFromInt(50), decimal.NewFromInt(500)
	for _, r := range records {
		if r.UserID != "seed-user" {
			t.Fatalf("unexpected owner %q", r.UserID)
		}
		if r.Date.Year() != 2024 || r.Date.Location() != time.UTC {
			t.Fatalf("date %v outside 2024 UTC", r.Date)
		}
		if r.Amount.LessThan(lo) || r.Amount.GreaterThan(hi) {
			t.Fatalf("amount %s outside [50, 500]", r.Amount)
		}
		if r.Description == "" || r.Category == "" || r.PaymentMethod == "" {
			t.Fatalf("incomplete record %+v", r)
		}
		perMonth[r.Date.Month()]++
	}

	if len(perMonth) != 12 {
		t.Fatalf("expected records in all 12 months, got %d", len(perMonth))
	}
	for m, n := range perMonth {
		if n < 3 || n > 7 {
			t.Errorf("%s: expected 3-7 records, got %d", m, n)
		}
	}
}
