// ABOUTME: Tests for lead pipeline data models
// ABOUTME: Validates weighted values, overdue logic, labels and search matching
package models

import (
	"testing"
	"time"
)

func TestWeightedValueOpen(t *testing.T) {
	opp := &Opportunity{
		EstimatedValue: 15_000_000,
		Probability:    50,
		Status:         OpportunityOpen,
	}

	value, ok := opp.WeightedValue()
	if !ok {
		t.Fatal("expected weighted value for open opportunity")
	}
	if value != 7_500_000 {
		t.Errorf("expected weighted value 7500000, got %d", value)
	}
}

func TestWeightedValueNotOpen(t *testing.T) {
	for _, status := range []OpportunityStatus{OpportunityWon, OpportunityLost} {
		opp := &Opportunity{
			EstimatedValue: 1_000_000,
			Probability:    80,
			Status:         status,
		}
		if _, ok := opp.WeightedValue(); ok {
			t.Errorf("expected no weighted value for %s opportunity", status)
		}
	}
}

func TestTaskOverdue(t *testing.T) {
	now := time.Now()

	task := &Task{DueAt: now.Add(-time.Hour)}
	if !task.Overdue(now) {
		t.Error("pending task past due should be overdue")
	}

	done := now.Add(-30 * time.Minute)
	task.CompletedAt = &done
	if task.Overdue(now) {
		t.Error("completed task should never be overdue")
	}

	future := &Task{DueAt: now.Add(20 * time.Minute)}
	if future.Overdue(now) {
		t.Error("task due in the future should not be overdue")
	}
}

func TestStatusLabelFallback(t *testing.T) {
	if LeadStatusQualified.Label() != "Qualified" {
		t.Errorf("expected Qualified, got %s", LeadStatusQualified.Label())
	}
	if LeadStatus("ARCHIVED").Label() != "ARCHIVED" {
		t.Errorf("unmapped status should fall back to raw value, got %s", LeadStatus("ARCHIVED").Label())
	}
	if LeadStatus("ARCHIVED").Valid() {
		t.Error("ARCHIVED should not be a valid pipeline status")
	}
}

func TestMatchesSearch(t *testing.T) {
	lead := &Lead{
		Name:    "Dana Whitfield",
		Message: "Is the sunroof optional on this trim?",
		Vehicle: &Vehicle{
			Title: "2021 Outback Touring XT",
			Brand: "Subaru",
			Model: "Outback",
		},
	}

	cases := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"dana", true},
		{"WHITFIELD", true},
		{"sunroof", true},
		{"outback touring", true},
		{"subaru outback", true},
		{"tesla", false},
	}

	for _, tc := range cases {
		if got := lead.MatchesSearch(tc.query); got != tc.want {
			t.Errorf("MatchesSearch(%q) = %v, want %v", tc.query, got, tc.want)
		}
	}

	bare := &Lead{Name: "Sam", Message: "call me"}
	if bare.MatchesSearch("outback") {
		t.Error("lead without a vehicle should not match vehicle queries")
	}
}

func TestFormatCents(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "$0.00"},
		{99, "$0.99"},
		{1234500, "$12,345.00"},
		{7_500_000, "$75,000.00"},
		{-150, "-$1.50"},
	}

	for _, tc := range cases {
		if got := FormatCents(tc.cents); got != tc.want {
			t.Errorf("FormatCents(%d) = %s, want %s", tc.cents, got, tc.want)
		}
	}
}
