package model

import (
	"time"

	"github.com/google/uuid"
)

// TestStatus enumerates the publication states of a test.
type TestStatus string

const (
	TestStatusDraft     TestStatus = "draft"
	TestStatusPublished TestStatus = "published"
	TestStatusArchived  TestStatus = "archived"
)

// Shift identifies the exam sitting a mock test reproduces.
type Shift string

const (
	Shift1 Shift = "Shift 1"
	Shift2 Shift = "Shift 2"
)

const (
	DefaultTestDurationMinutes = 180
	DefaultTotalQuestions      = 75
)

// Test represents a mock test, the owner of a question catalog.
type Test struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Date            time.Time  `json:"date"`
	Shift           Shift      `json:"shift"`
	DurationMinutes int        `json:"duration_minutes"`
	TotalQuestions  int        `json:"total_questions"`
	Status          TestStatus `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
}

// TestSummary is the descriptive part of a test resolved into attempt reads.
type TestSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Date  time.Time `json:"date"`
	Shift Shift     `json:"shift"`
}
