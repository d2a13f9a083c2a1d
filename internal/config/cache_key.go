package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// TestQuestionsKey returns the cache key for a test's question catalog
func (r *CacheKeyStruct) TestQuestionsKey(testID string) string {
	return fmt.Sprintf("test:%s:questions", testID)
}

// AttemptDraftKey returns the cache key for an attempt's autosaved responses
func (r *CacheKeyStruct) AttemptDraftKey(attemptID string) string {
	return fmt.Sprintf("attempt:%s:draft", attemptID)
}

// AttemptDeadlinesKey returns the sorted set holding in-progress attempt deadlines
func (r *CacheKeyStruct) AttemptDeadlinesKey() string {
	return "attempts:deadlines"
}

var CacheKey = NewCacheKeyStruct()
