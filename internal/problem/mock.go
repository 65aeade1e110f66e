package problem

import (
	"context"
	"fmt"

	"github.com/leettrack/leettrack/pkg/models"
)

// MockSource implements Source for testing
type MockSource struct {
	// Simulated upstream catalog keyed by slug
	problems map[string]*models.ProblemData

	// Control flags for testing error scenarios
	ShouldFailFetch        bool
	ShouldReturnIncomplete bool
}

// NewMockSource creates a new mock source with some test data
func NewMockSource() *MockSource {
	return &MockSource{
		problems: map[string]*models.ProblemData{
			"two-sum": {
				Title:      "Two Sum",
				Slug:       "two-sum",
				Difficulty: "Easy",
				Topic:      "Array",
				URL:        "https://leetcode.com/problems/two-sum/",
				Description: "Given an array of integers nums and an integer target, " +
					"return indices of the two numbers such that they add up to target.",
				Examples: []models.Example{
					{Input: "nums = [2,7,11,15], target = 9", Output: "[0,1]", Explanation: ""},
				},
				Constraints: []string{"2 <= nums.length <= 10^4"},
				StarterCode: "class Solution:\n    def twoSum(self, nums, target):\n        pass",
			},
			"valid-parentheses": {
				Title:      "Valid Parentheses",
				Slug:       "valid-parentheses",
				Difficulty: "Easy",
				Topic:      "Stack",
				URL:        "https://leetcode.com/problems/valid-parentheses/",
			},
		},
	}
}

// Put registers extra upstream data under a slug.
func (m *MockSource) Put(data *models.ProblemData) {
	m.problems[data.Slug] = data
}

// Fetch implements Source.Fetch for testing
func (m *MockSource) Fetch(ctx context.Context, slug string) (*models.ProblemData, error) {
	if m.ShouldFailFetch {
		return nil, fmt.Errorf("%w: mock fetch error", ErrUpstream)
	}
	if m.ShouldReturnIncomplete {
		return nil, fmt.Errorf("%w: question %q has no title", ErrIncompleteData, slug)
	}
	data, ok := m.problems[slug]
	if !ok {
		return nil, fmt.Errorf("%w: no question for slug %q", ErrNotFound, slug)
	}
	copied := *data
	return &copied, nil
}
