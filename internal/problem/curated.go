package problem

import "github.com/leettrack/leettrack/pkg/models"

// CuratedProblems is the built-in starter list offered for bulk-add
// convenience. Entries carry a metadata hint; canonical data still comes
// from the external source when one is added.
var CuratedProblems = []models.CuratedProblem{
	{
		ID:         "two-sum",
		Title:      "Two Sum",
		Difficulty: "Easy",
		Topic:      "Array",
		URL:        "https://leetcode.com/problems/two-sum/",
	},
	{
		ID:         "valid-parentheses",
		Title:      "Valid Parentheses",
		Difficulty: "Easy",
		Topic:      "Stack",
		URL:        "https://leetcode.com/problems/valid-parentheses/",
	},
	{
		ID:         "merge-two-sorted-lists",
		Title:      "Merge Two Sorted Lists",
		Difficulty: "Easy",
		Topic:      "Linked List",
		URL:        "https://leetcode.com/problems/merge-two-sorted-lists/",
	},
	{
		ID:         "best-time-to-buy-and-sell-stock",
		Title:      "Best Time to Buy and Sell Stock",
		Difficulty: "Easy",
		Topic:      "Array",
		URL:        "https://leetcode.com/problems/best-time-to-buy-and-sell-stock/",
	},
	{
		ID:         "valid-palindrome",
		Title:      "Valid Palindrome",
		Difficulty: "Easy",
		Topic:      "String",
		URL:        "https://leetcode.com/problems/valid-palindrome/",
	},
	{
		ID:         "invert-binary-tree",
		Title:      "Invert Binary Tree",
		Difficulty: "Easy",
		Topic:      "Tree",
		URL:        "https://leetcode.com/problems/invert-binary-tree/",
	},
	{
		ID:         "valid-anagram",
		Title:      "Valid Anagram",
		Difficulty: "Easy",
		Topic:      "String",
		URL:        "https://leetcode.com/problems/valid-anagram/",
	},
	{
		ID:         "binary-search",
		Title:      "Binary Search",
		Difficulty: "Easy",
		Topic:      "Binary Search",
		URL:        "https://leetcode.com/problems/binary-search/",
	},
	{
		ID:         "flood-fill",
		Title:      "Flood Fill",
		Difficulty: "Easy",
		Topic:      "Graph",
		URL:        "https://leetcode.com/problems/flood-fill/",
	},
	{
		ID:         "lowest-common-ancestor-of-a-binary-search-tree",
		Title:      "Lowest Common Ancestor of a Binary Search Tree",
		Difficulty: "Easy",
		Topic:      "Tree",
		URL:        "https://leetcode.com/problems/lowest-common-ancestor-of-a-binary-search-tree/",
	},
}
