package problem

import (
	"reflect"
	"testing"
)

func TestDeriveSlug_FromURL(t *testing.T) {
	cases := []struct {
		url   string
		title string
		want  string
	}{
		{"https://leetcode.com/problems/two-sum/", "Two Sum", "two-sum"},
		{"https://leetcode.com/problems/two-sum", "Two Sum", "two-sum"},
		{"https://leetcode.com/problems/two-sum/description/", "Two Sum", "two-sum"},
		{"https://leetcode.com/problems/3sum/?envType=study-plan", "3Sum", "3sum"},
		{"https://example.com/katas/reverse-list", "Reverse Linked List", "reverse-linked-list"},
		{"", "Best Time to Buy & Sell Stock", "best-time-to-buy-sell-stock"},
	}

	for _, tc := range cases {
		if got := DeriveSlug(tc.url, tc.title); got != tc.want {
			t.Errorf("DeriveSlug(%q, %q) = %q, want %q", tc.url, tc.title, got, tc.want)
		}
	}
}

func TestDeriveSlug_Deterministic(t *testing.T) {
	first := DeriveSlug("https://leetcode.com/problems/valid-parentheses/", "Valid Parentheses")
	for i := 0; i < 10; i++ {
		if got := DeriveSlug("https://leetcode.com/problems/valid-parentheses/", "Valid Parentheses"); got != first {
			t.Fatalf("slug changed between calls: %q vs %q", first, got)
		}
	}
}

func TestStripTags(t *testing.T) {
	in := `<p>Given an array of integers <code>nums</code>&nbsp;and an integer <code>target</code>.</p><p>Second paragraph.</p>`
	got := stripTags(in)
	want := "Given an array of integers nums and an integer target.\nSecond paragraph."
	if got != want {
		t.Errorf("stripTags = %q, want %q", got, want)
	}
}

func TestCleanDescription_CutsExamplesAndConstraints(t *testing.T) {
	content := `<p>Return indices of the two numbers.</p>
<p>Example 1:</p>
<pre>Input: nums = [2,7]</pre>
<p>Constraints:</p>
<ul><li>2 &lt;= nums.length</li></ul>`

	got := cleanDescription(content)
	if got != "Return indices of the two numbers." {
		t.Errorf("cleanDescription = %q", got)
	}
}

func TestCleanDescription_NoSections(t *testing.T) {
	got := cleanDescription("<p>Just a statement.</p>")
	if got != "Just a statement." {
		t.Errorf("cleanDescription = %q", got)
	}
}

func TestParseExampleTestcases_PairsLines(t *testing.T) {
	raw := "[2,7,11,15]\n9\n[3,2,4]\n6"
	examples := parseExampleTestcases(raw)
	if len(examples) != 2 {
		t.Fatalf("expected 2 examples, got %d", len(examples))
	}
	if examples[0].Input != "[2,7,11,15]" || examples[0].Output != "9" {
		t.Errorf("first example wrong: %+v", examples[0])
	}
	if examples[1].Input != "[3,2,4]" || examples[1].Output != "6" {
		t.Errorf("second example wrong: %+v", examples[1])
	}
}

func TestParseExampleTestcases_OddTrailingLineDiscarded(t *testing.T) {
	raw := "input-1\noutput-1\ndangling-input"
	examples := parseExampleTestcases(raw)
	if len(examples) != 1 {
		t.Fatalf("expected 1 example, got %d", len(examples))
	}
	if examples[0].Input != "input-1" || examples[0].Output != "output-1" {
		t.Errorf("example wrong: %+v", examples[0])
	}
}

func TestParseExampleTestcases_Empty(t *testing.T) {
	if got := parseExampleTestcases(""); len(got) != 0 {
		t.Errorf("expected no examples, got %v", got)
	}
	if got := parseExampleTestcases("\n  \n"); len(got) != 0 {
		t.Errorf("expected no examples for blank input, got %v", got)
	}
}

func TestExtractConstraints(t *testing.T) {
	content := `<p>Statement.</p>
<p><strong>Constraints:</strong></p>
<ul>
<li><code>2 &lt;= nums.length &lt;= 10<sup>4</sup></code></li>
<li><code>-10<sup>9</sup> &lt;= nums[i] &lt;= 10<sup>9</sup></code></li>
<li></li>
</ul>
<p>Follow-up: can you do it in one pass?</p>`

	got := extractConstraints(content)
	want := []string{
		"2 <= nums.length <= 104",
		"-109 <= nums[i] <= 109",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("extractConstraints = %v, want %v", got, want)
	}
}

func TestExtractConstraints_NoSection(t *testing.T) {
	got := extractConstraints("<p>No constraints here.</p>")
	if len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}
