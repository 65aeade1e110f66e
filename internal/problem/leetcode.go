package problem

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/leettrack/leettrack/pkg/models"
)

// Source supplies canonical problem metadata for a slug.
type Source interface {
	Fetch(ctx context.Context, slug string) (*models.ProblemData, error)
}

// LeetCodeSource queries the LeetCode GraphQL endpoint.
type LeetCodeSource struct {
	BaseURL       string
	PreferredLang string
	Client        *http.Client
}

const questionQuery = `
  query questionData($titleSlug: String!) {
    question(titleSlug: $titleSlug) {
      questionId
      title
      titleSlug
      difficulty
      content
      exampleTestcases
      codeSnippets {
        lang
        langSlug
        code
      }
      topicTags {
        name
        slug
      }
    }
  }
`

func NewLeetCodeSource() *LeetCodeSource {
	baseURL := strings.TrimSpace(os.Getenv("LEETCODE_API_URL"))
	if baseURL == "" {
		baseURL = "https://leetcode.com/graphql"
	}
	lang := strings.TrimSpace(os.Getenv("LEETCODE_PREFERRED_LANG"))
	if lang == "" {
		lang = "python3"
	}
	return &LeetCodeSource{
		BaseURL:       baseURL,
		PreferredLang: lang,
		Client:        &http.Client{Timeout: 10 * time.Second},
	}
}

type graphqlRequest struct {
	Query     string            `json:"query"`
	Variables map[string]string `json:"variables"`
}

type questionRes struct {
	Data struct {
		Question *struct {
			QuestionID       string `json:"questionId"`
			Title            string `json:"title"`
			TitleSlug        string `json:"titleSlug"`
			Difficulty       string `json:"difficulty"`
			Content          string `json:"content"`
			ExampleTestcases string `json:"exampleTestcases"`
			CodeSnippets     []struct {
				Lang     string `json:"lang"`
				LangSlug string `json:"langSlug"`
				Code     string `json:"code"`
			} `json:"codeSnippets"`
			TopicTags []struct {
				Name string `json:"name"`
				Slug string `json:"slug"`
			} `json:"topicTags"`
		} `json:"question"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Fetch sends the fixed question query parameterized by titleSlug and
// normalizes the reply into structured fields.
func (s *LeetCodeSource) Fetch(ctx context.Context, slug string) (*models.ProblemData, error) {
	body, err := json.Marshal(graphqlRequest{
		Query:     questionQuery,
		Variables: map[string]string{"titleSlug": slug},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "LeetTrack/1.0 (+github.com/leettrack/leettrack)")

	res, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrUpstream, res.Status)
	}

	var r questionRes
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if len(r.Errors) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, r.Errors[0].Message)
	}
	q := r.Data.Question
	if q == nil {
		return nil, fmt.Errorf("%w: no question for slug %q", ErrNotFound, slug)
	}
	if q.Title == "" || q.TitleSlug == "" || q.Difficulty == "" {
		return nil, fmt.Errorf("%w: slug %q", ErrIncompleteData, slug)
	}

	topic := "Unknown"
	if len(q.TopicTags) > 0 {
		topic = q.TopicTags[0].Name
	}

	starterCode := ""
	for _, snippet := range q.CodeSnippets {
		if snippet.LangSlug == s.PreferredLang {
			starterCode = snippet.Code
			break
		}
	}

	return &models.ProblemData{
		Title:       q.Title,
		Slug:        q.TitleSlug,
		Difficulty:  q.Difficulty,
		Topic:       topic,
		URL:         "https://leetcode.com/problems/" + q.TitleSlug + "/",
		Description: cleanDescription(q.Content),
		Examples:    parseExampleTestcases(q.ExampleTestcases),
		Constraints: extractConstraints(q.Content),
		StarterCode: starterCode,
	}, nil
}
