package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/leettrack/leettrack/cli/config"
	"github.com/spf13/cobra"
)

var (
	addTitle      string
	addDifficulty string
	addTopic      string
	addURL        string
	listAll       bool
	attemptLength int
	attemptNotes  string
)

var problemsCmd = &cobra.Command{
	Use:   "problems",
	Short: "Problem tracking commands",
	Long:  `Add, list, and update the coding problems you are working through.`,
}

// authedRequest builds a request with the stored bearer token attached.
func authedRequest(method, path string, body interface{}) (*http.Request, error) {
	cfg, err := config.Load()
	if err != nil {
		printError("Configuration not initialized")
		fmt.Println("Run: leettrack init")
		return nil, err
	}

	if cfg.User.Token == "" {
		printError("Not authenticated. Run 'leettrack auth login' first")
		return nil, fmt.Errorf("authentication required")
	}

	serverURL, err := config.GetServerURL()
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, serverURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+cfg.User.Token)
	return req, nil
}

func decodeError(body []byte) string {
	var errResp map[string]string
	json.Unmarshal(body, &errResp)
	if errResp["error"] != "" {
		return errResp["error"]
	}
	return "unexpected server response"
}

var problemsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a problem to your list",
	Long:  `Add a problem to your tracked list. Metadata is fetched from the problem URL when only the basics are given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reqBody := map[string]interface{}{
			"title":      addTitle,
			"difficulty": addDifficulty,
			"topic":      addTopic,
			"url":        addURL,
		}

		req, err := authedRequest("POST", "/problems", reqBody)
		if err != nil {
			return err
		}

		client := &http.Client{Timeout: 15 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			printError("Add failed: Server connection error")
			fmt.Println("Check server status: leettrack system info")
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			msg := decodeError(body)
			if strings.Contains(msg, "already in your list") {
				printError(fmt.Sprintf("Add failed: %s", msg))
				fmt.Println("See it with: leettrack problems list")
			} else {
				printError(fmt.Sprintf("Add failed: %s", msg))
			}
			return fmt.Errorf("add failed")
		}

		var result struct {
			Problem struct {
				Slug       string `json:"slug"`
				Title      string `json:"title"`
				Difficulty string `json:"difficulty"`
				Topic      string `json:"topic"`
			} `json:"problem"`
			UserProblem struct {
				Status string `json:"status"`
			} `json:"userProblem"`
		}
		json.Unmarshal(body, &result)

		printSuccess(fmt.Sprintf("Added %q to your list!", result.Problem.Title))
		fmt.Printf("  Slug: %s\n", result.Problem.Slug)
		fmt.Printf("  Difficulty: %s\n", result.Problem.Difficulty)
		fmt.Printf("  Topic: %s\n", result.Problem.Topic)
		fmt.Printf("  Status: %s\n", result.UserProblem.Status)
		fmt.Println("\nRecord an attempt:")
		fmt.Printf("  leettrack problems attempt %s Solved\n", result.Problem.Slug)

		return nil
	},
}

var problemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your tracked problems",
	Long:  `List the problems in your list with your progress. Use --all for the shared catalog.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/problems?userOnly=true"
		if listAll {
			path = "/problems?userOnly=false"
		}

		req, err := authedRequest("GET", path, nil)
		if err != nil {
			return err
		}

		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			printError("List failed: Server connection error")
			fmt.Println("Check server status: leettrack system info")
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode != http.StatusOK {
			printError(fmt.Sprintf("List failed: %s", decodeError(body)))
			return fmt.Errorf("list failed")
		}

		if listAll {
			var catalog []struct {
				Slug       string `json:"slug"`
				Title      string `json:"title"`
				Difficulty string `json:"difficulty"`
				Topic      string `json:"topic"`
			}
			json.Unmarshal(body, &catalog)

			if len(catalog) == 0 {
				fmt.Println("The catalog is empty")
				return nil
			}

			fmt.Printf("Catalog (%d problems):\n\n", len(catalog))
			for i, p := range catalog {
				fmt.Printf("%d. %s [%s] - %s\n", i+1, p.Title, p.Difficulty, p.Topic)
				fmt.Printf("   Slug: %s\n", p.Slug)
			}
			return nil
		}

		var list []struct {
			Problem struct {
				Slug       string `json:"slug"`
				Title      string `json:"title"`
				Difficulty string `json:"difficulty"`
				Topic      string `json:"topic"`
			} `json:"problem"`
			UserProblem struct {
				Status      string     `json:"status"`
				Rating      *int       `json:"rating"`
				Notes       string     `json:"notes"`
				LastAttempt *time.Time `json:"last_attempt"`
			} `json:"userProblem"`
		}
		json.Unmarshal(body, &list)

		if len(list) == 0 {
			fmt.Println("Your list is empty")
			fmt.Println("Add a problem: leettrack problems add --url <problem-url> --title <title> --difficulty Easy --topic Array")
			return nil
		}

		fmt.Printf("Your problems (%d):\n\n", len(list))
		for i, item := range list {
			fmt.Printf("%d. %s [%s] - %s\n", i+1, item.Problem.Title, item.Problem.Difficulty, item.Problem.Topic)
			fmt.Printf("   Slug: %s\n", item.Problem.Slug)
			fmt.Printf("   Status: %s\n", item.UserProblem.Status)
			if item.UserProblem.Rating != nil {
				fmt.Printf("   Rating: %d/10\n", *item.UserProblem.Rating)
			}
			if item.UserProblem.LastAttempt != nil {
				fmt.Printf("   Last attempt: %s\n", item.UserProblem.LastAttempt.Format("2006-01-02"))
			}
			if item.UserProblem.Notes != "" {
				notes := item.UserProblem.Notes
				if len(notes) > 80 {
					notes = notes[:80] + "..."
				}
				fmt.Printf("   Notes: %s\n", notes)
			}
			fmt.Println()
		}

		return nil
	},
}

var problemsCuratedCmd = &cobra.Command{
	Use:   "curated",
	Short: "Show the curated starter set",
	Long:  `Show the curated list of classic problems, a good starting point for interview prep.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		serverURL, err := config.GetServerURL()
		if err != nil {
			printError("Configuration not initialized")
			fmt.Println("Run: leettrack init")
			return err
		}

		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Get(serverURL + "/problems/curated")
		if err != nil {
			printError("Request failed: Server connection error")
			fmt.Println("Check server status: leettrack system info")
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode != http.StatusOK {
			printError(fmt.Sprintf("Request failed: %s", decodeError(body)))
			return fmt.Errorf("curated list request failed")
		}

		var curated []struct {
			ID         string `json:"id"`
			Title      string `json:"title"`
			Difficulty string `json:"difficulty"`
			Topic      string `json:"topic"`
			URL        string `json:"url"`
		}
		json.Unmarshal(body, &curated)

		fmt.Printf("Curated problems (%d):\n\n", len(curated))
		for i, p := range curated {
			fmt.Printf("%d. %s [%s] - %s\n", i+1, p.Title, p.Difficulty, p.Topic)
			fmt.Printf("   %s\n", p.URL)
		}

		fmt.Println("\nAdd one to your list:")
		fmt.Println("  leettrack problems add --url <url> --title <title> --difficulty <difficulty> --topic <topic>")

		return nil
	},
}

var problemsShowCmd = &cobra.Command{
	Use:   "show [slug]",
	Short: "Show a problem",
	Long:  `Show the full catalog entry for a problem, including description, examples, and constraints.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := args[0]

		serverURL, err := config.GetServerURL()
		if err != nil {
			printError("Configuration not initialized")
			fmt.Println("Run: leettrack init")
			return err
		}

		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Get(serverURL + "/problems/" + slug)
		if err != nil {
			printError("Request failed: Server connection error")
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode == http.StatusNotFound {
			printError(fmt.Sprintf("Problem not found: %s", slug))
			fmt.Println("Browse the catalog: leettrack problems list --all")
			return fmt.Errorf("problem not found")
		}
		if resp.StatusCode != http.StatusOK {
			printError(fmt.Sprintf("Request failed: %s", decodeError(body)))
			return fmt.Errorf("show failed")
		}

		var p struct {
			Title       string `json:"title"`
			Difficulty  string `json:"difficulty"`
			Topic       string `json:"topic"`
			URL         string `json:"url"`
			Description string `json:"description"`
			Examples    []struct {
				Input       string `json:"input"`
				Output      string `json:"output"`
				Explanation string `json:"explanation"`
			} `json:"examples"`
			Constraints []string `json:"constraints"`
		}
		json.Unmarshal(body, &p)

		fmt.Printf("%s [%s]\n", p.Title, p.Difficulty)
		fmt.Printf("Topic: %s\n", p.Topic)
		fmt.Printf("URL: %s\n", p.URL)
		if p.Description != "" {
			fmt.Printf("\n%s\n", p.Description)
		}
		for i, ex := range p.Examples {
			fmt.Printf("\nExample %d:\n", i+1)
			fmt.Printf("  Input: %s\n", ex.Input)
			fmt.Printf("  Output: %s\n", ex.Output)
			if ex.Explanation != "" {
				fmt.Printf("  Explanation: %s\n", ex.Explanation)
			}
		}
		if len(p.Constraints) > 0 {
			fmt.Println("\nConstraints:")
			for _, con := range p.Constraints {
				fmt.Printf("  - %s\n", con)
			}
		}

		return nil
	},
}

var problemsStatusCmd = &cobra.Command{
	Use:   "status [slug] [status]",
	Short: "Update the status of a problem",
	Long:  `Update the progress status of a tracked problem (e.g. "In Progress", "Completed", "Stuck").`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := args[0]
		status := args[1]

		req, err := authedRequest("PUT", "/problems/"+slug+"/status", map[string]string{"status": status})
		if err != nil {
			return err
		}

		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			printError("Update failed: Server connection error")
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode != http.StatusOK {
			printError(fmt.Sprintf("Update failed: %s", decodeError(body)))
			if resp.StatusCode == http.StatusBadRequest {
				fmt.Println("Valid statuses: Not Started, In Progress, Stuck, Partial Solution, Completed, Needs Optimization, Revisit")
			}
			return fmt.Errorf("status update failed")
		}

		printSuccess(fmt.Sprintf("Status of %s set to %q", slug, status))
		return nil
	},
}

var problemsRateCmd = &cobra.Command{
	Use:   "rate [slug] [rating]",
	Short: "Rate a problem's difficulty",
	Long:  `Rate how hard a tracked problem felt, from 1 (trivial) to 10 (brutal).`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := args[0]
		rating, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("rating must be a number between 1 and 10")
		}

		req, err := authedRequest("PUT", "/problems/"+slug+"/rating", map[string]int{"rating": rating})
		if err != nil {
			return err
		}

		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			printError("Update failed: Server connection error")
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode != http.StatusOK {
			printError(fmt.Sprintf("Update failed: %s", decodeError(body)))
			return fmt.Errorf("rating update failed")
		}

		printSuccess(fmt.Sprintf("Rated %s %d/10", slug, rating))
		return nil
	},
}

var problemsAttemptCmd = &cobra.Command{
	Use:   "attempt [slug] [result]",
	Short: "Record an attempt",
	Long:  `Record an attempt at a tracked problem. Result is one of Failed, Partial, or Solved.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := args[0]
		result := args[1]

		reqBody := map[string]interface{}{
			"status": result,
		}
		if attemptLength > 0 {
			reqBody["duration"] = attemptLength
		}
		if attemptNotes != "" {
			reqBody["notes"] = attemptNotes
		}

		req, err := authedRequest("POST", "/problems/"+slug+"/attempts", reqBody)
		if err != nil {
			return err
		}

		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			printError("Attempt failed: Server connection error")
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode != http.StatusCreated {
			printError(fmt.Sprintf("Attempt failed: %s", decodeError(body)))
			if resp.StatusCode == http.StatusBadRequest {
				fmt.Println("Valid results: Failed, Partial, Solved")
			}
			return fmt.Errorf("attempt record failed")
		}

		printSuccess(fmt.Sprintf("Recorded %s attempt for %s", result, slug))
		return nil
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Progress management commands",
	Long:  `Manage your overall tracked progress.`,
}

var progressClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all your progress",
	Long:  `Delete all of your progress rows, attempts, and snippets. The shared problem catalog is untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print("This removes ALL your progress. The problem catalog stays intact. Continue? [y/N]: ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			printInfo("Aborted")
			return nil
		}

		req, err := authedRequest("DELETE", "/user/progress", nil)
		if err != nil {
			return err
		}

		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			printError("Clear failed: Server connection error")
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode != http.StatusOK {
			printError(fmt.Sprintf("Clear failed: %s", decodeError(body)))
			return fmt.Errorf("clear failed")
		}

		var result struct {
			Cleared int `json:"cleared"`
		}
		json.Unmarshal(body, &result)

		printSuccess(fmt.Sprintf("Cleared progress on %d problem(s)", result.Cleared))
		fmt.Println("Start fresh: leettrack problems curated")
		return nil
	},
}

func init() {
	problemsAddCmd.Flags().StringVar(&addTitle, "title", "", "Problem title")
	problemsAddCmd.Flags().StringVar(&addDifficulty, "difficulty", "", "Difficulty (Easy, Medium, Hard)")
	problemsAddCmd.Flags().StringVar(&addTopic, "topic", "", "Primary topic (Array, Graph, ...)")
	problemsAddCmd.Flags().StringVar(&addURL, "url", "", "Canonical problem URL")
	problemsAddCmd.MarkFlagRequired("title")
	problemsAddCmd.MarkFlagRequired("difficulty")
	problemsAddCmd.MarkFlagRequired("topic")
	problemsAddCmd.MarkFlagRequired("url")

	problemsListCmd.Flags().BoolVar(&listAll, "all", false, "List the shared catalog instead of your list")

	problemsAttemptCmd.Flags().IntVar(&attemptLength, "duration", 0, "Attempt duration in minutes")
	problemsAttemptCmd.Flags().StringVar(&attemptNotes, "notes", "", "Notes about the attempt")

	problemsCmd.AddCommand(problemsAddCmd)
	problemsCmd.AddCommand(problemsListCmd)
	problemsCmd.AddCommand(problemsCuratedCmd)
	problemsCmd.AddCommand(problemsShowCmd)
	problemsCmd.AddCommand(problemsStatusCmd)
	problemsCmd.AddCommand(problemsRateCmd)
	problemsCmd.AddCommand(problemsAttemptCmd)

	progressCmd.AddCommand(progressClearCmd)
}
