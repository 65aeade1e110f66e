package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export data",
	Long:  `Export your tracked problems and progress to a file.`,
}

var exportProblemsCmd = &cobra.Command{
	Use:   "problems",
	Short: "Export tracked problems",
	Long:  `Export your tracked problems with progress to JSON or CSV format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := authedRequest("GET", "/problems?userOnly=true", nil)
		if err != nil {
			return err
		}

		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to fetch problems: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("server returned status: %d", resp.StatusCode)
		}

		body, _ := io.ReadAll(resp.Body)

		var list []struct {
			Problem struct {
				Slug       string `json:"slug"`
				Title      string `json:"title"`
				Difficulty string `json:"difficulty"`
				Topic      string `json:"topic"`
				URL        string `json:"url"`
			} `json:"problem"`
			UserProblem struct {
				Status      string     `json:"status"`
				Rating      *int       `json:"rating"`
				Notes       string     `json:"notes"`
				LastAttempt *time.Time `json:"last_attempt"`
			} `json:"userProblem"`
		}
		json.Unmarshal(body, &list)

		// Format output
		var outputData []byte
		switch strings.ToLower(exportFormat) {
		case "json":
			outputData, _ = json.MarshalIndent(list, "", "  ")
		case "csv":
			var buf bytes.Buffer
			w := csv.NewWriter(&buf)
			w.Write([]string{"Slug", "Title", "Difficulty", "Topic", "URL", "Status", "Rating", "LastAttempt"})
			for _, item := range list {
				rating := ""
				if item.UserProblem.Rating != nil {
					rating = fmt.Sprintf("%d", *item.UserProblem.Rating)
				}
				lastAttempt := ""
				if item.UserProblem.LastAttempt != nil {
					lastAttempt = item.UserProblem.LastAttempt.Format("2006-01-02")
				}
				w.Write([]string{
					item.Problem.Slug,
					item.Problem.Title,
					item.Problem.Difficulty,
					item.Problem.Topic,
					item.Problem.URL,
					item.UserProblem.Status,
					rating,
					lastAttempt,
				})
			}
			w.Flush()
			outputData = buf.Bytes()
		default:
			return fmt.Errorf("unsupported format: %s", exportFormat)
		}

		// Write to file or stdout
		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, outputData, 0644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			printSuccess(fmt.Sprintf("Problems exported to %s", exportOutput))
		} else {
			fmt.Println(string(outputData))
		}

		return nil
	},
}

func init() {
	exportProblemsCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format (json, csv)")
	exportProblemsCmd.Flags().StringVar(&exportOutput, "output", "", "Output file path")
	exportCmd.AddCommand(exportProblemsCmd)
}
