package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/M-Alradhi/gradproject-api/internal/constants"
	"github.com/sashabaranov/go-openai"
)

// SuggestService drafts a task breakdown for a project from its description,
// as a starting point a supervisor can edit before assigning.
type SuggestService struct {
	client *openai.Client
}

type SuggestedTask struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

func NewSuggestService(apiKey string) *SuggestService {
	return &SuggestService{
		client: openai.NewClient(apiKey),
	}
}

// SuggestTasks analyzes a project description and proposes a task plan.
func (s *SuggestService) SuggestTasks(ctx context.Context, title, description string) ([]SuggestedTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	currentTime := time.Now().Format("2006-01-02")
	prompt := fmt.Sprintf(`You are a project planning assistant for university graduation projects.
Break the following project into concrete, assignable tasks.

Current date: %s

Project title: %s

Project description:
%s

Return a JSON array of tasks in this exact shape:
[
  {
    "title": "short task title",
    "description": "what the students should deliver",
    "due_date": "suggested deadline in ISO8601, e.g. 2025-10-28T23:59:59Z, or null"
  }
]

Return only the JSON array, no other text.`, currentTime, title, description)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call OpenAI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var tasks []SuggestedTask
	if err := json.Unmarshal([]byte(content), &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	if len(tasks) > constants.MaxSuggestedTasks {
		tasks = tasks[:constants.MaxSuggestedTasks]
	}

	return tasks, nil
}
