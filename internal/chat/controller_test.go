package chat

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/pathgenie/internal/llm"
	"github.com/jonathan/pathgenie/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLLMClient implements llm.Client for testing
type MockLLMClient struct {
	ChatFunc func(ctx context.Context, req llm.ChatRequest) (string, error)
	calls    int
}

func (m *MockLLMClient) GenerateStructured(context.Context, llm.StructuredRequest) (json.RawMessage, error) {
	return nil, llm.ErrNoStructuredOutput
}

func (m *MockLLMClient) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	m.calls++
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, req)
	}
	return "ok", nil
}

func (m *MockLLMClient) GetModel(llm.ModelTier) string { return "mock-model" }

func (m *MockLLMClient) Close() error { return nil }

func sampleResult() *types.AnalysisResult {
	return &types.AnalysisResult{
		Recommendations: []types.Recommendation{
			{Rank: 1, CareerTitle: "Data Scientist", FitScore: 88, WhyFits: strings.Repeat("a", 200)},
			{Rank: 2, CareerTitle: "Backend Developer", FitScore: 75, WhyFits: "You like APIs"},
		},
		Summary: types.Summary{
			TopRecommendation:     "Data Scientist",
			ConfidenceLevel:       types.ConfidenceHigh,
			ConfidenceExplanation: "Consistent answers",
		},
	}
}

func TestBuildContext(t *testing.T) {
	got := BuildContext(sampleResult())

	assert.Contains(t, got, "- Top recommendation: Data Scientist (Confidence: High)\n- Consistent answers\n")
	assert.Contains(t, got, "#1 Data Scientist (88% fit) - "+strings.Repeat("a", 150)+"\n")
	assert.NotContains(t, got, strings.Repeat("a", 151))
	assert.Contains(t, got, "#2 Backend Developer (75% fit) - You like APIs")
}

func TestSystemPrompt(t *testing.T) {
	got := SystemPrompt(sampleResult())
	assert.True(t, strings.HasPrefix(got, "You are PathGenie"))
	assert.Contains(t, got, "Context about the student:\n\nThe student's career analysis results:")
}

func TestSend_AppendsBothTurns(t *testing.T) {
	var got llm.ChatRequest
	client := &MockLLMClient{ChatFunc: func(_ context.Context, req llm.ChatRequest) (string, error) {
		got = req
		return "Try the AWS Cloud Practitioner first.", nil
	}}
	c := NewController(client, sampleResult(), nil)

	reply, err := c.Send(context.Background(), "  Which cert first?  ")
	require.NoError(t, err)

	assert.Equal(t, types.Turn{Role: types.RoleAssistant, Content: "Try the AWS Cloud Practitioner first."}, reply)
	assert.Equal(t, []types.Turn{
		{Role: types.RoleUser, Content: "Which cert first?"},
		reply,
	}, c.Turns())

	assert.Equal(t, llm.TierLite, got.Tier)
	assert.Contains(t, got.System, "Data Scientist")
	assert.Equal(t, []llm.Message{{Role: llm.RoleUser, Content: "Which cert first?"}}, got.Messages)
	assert.False(t, c.Busy())
}

func TestSend_SendsFullHistory(t *testing.T) {
	var got llm.ChatRequest
	client := &MockLLMClient{ChatFunc: func(_ context.Context, req llm.ChatRequest) (string, error) {
		got = req
		return "reply", nil
	}}
	history := []types.Turn{
		{Role: types.RoleUser, Content: "hi"},
		{Role: types.RoleAssistant, Content: "hello"},
	}
	c := NewController(client, sampleResult(), history)

	_, err := c.Send(context.Background(), "next")
	require.NoError(t, err)

	require.Len(t, got.Messages, 3)
	assert.Equal(t, llm.RoleAssistant, got.Messages[1].Role)
	assert.Len(t, c.Turns(), 4)
}

func TestSend_EmptyMessage(t *testing.T) {
	client := &MockLLMClient{}
	c := NewController(client, sampleResult(), nil)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := c.Send(context.Background(), text)
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}
	assert.Empty(t, c.Turns())
	assert.Equal(t, 0, client.calls)
}

func TestSend_FallbackOnFailure(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{"service error", "", &llm.APIError{Kind: llm.KindUnavailable, StatusCode: 500}},
		{"rate limited", "", &llm.APIError{Kind: llm.KindRateLimited, StatusCode: 429}},
		{"empty reply", "", nil},
		{"blank reply", "  ", nil},
		{"network", "", errors.New("dial tcp: timeout")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &MockLLMClient{ChatFunc: func(context.Context, llm.ChatRequest) (string, error) {
				return tt.reply, tt.err
			}}
			c := NewController(client, sampleResult(), nil)

			reply, err := c.Send(context.Background(), "hello")
			require.NoError(t, err)
			assert.Equal(t, "Sorry, I couldn't process that. Please try again!", reply.Content)
			assert.Len(t, c.Turns(), 2)
			assert.False(t, c.Busy())
		})
	}
}

func TestSend_RejectsWhileBusy(t *testing.T) {
	release := make(chan struct{})
	client := &MockLLMClient{ChatFunc: func(context.Context, llm.ChatRequest) (string, error) {
		<-release
		return "done", nil
	}}
	c := NewController(client, sampleResult(), nil)

	done := make(chan error, 1)
	go func() {
		_, err := c.Send(context.Background(), "first")
		done <- err
	}()

	require.Eventually(t, c.Busy, time.Second, time.Millisecond)

	_, err := c.Send(context.Background(), "second")
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, c.Reset(), ErrBusy)
	assert.Len(t, c.Turns(), 1, "only the first user turn is recorded")

	close(release)
	require.NoError(t, <-done)

	turns := c.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, "first", turns[0].Content)
	assert.Equal(t, "done", turns[1].Content)
	assert.Equal(t, 1, client.calls, "the rejected send never reaches the client")
}

func TestReset(t *testing.T) {
	c := NewController(&MockLLMClient{}, sampleResult(), []types.Turn{{Role: types.RoleUser, Content: "hi"}})
	require.NoError(t, c.Reset())
	assert.Empty(t, c.Turns())
}

func TestSuggestedQuestions(t *testing.T) {
	q := SuggestedQuestions()
	require.Len(t, q, 4)
	assert.Equal(t, "Compare my top 2 career options", q[2])

	q[0] = "changed"
	assert.NotEqual(t, "changed", SuggestedQuestions()[0])
}
