package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"resume-tailor/internal/llm"
)

type fakeModel struct {
	messages []llms.MessageContent
	opts     llms.CallOptions
	resp     *llms.ContentResponse
	err      error
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	for _, opt := range options {
		opt(&f.opts)
	}
	return f.resp, f.err
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func TestCompletePassesRolesAndOptions(t *testing.T) {
	fake := &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: ` {"name":"A"} `}}}}
	client := NewWithModel(fake)

	out, err := client.Complete(context.Background(), llm.Request{System: "sys", User: "text", Temperature: 0.1, JSON: true})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"A"}`, out)
	require.Len(t, fake.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, fake.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, fake.messages[1].Role)
	assert.True(t, fake.opts.JSONMode)
	assert.InDelta(t, 0.1, fake.opts.Temperature, 0.001)
}

func TestCompleteErrors(t *testing.T) {
	client := NewWithModel(&fakeModel{err: errors.New("quota")})
	_, err := client.Complete(context.Background(), llm.Request{User: "u"})
	assert.ErrorContains(t, err, "quota")

	client = NewWithModel(&fakeModel{resp: &llms.ContentResponse{}})
	_, err = client.Complete(context.Background(), llm.Request{User: "u"})
	assert.Error(t, err)
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(context.Background(), "", "")
	assert.Error(t, err)
}
