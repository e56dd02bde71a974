package assist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	assert.ErrorIs(t, Config{}.Validate(), ErrInvalidConfig)
	assert.ErrorIs(t, Config{BaseURL: "http://localhost:1234/v1"}.Validate(), ErrInvalidConfig)
	assert.NoError(t, Config{BaseURL: "http://localhost:1234/v1", Model: "m"}.Validate())
}

func TestNewServiceRejectsInvalidConfig(t *testing.T) {
	_, err := NewService(Config{Model: "m"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestExtractJSONHandlesFencesAndProse(t *testing.T) {
	cases := map[string]string{
		"```json\n[{\"a\":1}]\n```":     `[{"a":1}]`,
		"Sure, here you go: {\"a\": 1}": `{"a": 1}`,
		"[1,2,3] trailing":              `[1,2,3]`,
		"no json here":                  "",
		"```\n{\"name\":\"Milk\"}\n```": `{"name":"Milk"}`,
	}
	for in, want := range cases {
		assert.Equalf(t, want, extractJSON(in), "input %q", in)
	}
}

func TestDecodeReplyBadPayload(t *testing.T) {
	var v struct{}
	assert.ErrorIs(t, decodeReply("nothing structured", &v), ErrBadReply)
	assert.ErrorIs(t, decodeReply("{broken", &v), ErrBadReply)
}

func TestDisabledAssistantFailsClosed(t *testing.T) {
	ctx := context.Background()
	var a Assistant = Disabled{}

	_, err := a.ExtractReceipt(ctx, "receipt")
	require.ErrorIs(t, err, ErrUnavailable)
	_, err = a.IdentifyProduct(ctx, "123")
	require.ErrorIs(t, err, ErrUnavailable)
	_, err = a.PlanWeek(ctx, nil)
	require.ErrorIs(t, err, ErrUnavailable)
	_, err = a.AnalyzeBudget(ctx, 0, 0, nil)
	require.ErrorIs(t, err, ErrUnavailable)
	_, err = a.EstimatePrice(ctx, "milk")
	require.ErrorIs(t, err, ErrUnavailable)
	_, err = a.Chat(ctx, "hi")
	require.ErrorIs(t, err, ErrUnavailable)
}
