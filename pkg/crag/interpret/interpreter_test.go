package interpret

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/cragerr"
)

func TestInterpretValidAnswer(t *testing.T) {
	raw := `{"answer":"Osmosis is passive water transport.","confidence":"High","evidence":["water moves across the membrane"],"found":true}`

	res, err := Interpret(raw, "Biology")
	require.NoError(t, err)
	assert.False(t, res.NotFound)
	assert.Equal(t, "Osmosis is passive water transport.", res.Answer)
	assert.Equal(t, ConfidenceHigh, res.Confidence)
	assert.Equal(t, []string{"water moves across the membrane"}, res.Evidence)
}

func TestInterpretSentinel(t *testing.T) {
	res, err := Interpret("Not found in your notes for [Biology]", "Biology")
	require.NoError(t, err)
	assert.True(t, res.NotFound)
}

func TestInterpretSentinelWrongSubjectIsNotSentinel(t *testing.T) {
	_, err := Interpret("Not found in your notes for [Chemistry]", "Biology")
	require.Error(t, err)
	assert.True(t, errors.Is(err, cragerr.ErrGenerationParse))
}

func TestInterpretFoundFalse(t *testing.T) {
	raw := `{"answer":"","confidence":"Low","evidence":[],"found":false}`

	res, err := Interpret(raw, "Biology")
	require.NoError(t, err)
	assert.True(t, res.NotFound)
}

func TestInterpretContractViolations(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "extra key",
			raw:  `{"answer":"a","confidence":"High","evidence":["e"],"found":true,"note":"x"}`,
		},
		{
			name: "missing key",
			raw:  `{"answer":"a","confidence":"High","found":true}`,
		},
		{
			name: "confidence outside enum",
			raw:  `{"answer":"a","confidence":"Maybe","evidence":["e"],"found":true}`,
		},
		{
			name: "evidence null",
			raw:  `{"answer":"a","confidence":"High","evidence":null,"found":true}`,
		},
		{
			name: "plain prose",
			raw:  `The answer is osmosis.`,
		},
		{
			name: "truncated object",
			raw:  `{"a":1`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Interpret(tt.raw, "Biology")
			require.Error(t, err)
			assert.True(t, errors.Is(err, cragerr.ErrGenerationParse))
		})
	}
}

func TestExtractFirstJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{
			name: "fenced with leading chatter",
			text: "Sure!\n```json\n{\"a\":1,\"b\":{\"c\":2}}\n```",
			want: `{"a":1,"b":{"c":2}}`,
		},
		{
			name: "braces inside string literal",
			text: `{"answer":"use {curly} braces","found":true}`,
			want: `{"answer":"use {curly} braces","found":true}`,
		},
		{
			name: "escaped quote inside string",
			text: `{"answer":"she said \"hi\"","found":true}`,
			want: `{"answer":"she said \"hi\"","found":true}`,
		},
		{
			name:    "truncated fails closed",
			text:    `{"a":1`,
			wantErr: true,
		},
		{
			name:    "no object at all",
			text:    "plain text",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractFirstJSONObject(tt.text)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
