package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentBlockMarshalFlattensPayload(t *testing.T) {
	block := ContentBlock{
		Type:  BlockText,
		Order: 2,
		Data:  json.RawMessage(`{"content":"hello","note":"keep me"}`),
	}
	block.ID = "b1"

	raw, err := json.Marshal(block)
	require.NoError(t, err)

	var flat map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &flat))
	assert.Equal(t, "b1", flat["id"])
	assert.Equal(t, "text", flat["type"])
	assert.Equal(t, float64(2), flat["order"])
	assert.Equal(t, "hello", flat["content"])
	assert.Equal(t, "keep me", flat["note"])
}

func TestMergePayloadKeepsUnspecifiedKeys(t *testing.T) {
	block := ContentBlock{
		Type: BlockCode,
		Data: json.RawMessage(`{"code":"print(1)","language":"python"}`),
	}

	require.NoError(t, block.MergePayload(map[string]interface{}{"code": "print(2)"}))

	var merged map[string]interface{}
	require.NoError(t, json.Unmarshal(block.Data, &merged))
	assert.Equal(t, "print(2)", merged["code"])
	assert.Equal(t, "python", merged["language"])
}

func TestValidateBlockPayload(t *testing.T) {
	cases := []struct {
		name    string
		typ     BlockType
		payload map[string]interface{}
		wantErr bool
	}{
		{"text ok", BlockText, map[string]interface{}{"content": "hi"}, false},
		{"text missing content", BlockText, map[string]interface{}{}, true},
		{"markdown ok", BlockMarkdown, map[string]interface{}{"content": "# hi"}, false},
		{"code missing code", BlockCode, map[string]interface{}{"language": "go"}, true},
		{"interactive needs starter", BlockInteractiveCode, map[string]interface{}{"starterCode": "x"}, false},
		{"video needs url", BlockVideo, map[string]interface{}{}, true},
		{"image ok", BlockImage, map[string]interface{}{"url": "/a.png"}, false},
		{"unknown type", BlockType("poll"), map[string]interface{}{}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateBlockPayload(tc.typ, tc.payload)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateQuizPayload(t *testing.T) {
	opt := func(text string, correct bool) map[string]interface{} {
		return map[string]interface{}{"text": text, "isCorrect": correct}
	}

	valid := map[string]interface{}{
		"question": "2+2?",
		"options":  []interface{}{opt("3", false), opt("4", true)},
	}
	assert.NoError(t, ValidateBlockPayload(BlockQuiz, valid))

	oneOption := map[string]interface{}{
		"question": "2+2?",
		"options":  []interface{}{opt("4", true)},
	}
	assert.Error(t, ValidateBlockPayload(BlockQuiz, oneOption))

	noCorrect := map[string]interface{}{
		"question": "2+2?",
		"options":  []interface{}{opt("3", false), opt("5", false)},
	}
	assert.Error(t, ValidateBlockPayload(BlockQuiz, noCorrect))

	twoCorrect := map[string]interface{}{
		"question": "2+2?",
		"options":  []interface{}{opt("4", true), opt("four", true)},
	}
	assert.Error(t, ValidateBlockPayload(BlockQuiz, twoCorrect))
}
