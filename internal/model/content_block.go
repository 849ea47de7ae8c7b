package model

import (
	"encoding/json"
	"fmt"
)

type BlockType string

const (
	BlockText            BlockType = "text"
	BlockMarkdown        BlockType = "markdown"
	BlockCode            BlockType = "code"
	BlockInteractiveCode BlockType = "interactive-code"
	BlockVideo           BlockType = "video"
	BlockImage           BlockType = "image"
	BlockQuiz            BlockType = "quiz"
)

func (t BlockType) Valid() bool {
	switch t {
	case BlockText, BlockMarkdown, BlockCode, BlockInteractiveCode, BlockVideo, BlockImage, BlockQuiz:
		return true
	}
	return false
}

// ContentBlock is one typed unit of lesson content. The variant payload lives
// in Data as JSON and is flattened into the block object on serialization, so
// the wire shape is {id, type, order, ...payload}. Unknown payload fields are
// kept as-is for forward compatibility with new block variants.
type ContentBlock struct {
	UUIDBase
	LessonID string          `gorm:"type:varchar(36);index;not null" json:"-"`
	Type     BlockType       `gorm:"size:32;not null" json:"type"`
	Order    int             `gorm:"not null" json:"order"`
	Data     json.RawMessage `gorm:"type:json" json:"-"`
}

func (ContentBlock) TableName() string {
	return "content_blocks"
}

func (b ContentBlock) MarshalJSON() ([]byte, error) {
	flat := map[string]interface{}{}
	if len(b.Data) > 0 {
		if err := json.Unmarshal(b.Data, &flat); err != nil {
			return nil, err
		}
	}
	flat["id"] = b.ID
	flat["type"] = b.Type
	flat["order"] = b.Order
	return json.Marshal(flat)
}

// MergePayload overlays the supplied fields onto the existing payload. New
// keys overwrite, keys absent from the update survive.
func (b *ContentBlock) MergePayload(fields map[string]interface{}) error {
	merged := map[string]interface{}{}
	if len(b.Data) > 0 {
		if err := json.Unmarshal(b.Data, &merged); err != nil {
			return err
		}
	}
	for k, v := range fields {
		merged[k] = v
	}
	raw, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	b.Data = raw
	return nil
}

// ValidateBlockPayload checks the variant-specific required fields of a block
// payload. Extra fields are allowed everywhere.
func ValidateBlockPayload(t BlockType, payload map[string]interface{}) error {
	requireString := func(key string) error {
		v, ok := payload[key].(string)
		if !ok || v == "" {
			return fmt.Errorf("%s block requires %q", t, key)
		}
		return nil
	}

	switch t {
	case BlockText, BlockMarkdown:
		return requireString("content")
	case BlockCode:
		return requireString("code")
	case BlockInteractiveCode:
		return requireString("starterCode")
	case BlockVideo, BlockImage:
		return requireString("url")
	case BlockQuiz:
		if err := requireString("question"); err != nil {
			return err
		}
		options, ok := payload["options"].([]interface{})
		if !ok || len(options) < 2 {
			return fmt.Errorf("quiz block requires at least two options")
		}
		correct := 0
		for _, o := range options {
			opt, ok := o.(map[string]interface{})
			if !ok {
				return fmt.Errorf("quiz option must be an object")
			}
			if isCorrect, _ := opt["isCorrect"].(bool); isCorrect {
				correct++
			}
		}
		if correct != 1 {
			return fmt.Errorf("quiz block requires exactly one correct option")
		}
		return nil
	default:
		return fmt.Errorf("unknown block type %q", t)
	}
}
