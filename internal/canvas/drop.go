package canvas

import (
	"log"

	"lemonspace/internal/model"

	"github.com/google/uuid"
)

// SanitizeDropPayload turns the payload of a drop event into a new block. Unknown types
// become text and non-object data becomes an empty mapping, both with a warning. A payload
// that is not an object, or an empty one, yields no block.
func SanitizeDropPayload(payload any, logger *log.Logger) (model.Block, bool) {
	fields, ok := payload.(map[string]any)
	if !ok || len(fields) == 0 {
		logger.Printf("⚠️  drop ignored: payload %T carries no block data", payload)
		return model.Block{}, false
	}

	block := model.Block{
		ID:   uuid.NewString(),
		Type: model.DefaultBlockType,
		Data: map[string]any{},
	}

	if raw, present := fields["type"]; present {
		name, _ := raw.(string)
		if t, known := model.ParseBlockType(name); known {
			block.Type = t
		} else {
			logger.Printf("⚠️  unknown block type %v, using %q", raw, model.DefaultBlockType)
		}
	}

	if raw, present := fields["data"]; present {
		if data, isObject := raw.(map[string]any); isObject && data != nil {
			block.Data = data
		} else {
			logger.Printf("⚠️  block data of type %T is not an object, using {}", raw)
		}
	}

	return block, true
}
