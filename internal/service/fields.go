package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"todo-api/internal/domain"
)

const (
	FieldText        = "text"
	FieldCompleted   = "completed"
	FieldCompletedAt = "completedAt"
)

// updatableTodoFields is the allow-list of client-writable todo fields.
var updatableTodoFields = [...]string{FieldText, FieldCompleted}

// TodoFields is a loosely typed update payload keyed by JSON field name.
type TodoFields map[string]any

// IsValidID reports whether id is a well-formed ObjectId hex string.
func IsValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// ProjectTodoFields copies the allow-listed fields out of payload. Values are not inspected.
func ProjectTodoFields(payload map[string]any) TodoFields {
	fields := make(TodoFields, len(updatableTodoFields))
	for _, key := range updatableTodoFields {
		if v, ok := payload[key]; ok {
			fields[key] = v
		}
	}
	return fields
}

// NormalizeCompletion stamps completedAt when completed is boolean true and
// otherwise resets both fields. A missing completed counts as not completed.
func NormalizeCompletion(fields TodoFields, now time.Time) TodoFields {
	out := make(TodoFields, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}

	if completed, ok := out[FieldCompleted].(bool); ok && completed {
		out[FieldCompletedAt] = now.UnixMilli()
	} else {
		out[FieldCompleted] = false
		out[FieldCompletedAt] = nil
	}
	return out
}

// ToUpdate casts normalized fields into a typed update.
func (f TodoFields) ToUpdate() (domain.TodoUpdate, error) {
	var update domain.TodoUpdate

	if raw, ok := f[FieldText]; ok && raw != nil {
		text, err := castText(raw)
		if err != nil {
			return domain.TodoUpdate{}, domain.NewValidationError("Todo", textCastFailed(err))
		}
		if text == "" {
			return domain.TodoUpdate{}, domain.NewValidationError("Todo", textRequired())
		}
		update.Text = &text
	}

	update.Completed, _ = f[FieldCompleted].(bool)
	switch v := f[FieldCompletedAt].(type) {
	case int64:
		update.CompletedAt = &v
	case nil:
	default:
		return domain.TodoUpdate{}, fmt.Errorf("unexpected completedAt type %T", v)
	}
	return update, nil
}

func castText(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", fmt.Errorf("cast to string failed for value of type %T", v)
	}
}

func textCastFailed(err error) domain.FieldError {
	return domain.FieldError{
		Path:    FieldText,
		Kind:    "string",
		Message: err.Error(),
	}
}

func textRequired() domain.FieldError {
	return domain.FieldError{
		Path:    FieldText,
		Kind:    "required",
		Message: "Path `text` is required.",
	}
}
