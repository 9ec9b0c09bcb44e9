package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-api/internal/domain"
	apphttp "todo-api/internal/http"
)

func TestPrintTodosUsesAPIFieldNames(t *testing.T) {
	at := int64(333)
	todos := []domain.Todo{
		{ID: "5b351c83437c93eab54cd6b8", Text: "Eat avocado"},
		{ID: "5b351c83437c93eab54cd6b9", Text: "Do KEEP", Completed: true, CompletedAt: &at},
	}

	var out bytes.Buffer
	require.NoError(t, printTodos(&out, todos))

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &raw))
	require.Len(t, raw, 2)
	assert.Equal(t, "5b351c83437c93eab54cd6b8", raw[0]["_id"])
	assert.Equal(t, "Eat avocado", raw[0]["text"])
	assert.Equal(t, false, raw[0]["completed"])
	assert.Contains(t, raw[0], "completedAt")
	assert.Nil(t, raw[0]["completedAt"])
	assert.Equal(t, float64(333), raw[1]["completedAt"])
	assert.NotContains(t, raw[0], "ID")
	assert.NotContains(t, raw[0], "Text")
}

func TestPrintSingleTodo(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printJSON(&out, apphttp.TodoToResponse(domain.Todo{ID: "5b351c83437c93eab54cd6b8", Text: "walk"})))

	var got apphttp.TodoResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, apphttp.TodoResponse{ID: "5b351c83437c93eab54cd6b8", Text: "walk"}, got)
	assert.Contains(t, out.String(), `"_id"`)
}
