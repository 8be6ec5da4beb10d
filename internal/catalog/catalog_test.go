package catalog

import (
	"strings"
	"testing"

	"github.com/jonathan/pathgenie/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Loads(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 19, c.Len())
	assert.Equal(t, "name", c.At(0).ID)
	assert.Equal(t, "confusion_areas", c.At(c.Len()-1).ID)

	q, ok := c.Get("pre_confidence")
	require.True(t, ok)
	assert.Equal(t, types.KindRating, q.Kind)
	assert.True(t, q.Required)

	q, ok = c.Get("tools")
	require.True(t, ok)
	assert.False(t, q.Required, "tools is optional")
	assert.True(t, q.HasOption("docker"))
	assert.Equal(t, "Docker / Kubernetes", q.OptionLabel("docker"))
}

func TestDefault_DifficultyOrder(t *testing.T) {
	c := MustDefault()
	rank := map[types.Difficulty]int{
		types.DifficultyBasic:        0,
		types.DifficultyIntermediate: 1,
		types.DifficultyAdvanced:     2,
	}

	prev := 0
	for _, q := range c.Questions() {
		r, ok := rank[q.Difficulty]
		require.True(t, ok, "question %s has difficulty %q", q.ID, q.Difficulty)
		assert.GreaterOrEqual(t, r, prev, "question %s is out of difficulty order", q.ID)
		prev = r
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", "[]", "no questions"},
		{"missing id", "- {type: text, question: x}", "has no id"},
		{"duplicate id", "- {id: a, type: text}\n- {id: a, type: text}", "duplicate question id"},
		{"unknown kind", "- {id: a, type: slider}", "unknown type"},
		{"select without options", "- {id: a, type: select}", "has no options"},
		{"text with options", "- {id: a, type: text, options: [{value: x, label: X}]}", "must not have options"},
		{"duplicate option", "- {id: a, type: select, options: [{value: x, label: X}, {value: x, label: Y}]}", "duplicate option"},
		{"not yaml", "{{{", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestQuestions_ReturnsCopy(t *testing.T) {
	c := MustDefault()
	qs := c.Questions()
	qs[0].ID = "changed"

	assert.Equal(t, "name", c.At(0).ID)
	assert.Equal(t, 0, c.IndexOf("name"))
	assert.Equal(t, -1, c.IndexOf("missing"))
}
