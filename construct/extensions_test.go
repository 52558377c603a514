package construct

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneExtensionsIsDeep(t *testing.T) {
	tags := []string{"a", "b"}
	nested := map[string]any{"scores": []any{1.0, map[string]any{"k": "v"}}}
	in := map[string]any{"tags": tags, "nested": nested, "n": 3}

	out := CloneExtensions(in)
	assert.Equal(t, in, out)

	tags[0] = "changed"
	nested["scores"].([]any)[1].(map[string]any)["k"] = "changed"
	in["n"] = 4

	assert.Equal(t, []string{"a", "b"}, out["tags"])
	assert.Equal(t, "v", out["nested"].(map[string]any)["scores"].([]any)[1].(map[string]any)["k"])
	assert.Equal(t, 3, out["n"])
}

func TestCloneExtensionsNil(t *testing.T) {
	assert.Nil(t, CloneExtensions(nil))
}
