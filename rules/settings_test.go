package rules

import (
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func TestSettings(t *testing.T) {
	t.Run("each getter only accepts its own type", func(t *testing.T) {
		s := Settings{
			"string":   "value",
			"int":      3,
			"duration": "90s",
		}

		str, ok := s.String("string")
		assert.True(t, ok)
		assert.Equal(t, "value", str)

		i, ok := s.Int("int")
		assert.True(t, ok)
		assert.Equal(t, 3, i)

		_, ok = s.Int("string")
		assert.False(t, ok)

		_, ok = s.String("int")
		assert.False(t, ok)
	})

	t.Run("durations are parsed from strings", func(t *testing.T) {
		s := Settings{"ok": "90s", "bad": "soon", "number": 90}

		d, ok := s.Duration("ok")
		assert.True(t, ok)
		assert.Equal(t, 90*time.Second, d)

		_, ok = s.Duration("bad")
		assert.False(t, ok)

		_, ok = s.Duration("number")
		assert.False(t, ok)

		_, ok = s.Duration("missing")
		assert.False(t, ok)
	})
}
