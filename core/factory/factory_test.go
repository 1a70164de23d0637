package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greeter struct{ greeting string }

func TestRegistry(t *testing.T) {
	r := NewRegistry[greeter]()
	require.NoError(t, r.Register("hello", func(conf map[string]any) (greeter, error) {
		var c struct {
			Greeting string `json:"greeting"`
		}
		if err := Decode(conf, &c); err != nil {
			return greeter{}, err
		}
		return greeter{greeting: c.Greeting}, nil
	}))
	assert.Error(t, r.Register("hello", func(map[string]any) (greeter, error) { return greeter{}, nil }))
	assert.Error(t, r.Register("nil", nil))

	g, err := r.Create(ModuleConfig{Type: "hello", Conf: map[string]any{"greeting": "bonjour"}})
	require.NoError(t, err)
	assert.Equal(t, "bonjour", g.greeting)

	_, err = r.Create(ModuleConfig{Type: "missing"})
	assert.Error(t, err)
	assert.Equal(t, []string{"hello"}, r.Names())
}

func TestDecodeWeakTypes(t *testing.T) {
	var c struct {
		MaxPasses int  `json:"max_passes"`
		Enabled   bool `json:"enabled"`
	}
	require.NoError(t, Decode(map[string]any{"max_passes": "12", "enabled": "true"}, &c))
	assert.Equal(t, 12, c.MaxPasses)
	assert.True(t, c.Enabled)
}
