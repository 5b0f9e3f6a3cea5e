package keyring_test

import (
	"testing"

	"github.com/alkime/scriptcut/internal/keyring"
	"github.com/alkime/scriptcut/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"
)

func TestKeyring(t *testing.T) {
	gokeyring.MockInit()

	t.Run("provider mapping", func(t *testing.T) {
		for _, p := range pipeline.AllProviders() {
			k := keyring.ForProvider(p)
			assert.Equal(t, string(p), k.DisplayName())

			fromName, err := keyring.APIKeyFromProviderName(string(p))
			require.NoError(t, err)
			assert.Equal(t, k, fromName)
		}
		_, err := keyring.APIKeyFromProviderName("mistral")
		require.Error(t, err)
	})

	t.Run("set and get", func(t *testing.T) {
		assert.False(t, keyring.IsSet(keyring.Gemini))
		_, err := keyring.Get(keyring.Gemini)
		require.Error(t, err)

		require.NoError(t, keyring.Set(keyring.Gemini, "g-secret"))
		assert.True(t, keyring.IsSet(keyring.Gemini))

		v, err := keyring.Get(keyring.Gemini)
		require.NoError(t, err)
		assert.Equal(t, "g-secret", v)
		assert.False(t, keyring.IsSet(keyring.Claude))
	})
}
