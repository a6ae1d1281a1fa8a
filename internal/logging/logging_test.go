package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)

		ctx := WithContext(context.Background(), logger)
		got := FromContext(ctx)

		got.Info().Str("key", "value").Msg("hello")
		assert.Contains(t, buf.String(), `"key":"value"`)
	})

	t.Run("MissingLoggerIsDisabled", func(t *testing.T) {
		got := FromContext(context.Background())
		assert.Equal(t, zerolog.Disabled, got.GetLevel())
	})
}
