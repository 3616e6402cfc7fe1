package irfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLogger(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	Logger().Debug("hello")
	assert.Equal(t, 1, logs.Len())

	SetLogger(nil)
	require.NotNil(t, Logger())
	assert.NotPanics(t, func() { Logger().Debug("dropped") })
	assert.Equal(t, 1, logs.Len())
}
