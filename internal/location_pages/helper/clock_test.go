package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureTimeLocation(t *testing.T) {
	t.Cleanup(func() { _ = ConfigureTimeLocation("") })

	require.NoError(t, ConfigureTimeLocation("UTC"))
	assert.Equal(t, time.UTC, Location())

	require.Error(t, ConfigureTimeLocation("Mars/Olympus_Mons"))
	assert.Equal(t, time.Local, Location())

	require.NoError(t, ConfigureTimeLocation(""))
	assert.Equal(t, time.Local, Location())
}
