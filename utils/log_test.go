package utils_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/NethermindEth/starkbridge/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var levelStrings = map[*utils.LogLevel]string{
	utils.NewLogLevel(utils.DEBUG): "debug",
	utils.NewLogLevel(utils.INFO):  "info",
	utils.NewLogLevel(utils.WARN):  "warn",
	utils.NewLogLevel(utils.ERROR): "error",
}

func TestLogLevelString(t *testing.T) {
	for level, str := range levelStrings {
		t.Run("level "+str, func(t *testing.T) {
			assert.Equal(t, str, level.String())
		})
	}
}

// LogLevel implements both pflag.Value and encoding.TextUnmarshaler, so Set and
// UnmarshalText share their cases.
func TestLogLevelSet(t *testing.T) {
	for level, str := range levelStrings {
		t.Run("level "+str, func(t *testing.T) {
			l := new(utils.LogLevel)
			require.NoError(t, l.Set(str))
			assert.Equal(t, *level, *l)
		})
		uppercase := strings.ToUpper(str)
		t.Run("level "+uppercase, func(t *testing.T) {
			l := new(utils.LogLevel)
			require.NoError(t, l.UnmarshalText([]byte(uppercase)))
			assert.Equal(t, *level, *l)
		})
	}

	t.Run("unknown log level", func(t *testing.T) {
		l := new(utils.LogLevel)
		require.ErrorIs(t, l.Set("blah"), utils.ErrUnknownLogLevel)
		require.ErrorIs(t, l.UnmarshalText([]byte("trace")), utils.ErrUnknownLogLevel)
	})
}

func TestLogLevelMarshalJSON(t *testing.T) {
	for level, str := range levelStrings {
		t.Run("level "+str, func(t *testing.T) {
			lb, err := json.Marshal(level)
			require.NoError(t, err)
			assert.Equal(t, `"`+str+`"`, string(lb))
		})
	}
}

func TestLogLevelMarshalYAML(t *testing.T) {
	for level, str := range levelStrings {
		t.Run("level "+str, func(t *testing.T) {
			lb, err := yaml.Marshal(*level)
			require.NoError(t, err)
			assert.Equal(t, str+"\n", string(lb))
		})
	}
}

func TestLogLevelType(t *testing.T) {
	assert.Equal(t, "LogLevel", new(utils.LogLevel).Type())
}

func TestZapWithColour(t *testing.T) {
	for level, str := range levelStrings {
		t.Run("level: "+str, func(t *testing.T) {
			_, err := utils.NewZapLogger(*level, true)
			assert.NoError(t, err)
		})
	}
}

func TestZapWithoutColour(t *testing.T) {
	for level, str := range levelStrings {
		t.Run("level: "+str, func(t *testing.T) {
			_, err := utils.NewZapLogger(*level, false)
			assert.NoError(t, err)
		})
	}
}
