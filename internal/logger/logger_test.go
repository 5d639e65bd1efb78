package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutput_Level(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, NewWithOutput(&bytes.Buffer{}, "debug").GetLevel())
	assert.Equal(t, logrus.WarnLevel, NewWithOutput(&bytes.Buffer{}, " warning ").GetLevel())
	assert.Equal(t, logrus.InfoLevel, NewWithOutput(&bytes.Buffer{}, "").GetLevel())
	assert.Equal(t, logrus.InfoLevel, NewWithOutput(&bytes.Buffer{}, "loud").GetLevel())
}

func TestNewWithOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	NewWithOutput(&buf, "info").WithField("user_id", "u1").Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "u1", line["user_id"])
	assert.Equal(t, "info", line["level"])
}
