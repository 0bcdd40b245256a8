package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogErrorWritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(&buf)

	LogError(l, "lot", "UpdateLot", "save", map[string]int{"uniqueId": 7}, errors.New("boom"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "lot", entry["module"])
	assert.Equal(t, "UpdateLot", entry["funcName"])
	assert.Equal(t, "boom", entry["msg"])
	assert.NotNil(t, entry["data"])
}

func TestSetLevelIgnoresUnknown(t *testing.T) {
	SetLevel("debug")
	assert.Equal(t, logrus.DebugLevel, Get().GetLevel())
	SetLevel("loud")
	assert.Equal(t, logrus.DebugLevel, Get().GetLevel())
	SetLevel("info")
}
