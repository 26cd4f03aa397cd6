package seascape

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLogger_Levels(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoggerTo(&out, &errOut, "scene", false)

	l.Debugf("hidden %d", 1)
	l.Infof("panel %q ready", "a")
	l.Warnf("fallback")
	l.Errorf("render failed")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), `[scene] INFO: panel "a" ready`)
	assert.Contains(t, errOut.String(), "[scene] WARN: fallback")
	assert.Contains(t, errOut.String(), "[scene] ERROR: render failed")

	assert.False(t, l.DebugEnabled())

	out.Reset()
	dbg := NewLoggerTo(&out, &errOut, "", true)
	dbg.Debugf("shown %d", 2)
	assert.True(t, dbg.DebugEnabled())
	assert.True(t, strings.Contains(out.String(), "DEBUG: shown 2"))
	assert.False(t, strings.Contains(out.String(), "[]"), "no brackets without a prefix")
}

func TestApp_LoggerFallsBackToNop(t *testing.T) {
	var nilApp *App
	assert.NotNil(t, nilApp.Logger())
	assert.NotNil(t, NewApp().Logger())

	var out bytes.Buffer
	app := NewApp()
	app.UseModules(LoggingModule{Logger: NewLoggerTo(&out, &out, "", false)})
	app.Logger().Infof("hello")
	assert.Contains(t, out.String(), "INFO: hello")
	assert.Panics(t, func() { app.UseModules(LoggingModule{}) }, "one logger per app")
}
