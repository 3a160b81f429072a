package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetupWriter(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	if err := SetupWriter(&buf, "warn", "json"); err != nil {
		t.Fatal(err)
	}
	log.Info().Msg("hidden")
	log.Warn().Str("component", "test").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, `"component":"test"`) || !strings.Contains(out, `"message":"shown"`) {
		t.Errorf("missing json fields: %q", out)
	}
}

func TestSetupWriter_Invalid(t *testing.T) {
	var buf bytes.Buffer
	if err := SetupWriter(&buf, "loud", "json"); err == nil {
		t.Error("bad level accepted")
	}
	if err := SetupWriter(&buf, "info", "xml"); err == nil {
		t.Error("bad format accepted")
	}
}
