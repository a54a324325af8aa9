package printer

import (
	"bytes"
	"context"
	"testing"

	"github.com/colonyops/tick/pkg/tuitest"
	"github.com/stretchr/testify/assert"
)

func TestPrinter_Lines(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Section("Checks")
	p.Successf("saved %d", 2)
	p.Infof("note")
	p.Warnf("careful")
	p.Errorf("broken: %s", "x")
	p.Printf("  plain")

	assert.Equal(t, "Checks\n✓ saved 2\n• note\n! careful\n✗ broken: x\n  plain", tuitest.StripANSI(buf.String()))
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	ctx := WithPrinter(context.Background(), p)
	assert.Same(t, p, Ctx(ctx))
	assert.NotNil(t, Ctx(context.Background()))
}
