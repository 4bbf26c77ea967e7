package log_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/typewrap/typewrap/log"
)

func TestFilterDropsBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	prev := log.SetHandler(log.WriterHandler(&buf))
	defer log.SetHandler(prev)

	ctx := log.WithFilter(context.Background(), log.Warning)
	log.From(ctx).Infof().Log("should be dropped")
	log.From(ctx).Warningf().With("phase", "collect").Log("should appear")

	out := buf.String()
	assert.False(t, strings.Contains(out, "should be dropped"))
	assert.True(t, strings.Contains(out, "should appear"))
	assert.True(t, strings.Contains(out, "phase=collect"))
}

func TestWithIsImmutable(t *testing.T) {
	base := log.From(context.Background())
	a := base.With("a", 1)
	b := base.With("b", 2)

	var buf bytes.Buffer
	prev := log.SetHandler(log.WriterHandler(&buf))
	defer log.SetHandler(prev)

	a.Infof().Log("a")
	b.Infof().Log("b")

	out := buf.String()
	assert.True(t, strings.Contains(out, "info: a a=1"))
	assert.True(t, strings.Contains(out, "info: b b=2"))
}
