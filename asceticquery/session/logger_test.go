package session_test

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krew-solutions/ascetic-query-go/asceticquery/session"
	"github.com/krew-solutions/ascetic-query-go/asceticquery/utils/testutils"
)

func newBufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestQueryLogger_Levels(t *testing.T) {
	cases := []struct {
		name     string
		event    session.QueryEndedEvent
		expected []string
	}{
		{
			"finished",
			session.QueryEndedEvent{Query: "SELECT 1", ResponseTime: time.Millisecond},
			[]string{"level=DEBUG", `msg="query finished"`, `query="SELECT 1"`},
		},
		{
			"slow",
			session.QueryEndedEvent{Query: "SELECT 2", ResponseTime: time.Second},
			[]string{"level=WARN", `msg="slow query detected"`, "duration=1s"},
		},
		{
			"failed",
			session.QueryEndedEvent{Query: "SELECT 3", ResponseTime: time.Second, Err: errors.New("boom")},
			[]string{"level=ERROR", `msg="query failed"`, "error=boom"},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var buf bytes.Buffer
			stub := testutils.NewDbSessionStub(nil)
			detach := session.NewQueryLogger(newBufferLogger(&buf), session.WithSlowThreshold(500*time.Millisecond)).Observe(stub)
			defer detach()

			require.NoError(t, stub.OnQueryEnded().Notify(c.event))
			for _, fragment := range c.expected {
				assert.Contains(t, buf.String(), fragment)
			}
		})
	}
}

func TestQueryLogger_Detach(t *testing.T) {
	var buf bytes.Buffer
	stub := testutils.NewDbSessionStub(nil)
	detach := session.NewQueryLogger(newBufferLogger(&buf)).Observe(stub)

	require.NoError(t, stub.OnQueryStarted().Notify(session.QueryStartedEvent{Query: "SELECT 1"}))
	assert.Contains(t, buf.String(), `msg="query started"`)

	detach()
	buf.Reset()
	require.NoError(t, stub.OnQueryStarted().Notify(session.QueryStartedEvent{Query: "SELECT 1"}))
	require.NoError(t, stub.OnQueryEnded().Notify(session.QueryEndedEvent{Query: "SELECT 1"}))
	assert.Empty(t, buf.String())
}
