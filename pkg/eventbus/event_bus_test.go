package eventbus

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type sessionCommitted struct {
	sessionID string
}

type recordCreated struct {
	recordID string
}

func TestPublisher_NoMatchingSubscribers(t *testing.T) {
	logBuffer := bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(&logBuffer)
	log.SetLevel(logrus.WarnLevel)

	publisher := NewEventPublisher(log)
	publisher.Subscribe(func(e *sessionCommitted) {
		t.Error("should not be called")
	})
	publisher.Publish(&recordCreated{recordID: "r1"})

	require.True(t, strings.Contains(logBuffer.String(), "no matching subscribers"))
}

func TestPublisher_Subscribe(t *testing.T) {
	publisher := NewEventPublisher(nil)
	var got string
	publisher.Subscribe(func(e *sessionCommitted) {
		got = e.sessionID
	})
	publisher.Publish(&sessionCommitted{sessionID: "s1"})
	require.Equal(t, "s1", got)
}

func TestPublisher_Unsubscribe(t *testing.T) {
	publisher := NewEventPublisher(nil)
	handler := func(e *sessionCommitted) {
		t.Error("should not be called after unsubscribe")
	}
	publisher.Subscribe(handler)
	require.Equal(t, 1, publisher.SubscribersCount())
	publisher.Unsubscribe(handler)
	require.Equal(t, 0, publisher.SubscribersCount())
	publisher.Publish(&sessionCommitted{sessionID: "s1"})
}

func TestPublisher_HandlerPanicIsRecovered(t *testing.T) {
	logBuffer := bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(&logBuffer)

	publisher := NewEventPublisher(log)
	publisher.Subscribe(func(e *sessionCommitted) {
		panic("boom")
	})
	publisher.Publish(&sessionCommitted{sessionID: "s1"})

	require.True(t, strings.Contains(logBuffer.String(), "panicked"))
}
