package video

import (
	"sync"
	"testing"
	"time"

	e "github.com/gartstein/jobboard/internal/jobboard/errors"
	"github.com/gartstein/jobboard/internal/jobboard/events"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []RoomEvent
}

func (p *recordingPublisher) Produce(eventType events.EventType, key string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ev := payload.(RoomEvent)
	if eventType != events.VideoRoomEvent || key != ev.RoomID {
		panic("unexpected event envelope")
	}
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) kinds() []EventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]EventKind, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Kind)
	}
	return out
}

const secret = "video-secret"

func newTestLauncher(t *testing.T, pub Publisher) *Launcher {
	l := NewLauncher(Config{
		AppID:           "42",
		ServerSecret:    secret,
		TokenTTL:        time.Hour,
		MaxParticipants: 2,
		PublicBaseURL:   "http://localhost:8080/",
	}, pub, zaptest.NewLogger(t))
	return l
}

func TestJoinIssuesRoomToken(t *testing.T) {
	l := newTestLauncher(t, nil)
	defer l.Close()

	session, err := l.Join("room-1", "alice", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "room-1", session.RoomID)
	assert.Equal(t, "http://localhost:8080/video-call-room?roomID=room-1", session.ShareURL)
	require.Len(t, session.Participants, 1)
	assert.True(t, session.Participants[0].Mic)
	assert.True(t, session.Participants[0].Camera)

	token, err := jwt.Parse(session.Token, func(*jwt.Token) (interface{}, error) { return []byte(secret), nil })
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "42", claims["app_id"])
	assert.Equal(t, "room-1", claims["room_id"])
	assert.Equal(t, "alice", claims["user_id"])
	assert.Equal(t, "Alice", claims["user_name"])
	assert.EqualValues(t, 2, claims["max_users"])
}

func TestRoomHoldsTwoParticipants(t *testing.T) {
	l := newTestLauncher(t, nil)
	defer l.Close()

	_, err := l.Join("room-1", "alice", "Alice")
	require.NoError(t, err)
	session, err := l.Join("room-1", "bob", "Bob")
	require.NoError(t, err)
	assert.Len(t, session.Participants, 2)

	_, err = l.Join("room-1", "carol", "Carol")
	assert.ErrorIs(t, err, e.ErrRoomFull)

	// rejoining does not take a second seat
	session, err = l.Join("room-1", "alice", "Alice")
	require.NoError(t, err)
	assert.Len(t, session.Participants, 2)

	// other rooms are independent
	_, err = l.Join("room-2", "carol", "Carol")
	assert.NoError(t, err)
}

func TestLeaveTearsDownEmptyRoom(t *testing.T) {
	l := newTestLauncher(t, nil)
	defer l.Close()

	_, err := l.Join("room-1", "alice", "Alice")
	require.NoError(t, err)
	_, err = l.Join("room-1", "bob", "Bob")
	require.NoError(t, err)

	require.NoError(t, l.Leave("room-1", "alice"))
	participants, err := l.Participants("room-1")
	require.NoError(t, err)
	require.Len(t, participants, 1)
	assert.Equal(t, "bob", participants[0].ID)

	require.NoError(t, l.Leave("room-1", "bob"))
	_, err = l.Participants("room-1")
	assert.ErrorIs(t, err, e.ErrNotFound)

	assert.ErrorIs(t, l.Leave("room-1", "bob"), e.ErrNotFound)
}

func TestEventsInOrder(t *testing.T) {
	pub := &recordingPublisher{}
	l := newTestLauncher(t, pub)

	_, err := l.Join("room-1", "alice", "Alice")
	require.NoError(t, err)
	p, err := l.SetMedia("room-1", "alice", false, true)
	require.NoError(t, err)
	assert.False(t, p.Mic)
	assert.True(t, p.Camera)

	// unchanged state emits nothing
	_, err = l.SetMedia("room-1", "alice", false, true)
	require.NoError(t, err)
	_, err = l.SetMedia("room-1", "alice", true, false)
	require.NoError(t, err)
	require.NoError(t, l.Leave("room-1", "alice"))

	l.Close()

	assert.Equal(t, []EventKind{EventJoin, EventMic, EventMic, EventCamera, EventLeave}, pub.kinds())
}

func TestInvalidInput(t *testing.T) {
	l := newTestLauncher(t, nil)
	defer l.Close()

	_, err := l.Join("", "alice", "Alice")
	assert.ErrorIs(t, err, e.ErrInvalidInput)
	_, err = l.Join("room-1", " ", "Alice")
	assert.ErrorIs(t, err, e.ErrInvalidInput)
	_, err = l.SetMedia("nope", "alice", true, true)
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestJoinAfterClose(t *testing.T) {
	l := newTestLauncher(t, nil)
	l.Close()
	l.Close()

	_, err := l.Join("room-1", "alice", "Alice")
	assert.Error(t, err)
}

func TestRoomSizeIsCapped(t *testing.T) {
	l := NewLauncher(Config{ServerSecret: secret, MaxParticipants: 5}, nil, zaptest.NewLogger(t))
	defer l.Close()

	_, err := l.Join("room-1", "alice", "Alice")
	require.NoError(t, err)
	_, err = l.Join("room-1", "bob", "Bob")
	require.NoError(t, err)
	_, err = l.Join("room-1", "carol", "Carol")
	assert.ErrorIs(t, err, e.ErrRoomFull)
}
