// Package video coordinates two-party interview rooms for the external video
// SDK. It admits participants, mints the room tokens the SDK needs to join,
// tracks microphone and camera state, and reports every transition as a
// RoomEvent. Media never flows through this package.
package video

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	e "github.com/gartstein/jobboard/internal/jobboard/errors"
	"github.com/gartstein/jobboard/internal/jobboard/events"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// EventKind is the kind of a room transition.
type EventKind string

const (
	EventJoin   EventKind = "join"
	EventLeave  EventKind = "leave"
	EventMic    EventKind = "mic"
	EventCamera EventKind = "camera"
)

// RoomEvent reports one participant transition.
type RoomEvent struct {
	Kind          EventKind `json:"kind"`
	RoomID        string    `json:"room_id"`
	ParticipantID string    `json:"participant_id"`
	DisplayName   string    `json:"display_name"`
	// Enabled is the new state for mic and camera events.
	Enabled bool      `json:"enabled,omitempty"`
	At      time.Time `json:"at"`
}

// Participant is one member of a room.
type Participant struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Mic         bool      `json:"mic"`
	Camera      bool      `json:"camera"`
	JoinedAt    time.Time `json:"joined_at"`
}

// Session is what a participant needs to mount the SDK.
type Session struct {
	RoomID       string        `json:"room_id"`
	Token        string        `json:"token"`
	ExpiresAt    time.Time     `json:"expires_at"`
	ShareURL     string        `json:"share_url,omitempty"`
	Participants []Participant `json:"participants"`
}

// Publisher receives room events for fan-out.
type Publisher interface {
	Produce(eventType events.EventType, key string, payload interface{})
}

type Config struct {
	AppID           string
	ServerSecret    string
	TokenTTL        time.Duration
	MaxParticipants int
	// PublicBaseURL is used to build the share link of a room.
	PublicBaseURL string
}

type room struct {
	participants map[string]*Participant
}

// Launcher owns the in-memory room table. Rooms exist only while someone
// is in them; nothing about a call is persisted.
type Launcher struct {
	cfg       Config
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time

	mu    sync.Mutex
	rooms map[string]*room

	events chan RoomEvent
	done   chan struct{}
	once   sync.Once
}

const (
	eventQueueSize = 256
	// RoomSize is the seat limit of an interview room.
	RoomSize = 2
)

// NewLauncher starts the event dispatcher. Call Close to stop it.
// MaxParticipants outside 1..RoomSize is set to RoomSize.
func NewLauncher(cfg Config, publisher Publisher, logger *zap.Logger) *Launcher {
	if cfg.MaxParticipants <= 0 || cfg.MaxParticipants > RoomSize {
		cfg.MaxParticipants = RoomSize
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 2 * time.Hour
	}
	l := &Launcher{
		cfg:       cfg,
		publisher: publisher,
		logger:    logger.Named("video_launcher"),
		now:       time.Now,
		rooms:     make(map[string]*room),
		events:    make(chan RoomEvent, eventQueueSize),
		done:      make(chan struct{}),
	}
	go l.dispatch()
	return l
}

func (l *Launcher) dispatch() {
	defer close(l.done)
	for ev := range l.events {
		l.logger.Info("Room event",
			zap.String("kind", string(ev.Kind)),
			zap.String("room_id", ev.RoomID),
			zap.String("participant_id", ev.ParticipantID),
			zap.Bool("enabled", ev.Enabled),
		)
		if l.publisher != nil {
			l.publisher.Produce(events.VideoRoomEvent, ev.RoomID, ev)
		}
	}
}

// emit queues ev without blocking. Callers hold l.mu, so events of one
// room are queued in transition order.
func (l *Launcher) emit(ev RoomEvent) {
	if l.events == nil {
		return
	}
	select {
	case l.events <- ev:
	default:
		l.logger.Warn("Room event queue full, dropping event",
			zap.String("kind", string(ev.Kind)),
			zap.String("room_id", ev.RoomID),
		)
	}
}

// Close stops accepting transitions and waits for queued events to be
// dispatched.
func (l *Launcher) Close() {
	l.once.Do(func() {
		l.mu.Lock()
		close(l.events)
		l.events = nil
		l.mu.Unlock()
		<-l.done
	})
}

func validID(s string) bool {
	return strings.TrimSpace(s) != ""
}

// Join admits participantID to roomID, creating the room on first join.
// Joining again while already in the room only renews the token.
func (l *Launcher) Join(roomID, participantID, displayName string) (*Session, error) {
	if !validID(roomID) || !validID(participantID) {
		return nil, fmt.Errorf("%w: room and participant are required", e.ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.events == nil {
		return nil, fmt.Errorf("launcher closed")
	}

	r, ok := l.rooms[roomID]
	if !ok {
		r = &room{participants: make(map[string]*Participant)}
	}
	p, rejoin := r.participants[participantID]
	if !rejoin {
		if len(r.participants) >= l.cfg.MaxParticipants {
			return nil, e.ErrRoomFull
		}
		p = &Participant{
			ID:          participantID,
			DisplayName: displayName,
			Mic:         true,
			Camera:      true,
			JoinedAt:    l.now(),
		}
	}

	token, expiresAt, err := l.token(roomID, p)
	if err != nil {
		return nil, fmt.Errorf("failed to sign room token: %w", err)
	}

	if !rejoin {
		r.participants[participantID] = p
		l.rooms[roomID] = r
		l.emit(RoomEvent{Kind: EventJoin, RoomID: roomID, ParticipantID: p.ID, DisplayName: p.DisplayName, At: p.JoinedAt})
	}

	return &Session{
		RoomID:       roomID,
		Token:        token,
		ExpiresAt:    expiresAt,
		ShareURL:     l.shareURL(roomID),
		Participants: r.snapshot(),
	}, nil
}

// Leave removes participantID from roomID and closes the room when it
// becomes empty.
func (l *Launcher) Leave(roomID, participantID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.rooms[roomID]
	if !ok {
		return e.ErrNotFound
	}
	p, ok := r.participants[participantID]
	if !ok {
		return e.ErrNotFound
	}
	delete(r.participants, participantID)
	l.emit(RoomEvent{Kind: EventLeave, RoomID: roomID, ParticipantID: p.ID, DisplayName: p.DisplayName, At: l.now()})

	if len(r.participants) == 0 {
		delete(l.rooms, roomID)
		l.logger.Info("Room closed", zap.String("room_id", roomID))
	}
	return nil
}

// SetMedia records the participant's microphone and camera state and emits
// an event for each one that changed.
func (l *Launcher) SetMedia(roomID, participantID string, mic, camera bool) (*Participant, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.rooms[roomID]
	if !ok {
		return nil, e.ErrNotFound
	}
	p, ok := r.participants[participantID]
	if !ok {
		return nil, e.ErrNotFound
	}

	now := l.now()
	if p.Mic != mic {
		p.Mic = mic
		l.emit(RoomEvent{Kind: EventMic, RoomID: roomID, ParticipantID: p.ID, DisplayName: p.DisplayName, Enabled: mic, At: now})
	}
	if p.Camera != camera {
		p.Camera = camera
		l.emit(RoomEvent{Kind: EventCamera, RoomID: roomID, ParticipantID: p.ID, DisplayName: p.DisplayName, Enabled: camera, At: now})
	}

	cp := *p
	return &cp, nil
}

// Participants returns the current members of roomID, or ErrNotFound when
// the room is not open.
func (l *Launcher) Participants(roomID string) ([]Participant, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.rooms[roomID]
	if !ok {
		return nil, e.ErrNotFound
	}
	return r.snapshot(), nil
}

func (r *room) snapshot() []Participant {
	out := make([]Participant, 0, len(r.participants))
	for _, p := range r.participants {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })
	return out
}

func (l *Launcher) token(roomID string, p *Participant) (string, time.Time, error) {
	now := l.now()
	expiresAt := now.Add(l.cfg.TokenTTL)
	claims := jwt.MapClaims{
		"app_id":    l.cfg.AppID,
		"room_id":   roomID,
		"user_id":   p.ID,
		"user_name": p.DisplayName,
		"max_users": l.cfg.MaxParticipants,
		"iat":       now.Unix(),
		"exp":       expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(l.cfg.ServerSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (l *Launcher) shareURL(roomID string) string {
	if l.cfg.PublicBaseURL == "" {
		return ""
	}
	return strings.TrimRight(l.cfg.PublicBaseURL, "/") + "/video-call-room?roomID=" + url.QueryEscape(roomID)
}
