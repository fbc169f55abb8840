package wsenv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tilelab/internal/env"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = time.Second
	// Maximum message size allowed from peer.
	maxMessageSize = 8192

	pingResolution = 2 * time.Second
	// Number of lost pings tolerated before the peer is considered gone.
	pongWait = pingResolution * 4
)

var (
	// ErrPongDeadlineExceeded is returned when the peer stops answering pings.
	ErrPongDeadlineExceeded = errors.New("wsenv: client disconnect, pong deadline exceeded")

	errClientClosed = errors.New("wsenv: client closed")
)

// session drives one environment for one websocket client.
type session struct {
	env      *env.Env
	ws       *websock
	requests chan Request
	pong     chan struct{}
	logger   *log.Logger
}

func newSession(e *env.Env, conn *websocket.Conn, logger *log.Logger) *session {
	s := &session{
		env:      e,
		ws:       newWebSock(conn),
		requests: make(chan Request),
		pong:     make(chan struct{}, 1),
		logger:   logger,
	}
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		select {
		case s.pong <- struct{}{}:
		default:
		}
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	return s
}

// run serves requests until the client disconnects. It returns nil on a
// normal close.
func (s *session) run(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return s.readMessages(groupCtx)
	})
	group.Go(func() error {
		return s.pingPong(groupCtx)
	})
	group.Go(func() error {
		return s.serve(groupCtx)
	})
	group.Go(func() error {
		// Unblocks the reader once any loop has stopped.
		<-groupCtx.Done()
		return s.ws.Conn().Close()
	})

	err := group.Wait()
	if errors.Is(err, errClientClosed) {
		return nil
	}
	return err
}

// readMessages decodes client requests. Errors returned by websocket reads
// are permanent, so every exit path returns an error to stop the group.
func (s *session) readMessages(ctx context.Context) error {
	defer close(s.requests)
	for {
		var req Request
		if err := s.ws.Conn().ReadJSON(&req); err != nil {
			if isUnexpected(err) {
				return fmt.Errorf("wsenv: read failed: %w", err)
			}
			return errClientClosed
		}
		select {
		case s.requests <- req:
		case <-ctx.Done():
			return errClientClosed
		}
	}
}

// pingPong checks client liveness.
func (s *session) pingPong(ctx context.Context) error {
	pinger := channerics.NewTicker(ctx.Done(), pingResolution)
	lastPong := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pinger:
			if time.Since(lastPong) > pongWait {
				return ErrPongDeadlineExceeded
			}
			err := s.ws.Write(ctx, func(ws *websocket.Conn) error {
				return ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			})
			if err != nil {
				return fmt.Errorf("wsenv: ping failed: %w", err)
			}
		case <-s.pong:
			lastPong = time.Now()
		}
	}
}

// serve answers requests in order.
func (s *session) serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case req, ok := <-s.requests:
			if !ok {
				return errClientClosed
			}
			resp := s.handle(req)
			err := s.ws.Write(ctx, func(ws *websocket.Conn) error {
				if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					return fmt.Errorf("wsenv: failed to set deadline: %w", err)
				}
				return ws.WriteJSON(resp)
			})
			if err != nil {
				return fmt.Errorf("wsenv: publish failed: %w", err)
			}
		}
	}
}

// handle applies one request to the environment.
func (s *session) handle(req Request) Response {
	resp := Response{Op: req.Op}
	fail := func(err error) Response {
		resp.Error = err.Error()
		return resp
	}

	switch req.Op {
	case OpSpecs:
		resp.Specs = s.env.ObservationSpecs()
		resp.Actions = s.env.ActionSpecs()

	case OpStart:
		if err := s.env.Start(req.Episode, req.Seed); err != nil {
			return fail(err)
		}
		s.logger.Debug("episode started", "episode", req.Episode, "seed", req.Seed)
		resp.Status = env.StatusRunning.String()
		resp.Events = toEvents(s.env.Events())

	case OpStep:
		if err := s.env.ActDiscrete([]int{req.Move}); err != nil {
			return fail(err)
		}
		status, reward := s.env.Advance(req.Steps)
		if status == env.StatusError {
			return fail(s.env.Err())
		}
		resp.Status = status.String()
		resp.Reward = reward
		resp.Events = toEvents(s.env.Events())

	case OpObserve:
		names := req.Observations
		if len(names) == 0 {
			for _, spec := range s.env.ObservationSpecs() {
				names = append(names, spec.Name)
			}
		}
		for _, name := range names {
			obs, err := s.env.Observation(name)
			if err != nil {
				return fail(err)
			}
			resp.Observations = append(resp.Observations, toObservation(obs))
		}

	case OpRead:
		value, result := s.env.ReadProperty(req.Key)
		resp.Value = value
		resp.Result = result.String()

	case OpWrite:
		resp.Result = s.env.WriteProperty(req.Key, req.Value).String()

	case OpList:
		result := s.env.ListProperty(req.Key, func(key string, attrs env.PropertyAttributes) {
			resp.Properties = append(resp.Properties, Property{
				Key:      key,
				Readable: attrs&env.PropertyReadable != 0,
				Writable: attrs&env.PropertyWritable != 0,
				Listable: attrs&env.PropertyListable != 0,
			})
		})
		resp.Result = result.String()

	default:
		return fail(fmt.Errorf("wsenv: unknown op %q", req.Op))
	}
	return resp
}
