package hud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/udisondev/horde/internal/model"
	"github.com/udisondev/horde/internal/sim"
)

// Message types.
const (
	TypeSnapshot = "snapshot"
	TypeAck      = "ack"
	TypeError    = "error"

	TypeFire  = "fire"
	TypeSpawn = "spawn"
	TypeMove  = "move"
)

// ClientMessage is a debug command sent by a HUD client.
//
//	{"type":"fire","x":0,"y":1.5,"z":0,"silenced":false,"target":"3:1","damage":40,"hit":{"x":..}}
//	{"type":"spawn","x":10,"y":0,"z":4,"class":"runner"}
//	{"type":"move","x":5,"y":0,"z":5}
type ClientMessage struct {
	Type     string      `json:"type"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Z        float64     `json:"z"`
	Silenced bool        `json:"silenced,omitempty"`
	Target   string      `json:"target,omitempty"`
	Damage   float64     `json:"damage,omitempty"`
	Hit      *model.Vec3 `json:"hit,omitempty"`
	Class    string      `json:"class,omitempty"`
}

// ServerMessage is pushed to HUD clients.
type ServerMessage struct {
	Type     string        `json:"type"`
	Snapshot *sim.Snapshot `json:"snapshot,omitempty"`
	Command  string        `json:"command,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// ParseCommand converts a client message into a simulation command.
func ParseCommand(msg ClientMessage) (sim.Command, error) {
	pos := model.V(msg.X, msg.Y, msg.Z)

	switch msg.Type {
	case TypeFire:
		shot := sim.Shot{Origin: pos, Silenced: msg.Silenced}
		if msg.Target != "" {
			h, err := model.ParseHandle(msg.Target)
			if err != nil {
				return sim.Command{}, err
			}
			if msg.Hit == nil {
				return sim.Command{}, errors.New("fire with a target needs a hit point")
			}
			shot.Target = h
			shot.HitPoint = *msg.Hit
			shot.Damage = msg.Damage
		}
		return sim.Command{Type: sim.CommandFire, Shot: shot}, nil

	case TypeSpawn:
		class := model.Walker
		if msg.Class != "" {
			c, err := model.ParseClassification(msg.Class)
			if err != nil {
				return sim.Command{}, err
			}
			class = c
		}
		return sim.Command{Type: sim.CommandSpawn, Position: pos, Class: class}, nil

	case TypeMove:
		return sim.Command{Type: sim.CommandMovePlayer, Position: pos}, nil
	}
	return sim.Command{}, fmt.Errorf("unknown message type %q", msg.Type)
}

// session is one websocket client. gorilla connections allow one concurrent
// writer, so every write goes through writeJSON.
type session struct {
	conn *websocket.Conn
	src  Source

	writeMu sync.Mutex
	once    sync.Once
}

func newSession(conn *websocket.Conn, src Source) *session {
	return &session{conn: conn, src: src}
}

// run pushes snapshots every interval and handles incoming commands until
// the client goes away or ctx is done.
func (s *session) run(ctx context.Context, interval time.Duration) {
	defer s.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		defer cancel()
		s.readLoop()
	}()

	var (
		sent     bool
		lastTick uint64
	)
	push := func() bool {
		snap := s.src.Latest()
		if snap == nil || (sent && snap.Tick == lastTick) {
			return true
		}
		sent, lastTick = true, snap.Tick
		return s.writeJSON(ServerMessage{Type: TypeSnapshot, Snapshot: snap})
	}

	if !push() {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !push() {
				return
			}
		}
	}
}

func (s *session) readLoop() {
	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("hud read failed", "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			slog.Debug("discarding malformed hud message", "error", err)
			if !s.writeJSON(ServerMessage{Type: TypeError, Error: "malformed message"}) {
				return
			}
			continue
		}

		if !s.handle(msg) {
			return
		}
	}
}

func (s *session) handle(msg ClientMessage) bool {
	cmd, err := ParseCommand(msg)
	if err != nil {
		return s.writeJSON(ServerMessage{Type: TypeError, Command: msg.Type, Error: err.Error()})
	}
	if err := s.src.Enqueue(cmd); err != nil {
		return s.writeJSON(ServerMessage{Type: TypeError, Command: msg.Type, Error: err.Error()})
	}
	slog.Debug("hud command queued", "type", msg.Type)
	return s.writeJSON(ServerMessage{Type: TypeAck, Command: msg.Type})
}

func (s *session) writeJSON(msg ServerMessage) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshaling hud message", "type", msg.Type, "error", err)
		return true
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Debug("hud write failed", "error", err)
		return false
	}
	return true
}

func (s *session) close() {
	s.once.Do(func() {
		s.writeMu.Lock()
		_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
		s.writeMu.Unlock()
		_ = s.conn.Close()
	})
}
