package server

import (
	"encoding/json"
	"net/http"
	stdrpc "net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wfunc/bingoserver/broadcast"
	"github.com/wfunc/bingoserver/config"
	"github.com/wfunc/bingoserver/game"
	"github.com/wfunc/bingoserver/logger"
	"github.com/wfunc/bingoserver/models"
	"github.com/wfunc/bingoserver/monitor"
	"github.com/wfunc/bingoserver/network"
	"github.com/wfunc/bingoserver/persistence"
	"github.com/wfunc/bingoserver/room"
	bingorpc "github.com/wfunc/bingoserver/rpc"
	"github.com/wfunc/bingoserver/services"
	"github.com/wfunc/bingoserver/session"
	"github.com/wfunc/bingoserver/timer"
)

// GameServer is the session gateway: it owns the room registry and session
// manager, decodes inbound packets, applies them to rooms, and publishes
// acks and broadcasts. All game rules live in room and game.
type GameServer struct {
	addr           string
	metricsAddr    string
	upgrader       websocket.Upgrader
	roomManager    *room.Manager
	sessionManager *session.Manager
	broadcaster    broadcast.Broadcaster
	records        *services.RecordService
	rpcServer      *bingorpc.Server
	monitor        *monitor.Monitor
	timers         *timer.TimerManager
	sessionTimeout time.Duration
	shutdownChan   chan struct{}
}

func NewGameServer(cfg *config.Config, db persistence.Database) *GameServer {
	s := &GameServer{
		addr:           cfg.Server.HTTPAddress,
		metricsAddr:    cfg.Server.MetricsAddress,
		roomManager:    room.NewManager(),
		sessionManager: session.NewManager(),
		records:        services.NewRecordService(db),
		monitor:        monitor.NewMonitor("bingoserver"),
		timers:         timer.NewTimerManager(),
		sessionTimeout: time.Duration(cfg.Server.SessionTimeoutSeconds) * time.Second,
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	s.broadcaster = broadcast.NewRoomBroadcaster(s.roomManager, s.sessionManager)

	rpcServer, err := bingorpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer

	adminService := bingorpc.NewAdminService(s.roomManager, s.sessionManager, s.records)
	stdrpc.Register(adminService)

	if s.sessionTimeout > 0 {
		s.timers.AddTimer(s.sessionTimeout, s.sessionTimeout, s.sweepIdleSessions)
	}

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()
	s.monitor.StartServer(s.metricsAddr)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	logger.Log.Infof("Bingo server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, mux)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.timers.Stop()
	s.rpcServer.Stop()
}

// sweepIdleSessions closes sessions silent past the timeout. The closed
// connection fails its read loop, which runs the normal disconnect path.
func (s *GameServer) sweepIdleSessions() {
	for _, sess := range s.sessionManager.Idle(s.sessionTimeout) {
		logger.Log.Infof("Closing idle session %s", sess.GetID())
		sess.Close()
	}
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	s.monitor.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.disconnect(sess)
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			packet, err := wsConn.ReadPacket()
			if err != nil {
				return
			}
			s.handlePacket(sess, packet)
		}
	}
}

// disconnect removes the session and takes the actor out of every room it
// occupies, broadcasting the departure to the remaining members.
func (s *GameServer) disconnect(sess *session.Session) {
	s.sessionManager.Remove(sess.GetID())
	s.monitor.DecOnlinePlayers()

	codes := s.roomManager.RemoveActor(sess.GetID())
	for _, code := range codes {
		s.notifyPlayerLeft(code, sess.GetID())
	}
	s.monitor.SetActiveRooms(s.roomManager.RoomCount())
}

// notifyPlayerLeft tells a room's survivors (if any) about a departure.
func (s *GameServer) notifyPlayerLeft(code, actorID string) {
	r, exists := s.roomManager.GetRoom(code)
	if !exists {
		return
	}
	s.broadcastJSON(r, network.MsgTypePlayerLeft, models.PlayerLeft{ActorID: actorID})
	s.broadcastJSON(r, network.MsgTypePlayerList, r.Snapshot())
}

func (s *GameServer) handlePacket(sess *session.Session, packet *network.Packet) {
	started := time.Now()
	s.monitor.IncMessagesReceived()
	sess.Touch()

	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
		// Touch above is the whole point of a heartbeat.
	case network.MsgTypeCreateRoom:
		s.handleCreateRoom(sess, packet)
	case network.MsgTypeJoinRoom:
		s.handleJoinRoom(sess, packet)
	case network.MsgTypeLeaveRoom:
		s.handleLeaveRoom(sess, packet)
	case network.MsgTypeStartGame:
		s.handleStartGame(sess, packet)
	case network.MsgTypeCallNumber:
		s.handleCallNumber(sess, packet)
	case network.MsgTypeMarkCell:
		s.handleMarkCell(sess, packet)
	case network.MsgTypeClaimBingo:
		s.handleClaimBingo(sess, packet)
	default:
		logger.Log.Infof("Unknown message type: %d", packet.MsgID)
	}

	s.monitor.ObserveMessageLatency(time.Since(started))
}

// fail answers the originator with a structured failure. Errors stop here;
// nothing propagates past the action boundary.
func (s *GameServer) fail(sess *session.Session, action string, err error) {
	result := models.ErrorResult{
		Action:  action,
		Code:    game.ErrorCode(err),
		Message: err.Error(),
	}
	data, _ := json.Marshal(result)
	sess.Send(network.MsgTypeError, data)
}

// decodeRequest parses an action payload. An empty payload is legal (several
// actions take no arguments); malformed JSON is answered as a failure and
// the action is not performed.
func (s *GameServer) decodeRequest(sess *session.Session, action string, data []byte, v interface{}) bool {
	if len(data) == 0 {
		return true
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.fail(sess, action, err)
		return false
	}
	return true
}

func (s *GameServer) ack(sess *session.Session, msgID uint16, payload interface{}) {
	data, _ := json.Marshal(payload)
	sess.Send(msgID, data)
}

func (s *GameServer) broadcastJSON(r *room.Room, msgID uint16, payload interface{}) {
	data, _ := json.Marshal(payload)
	r.Broadcast(msgID, data)
}

// resolveRoom picks the explicit room code if the payload carried one,
// falling back to the session's current room.
func (s *GameServer) resolveRoom(sess *session.Session, code string) (*room.Room, error) {
	if code == "" {
		code = sess.RoomCode
	}
	r, exists := s.roomManager.GetRoom(code)
	if !exists {
		return nil, game.ErrRoomNotFound
	}
	return r, nil
}

type createRoomRequest struct {
	Name string `json:"name"`
}

func (s *GameServer) handleCreateRoom(sess *session.Session, packet *network.Packet) {
	var req createRoomRequest
	if !s.decodeRequest(sess, "create-room", packet.Data, &req) {
		return
	}
	sess.SetName(req.Name)

	r, err := s.roomManager.CreateRoom(sess.GetID(), req.Name, s.broadcaster)
	if err != nil {
		s.fail(sess, "create-room", err)
		return
	}
	sess.RoomCode = r.Code
	s.monitor.SetActiveRooms(s.roomManager.RoomCount())

	logger.Log.Infof("Session %s created room %s", sess.GetID(), r.Code)

	host, _ := r.GetPlayer(sess.GetID())
	s.ack(sess, network.MsgTypeCreateRoom, models.CreateRoomAck{
		Room:  r.Snapshot(),
		Board: host.Board,
	})
}

type joinRoomRequest struct {
	RoomCode string `json:"room_code"`
	Name     string `json:"name"`
}

func (s *GameServer) handleJoinRoom(sess *session.Session, packet *network.Packet) {
	var req joinRoomRequest
	if !s.decodeRequest(sess, "join-room", packet.Data, &req) {
		return
	}
	sess.SetName(req.Name)

	r, err := s.roomManager.JoinRoom(req.RoomCode, sess.GetID(), req.Name)
	if err != nil {
		s.fail(sess, "join-room", err)
		return
	}
	sess.RoomCode = r.Code

	logger.Log.Infof("Session %s joined room %s", sess.GetID(), r.Code)

	p, _ := r.GetPlayer(sess.GetID())
	s.ack(sess, network.MsgTypeJoinRoom, models.JoinRoomAck{
		Room:  r.Snapshot(),
		Board: p.Board,
	})
	s.broadcastJSON(r, network.MsgTypePlayerList, r.Snapshot())
}

type roomRequest struct {
	RoomCode string `json:"room_code"`
}

func (s *GameServer) handleLeaveRoom(sess *session.Session, packet *network.Packet) {
	var req roomRequest
	if !s.decodeRequest(sess, "leave-room", packet.Data, &req) {
		return
	}

	code := req.RoomCode
	if code == "" {
		code = sess.RoomCode
	}
	if err := s.roomManager.RemovePlayer(code, sess.GetID()); err != nil {
		s.fail(sess, "leave-room", err)
		return
	}
	if sess.RoomCode == code {
		sess.RoomCode = ""
	}

	s.ack(sess, network.MsgTypeLeaveRoom, map[string]bool{"ok": true})
	s.notifyPlayerLeft(code, sess.GetID())
	s.monitor.SetActiveRooms(s.roomManager.RoomCount())
}

func (s *GameServer) handleStartGame(sess *session.Session, packet *network.Packet) {
	var req roomRequest
	if !s.decodeRequest(sess, "start-game", packet.Data, &req) {
		return
	}

	r, err := s.resolveRoom(sess, req.RoomCode)
	if err != nil {
		s.fail(sess, "start-game", err)
		return
	}
	if err := r.Start(sess.GetID()); err != nil {
		s.fail(sess, "start-game", err)
		return
	}

	s.ack(sess, network.MsgTypeStartGame, map[string]bool{"ok": true})
	s.broadcastJSON(r, network.MsgTypeGameStarted, r.Snapshot())
}

func (s *GameServer) handleCallNumber(sess *session.Session, packet *network.Packet) {
	var req roomRequest
	if !s.decodeRequest(sess, "call-number", packet.Data, &req) {
		return
	}

	r, err := s.resolveRoom(sess, req.RoomCode)
	if err != nil {
		s.fail(sess, "call-number", err)
		return
	}
	n, err := r.CallNumber(sess.GetID())
	if err != nil {
		s.fail(sess, "call-number", err)
		return
	}
	s.monitor.IncNumbersCalled()

	s.ack(sess, network.MsgTypeCallNumber, models.NumberCalled{Number: n})
	s.broadcastJSON(r, network.MsgTypeNumberCalled, models.NumberCalled{Number: n})
}

type markCellRequest struct {
	RoomCode string `json:"room_code"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
}

func (s *GameServer) handleMarkCell(sess *session.Session, packet *network.Packet) {
	var req markCellRequest
	if !s.decodeRequest(sess, "mark-cell", packet.Data, &req) {
		return
	}

	r, err := s.resolveRoom(sess, req.RoomCode)
	if err != nil {
		s.fail(sess, "mark-cell", err)
		return
	}
	marked, err := r.ToggleMark(sess.GetID(), req.Row, req.Col)
	if err != nil {
		s.fail(sess, "mark-cell", err)
		return
	}

	event := models.CellMarked{
		ActorID: sess.GetID(),
		Row:     req.Row,
		Col:     req.Col,
		Marked:  marked,
	}
	s.ack(sess, network.MsgTypeMarkCell, event)
	s.broadcastJSON(r, network.MsgTypeCellMarked, event)
}

func (s *GameServer) handleClaimBingo(sess *session.Session, packet *network.Packet) {
	var req roomRequest
	if !s.decodeRequest(sess, "claim-bingo", packet.Data, &req) {
		return
	}

	r, err := s.resolveRoom(sess, req.RoomCode)
	if err != nil {
		s.fail(sess, "claim-bingo", err)
		return
	}
	if err := r.Claim(sess.GetID()); err != nil {
		s.fail(sess, "claim-bingo", err)
		return
	}
	s.monitor.IncBingosClaimed()

	p, _ := r.GetPlayer(sess.GetID())
	event := models.BingoClaimed{ActorID: sess.GetID(), Name: p.Name}
	s.ack(sess, network.MsgTypeClaimBingo, event)
	s.broadcastJSON(r, network.MsgTypeBingoClaimed, event)

	snapshot := r.Snapshot()
	go s.records.SaveWin(snapshot, p.Name)
}
