package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/bingoserver/game"
	"github.com/wfunc/bingoserver/logger"
	"github.com/wfunc/bingoserver/models"
	"github.com/wfunc/bingoserver/room"
	"github.com/wfunc/bingoserver/services"
	"github.com/wfunc/bingoserver/session"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server. Services are registered by the caller
// before Start.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// AdminService exposes operational stats over net/rpc.
type AdminService struct {
	roomManager    *room.Manager
	sessionManager *session.Manager
	records        *services.RecordService
}

func NewAdminService(rm *room.Manager, sm *session.Manager, records *services.RecordService) *AdminService {
	return &AdminService{
		roomManager:    rm,
		sessionManager: sm,
		records:        records,
	}
}

type ServerStatsArgs struct{}

type ServerStatsReply struct {
	Rooms    int
	Sessions int
}

func (a *AdminService) ServerStats(args *ServerStatsArgs, reply *ServerStatsReply) error {
	reply.Rooms = a.roomManager.RoomCount()
	reply.Sessions = a.sessionManager.Count()
	return nil
}

type RoomStatsArgs struct {
	Code string
}

type RoomStatsReply struct {
	Snapshot models.RoomSnapshot
}

func (a *AdminService) RoomStats(args *RoomStatsArgs, reply *RoomStatsReply) error {
	r, exists := a.roomManager.GetRoom(args.Code)
	if !exists {
		return game.ErrRoomNotFound
	}
	reply.Snapshot = r.Snapshot()
	return nil
}

type RecentGamesArgs struct {
	Limit int
}

type RecentGamesReply struct {
	Records []models.GormGameRecord
}

func (a *AdminService) RecentGames(args *RecentGamesArgs, reply *RecentGamesReply) error {
	records, err := a.records.Recent(args.Limit)
	if err != nil {
		return err
	}
	reply.Records = records
	return nil
}
