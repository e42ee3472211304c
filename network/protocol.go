package network

// Client -> server actions.
const (
	MsgTypeHeartbeat  = 1
	MsgTypeCreateRoom = 101
	MsgTypeJoinRoom   = 102
	MsgTypeLeaveRoom  = 103
	MsgTypeStartGame  = 201
	MsgTypeCallNumber = 202
	MsgTypeMarkCell   = 203
	MsgTypeClaimBingo = 204
)

// Server -> room broadcasts.
const (
	MsgTypePlayerList   = 301
	MsgTypeGameStarted  = 302
	MsgTypeNumberCalled = 303
	MsgTypeCellMarked   = 304
	MsgTypeBingoClaimed = 305
	MsgTypePlayerLeft   = 306
)

// MsgTypeError carries a structured failure back to the originating session.
const MsgTypeError = 400
