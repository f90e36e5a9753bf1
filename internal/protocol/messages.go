package protocol

// Delimiter separates fields within a line
const Delimiter = "|"

// Client to server message types
const (
	TypeLogin       = "LOGIN"
	TypeRegister    = "REGISTER"
	TypeCreateRoom  = "CREATE_ROOM"
	TypeJoinRoom    = "JOIN_ROOM"
	TypeLeaveRoom   = "LEAVE_ROOM"
	TypeGetRooms    = "GET_ROOMS"
	TypeReady       = "READY"
	TypeCancelReady = "CANCEL_READY"
	TypeAction      = "ACTION"
	TypeRestart     = "RESTART"
)

// Server to client message types
const (
	TypeLoginSuccess   = "LOGIN_SUCCESS"
	TypeLoginFail      = "LOGIN_FAIL"
	TypeError          = "ERROR"
	TypeRegisterResult = "REGISTER_RESULT"
	TypeCreateSuccess  = "CREATE_SUCCESS"
	TypeNewRoom        = "NEW_ROOM"
	TypeRoomStatus     = "ROOM_STATUS"
	TypeLeaveSuccess   = "LEAVE_SUCCESS"
	TypeUpdate         = "UPDATE"
	TypeWinner         = "WINNER"
)

// Action types carried in ACTION lines
const (
	ActionCall   = "CALL"
	ActionPass   = "PASS"
	ActionReturn = "RETURN"
)

// Registration outcomes
const (
	RegisterSuccess = "SUCCESS"
	RegisterExists  = "EXISTS"
	RegisterError   = "ERROR"
)

// ERROR reasons
const (
	ReasonAlreadyLoggedIn = "ALREADY_LOGGED_IN"
	ReasonNotLoggedIn     = "NOT_LOGGED_IN"
	ReasonRoomFull        = "ROOM_FULL"
	ReasonRoomNotFound    = "ROOM_NOT_FOUND"
	ReasonGameInProgress  = "GAME_IN_PROGRESS"
	ReasonAlreadyInRoom   = "ALREADY_IN_ROOM"
	ReasonNotInRoom       = "NOT_IN_ROOM"
	ReasonInvalidRequest  = "INVALID_REQUEST"
)

// Ready flags in ROOM_STATUS
const (
	StatusReady = "READY"
	StatusWait  = "WAIT"
)

// NoEliminations is sent in WINNER when nobody was eliminated
const NoEliminations = "none"
