package protocol

import "github.com/mcoot/deadnumber/internal/model"

// Client request encoders

func Login(username, password string) string {
	return join(TypeLogin, username, password)
}

func Register(username, password string) string {
	return join(TypeRegister, username, password)
}

func CreateRoom(name string) string {
	return join(TypeCreateRoom, name)
}

func JoinRoom(id model.RoomID) string {
	return join(TypeJoinRoom, string(id))
}

func LeaveRoom() string   { return TypeLeaveRoom }
func GetRooms() string    { return TypeGetRooms }
func Ready() string       { return TypeReady }
func CancelReady() string { return TypeCancelReady }
func Restart() string     { return TypeRestart }
