package model

import "errors"

// Common errors used across the application
var (
	// Account errors
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("username already exists")
	ErrAlreadyOnline      = errors.New("account is already logged in")
	ErrNotLoggedIn        = errors.New("session is not logged in")

	// Room errors
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room is full")
	ErrAlreadyInRoom   = errors.New("player is already in a room")
	ErrNotInRoom       = errors.New("player is not in a room")
	ErrGameInProgress  = errors.New("game is in progress")
	ErrNoGameActive    = errors.New("no game in progress")
	ErrNotEnoughReady  = errors.New("not every member is ready")
	ErrInvalidRoomName = errors.New("invalid room name")

	// Game errors
	ErrNotPlayerTurn       = errors.New("not this player's turn")
	ErrNotParticipant      = errors.New("player is not in this game")
	ErrInvalidCall         = errors.New("call count must be at least one")
	ErrCallExceedsLimit    = errors.New("call would exceed the target number")
	ErrAbilityUsed         = errors.New("ability has already been used")
	ErrGameComplete        = errors.New("game is already complete")
	ErrUnknownCommand      = errors.New("unknown command kind")
	ErrInsufficientPlayers = errors.New("insufficient players to start game")

	// Storage errors
	ErrStorage = errors.New("credential storage failure")
)
