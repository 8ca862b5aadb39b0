package errors

import (
	"fmt"
)

var (
	ErrNotFound       = fmt.Errorf("not found")
	ErrDuplicate      = fmt.Errorf("duplicate")
	ErrInvalidInput   = fmt.Errorf("invalid input")
	ErrForbidden      = fmt.Errorf("forbidden")
	ErrAlreadyApplied = fmt.Errorf("already applied")
	ErrRoleAlreadySet = fmt.Errorf("role already set")
	ErrRoomFull       = fmt.Errorf("room is full")
)
