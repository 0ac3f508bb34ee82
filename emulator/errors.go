package emulator

import (
	"errors"
	"fmt"
)

var (
	ErrOffsetUnverified  = errors.New("could not verify memory offset")
	ErrNotAttached       = errors.New("not attached")
	ErrFamilyUnsupported = errors.New("emulator family unsupported")
	ErrLibraryNotLoaded  = errors.New("library not loaded")
	ErrOutOfRange        = errors.New("offset outside emulated memory")
)

type AttachStage int

const (
	StageFind AttachStage = iota
	StageOpen
	StageDiscover
	StageSanity
)

func (s AttachStage) String() string {
	switch s {
	case StageFind:
		return "could not find emulator"
	case StageOpen:
		return "could not open emulator"
	case StageDiscover:
		return "could not locate game memory"
	case StageSanity:
		return "game memory is not readable"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// AttachError's message is shown to the user as the connection status.
type AttachError struct {
	Stage AttachStage
	Err   error
}

func (e *AttachError) Error() string {
	return fmt.Sprintf("%v: %v", e.Stage, e.Err)
}

func (e *AttachError) Unwrap() error {
	return e.Err
}
