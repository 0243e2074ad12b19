package engine

import (
	"errors"

	"github.com/mfenderov/donttouch/internal/policy"
)

// State is the persistent command state, resolved from disk on every
// invocation.
type State int

const (
	// Uninitialized: no policy document exists.
	Uninitialized State = iota
	// Disabled: policy exists with enabled=false.
	Disabled
	// Enabled: policy exists with enabled=true.
	Enabled
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Disabled:
		return "disabled"
	case Enabled:
		return "enabled"
	default:
		return "unknown"
	}
}

// Command names every CLI operation for the transition table.
type Command string

const (
	CmdInit      Command = "init"
	CmdStatus    Command = "status"
	CmdLock      Command = "lock"
	CmdUnlock    Command = "unlock"
	CmdEnable    Command = "enable"
	CmdDisable   Command = "disable"
	CmdCheck     Command = "check"
	CmdCheckPush Command = "check-push"
	CmdWhy       Command = "why"
	CmdInject    Command = "inject"
	CmdRemove    Command = "remove"
)

// Benign refusals: the command has nothing to do, which is success,
// not failure. Hard refusals share ErrNotInitialized and
// ErrProtectionDisabled.
var (
	ErrAlreadyInitialized = errors.New(policy.FileName + " already exists; nothing to do")
	ErrAlreadyEnabled     = errors.New("protection is already enabled")
	ErrAlreadyDisabled    = errors.New("protection is already disabled")
	ErrProtectionDisabled = errors.New("protection is disabled; run 'donttouch enable' first")
)

// Resolve derives the command state for root from disk.
func Resolve(root string) (State, error) {
	pol, err := policy.Load(root)
	if err != nil {
		if errors.Is(err, policy.ErrMissing) {
			return Uninitialized, nil
		}
		return Uninitialized, err
	}
	if pol.Enabled {
		return Enabled, nil
	}
	return Disabled, nil
}

// Allowed is the transition table: nil means (state, command) is
// valid, anything else is the state-specific refusal.
func Allowed(s State, c Command) error {
	switch s {
	case Uninitialized:
		if c == CmdInit {
			return nil
		}
		return ErrNotInitialized
	case Enabled:
		switch c {
		case CmdInit:
			return ErrAlreadyInitialized
		case CmdEnable:
			return ErrAlreadyEnabled
		}
		return nil
	case Disabled:
		switch c {
		case CmdInit:
			return ErrAlreadyInitialized
		case CmdLock:
			return ErrProtectionDisabled
		case CmdDisable:
			return ErrAlreadyDisabled
		}
		return nil
	}
	return errors.New("unknown state")
}
