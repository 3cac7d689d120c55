// Package control defines lightweight command messages used by the UI to
// request actions from the dispatcher loop. The loop owns all timer state,
// so every mutation goes through it.
package control

// CommandType enumerates supported command operations.
type CommandType int

const (
	CmdSelectBoss CommandType = iota
	CmdStartSkill
	CmdStartEncounter
	CmdStopTimer
	CmdStopAll
	CmdSnapshot
)

func (t CommandType) String() string {
	switch t {
	case CmdSelectBoss:
		return "select-boss"
	case CmdStartSkill:
		return "start-skill"
	case CmdStartEncounter:
		return "start-encounter"
	case CmdStopTimer:
		return "stop-timer"
	case CmdStopAll:
		return "stop-all"
	case CmdSnapshot:
		return "snapshot"
	}
	return "unknown"
}

// TimerInfo is a read-only view of one running timer.
type TimerInfo struct {
	ID        string
	Skill     string
	ElapsedMs int64
	TotalMs   int64
}

// Command is the message sent from the UI to the dispatcher loop. The
// optional Reply channel receives the outcome; it should be buffered so the
// loop never waits on it. Snapshot commands also fill Timers before replying.
type Command struct {
	Type    CommandType
	Boss    string // CmdSelectBoss
	Skill   string // CmdStartSkill
	TimerID string // CmdStopTimer
	Reply   chan error
	Timers  chan []TimerInfo // CmdSnapshot
}
