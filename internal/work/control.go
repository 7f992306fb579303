package work

import "time"

// ControlSignal is the tagged union accepted on the miner's control
// channel (spec §4.5, §9 "Channels for control + data"): Start(lambda),
// Update, Exit.
type ControlSignal struct {
	kind   controlKind
	Lambda time.Duration
}

type controlKind int

const (
	signalStart controlKind = iota
	signalUpdate
	signalExit
)

func StartSignal(lambda time.Duration) ControlSignal {
	return ControlSignal{kind: signalStart, Lambda: lambda}
}

func UpdateSignal() ControlSignal { return ControlSignal{kind: signalUpdate} }

func ExitSignal() ControlSignal { return ControlSignal{kind: signalExit} }

// OperatingState is the miner's state machine (spec §4.5, §9):
// Paused --Start(lambda)--> Run(lambda) --Exit--> ShutDown; Update is a
// no-op in Paused and forces a tip refresh in Run.
type OperatingState int

const (
	Paused OperatingState = iota
	Run
	ShutDown
)

func (s OperatingState) String() string {
	switch s {
	case Paused:
		return "Paused"
	case Run:
		return "Run"
	case ShutDown:
		return "ShutDown"
	default:
		return "Unknown"
	}
}

// Handle is the opaque command sink handed to the HTTP façade and other
// callers that want to drive the miner without reaching into its
// internals (spec §2 "External handles").
type Handle struct {
	control chan<- ControlSignal
}

func (h Handle) Start(lambda time.Duration) { h.control <- StartSignal(lambda) }
func (h Handle) Update()                    { h.control <- UpdateSignal() }
func (h Handle) Exit()                      { h.control <- ExitSignal() }
