package scheduler

import "github.com/daglabs/powsim/internal/simrand"

// Kind classifies an Event for reporting and hook purposes. The scheduler
// itself never branches on Kind (dispatch is always the event's own Action
// closure), but hooks (e.g. the driver's broadcast counters) key off it.
type Kind int

// Event kinds.
const (
	KindTxnCreate Kind = iota
	KindTxnSend
	KindTxnReceive
	KindTxnBroadcast
	KindBlockCreate
	KindBlockSend
	KindBlockReceive
	KindBlockBroadcast
	KindBlockAccepted
	KindBlockMineStart
	KindBlockMineFinish
	KindBlockMineSuccess
	KindBlockMineFail
)

func (k Kind) String() string {
	switch k {
	case KindTxnCreate:
		return "TXN_CREATE"
	case KindTxnSend:
		return "TXN_SEND"
	case KindTxnReceive:
		return "TXN_RECEIVE"
	case KindTxnBroadcast:
		return "TXN_BROADCAST"
	case KindBlockCreate:
		return "BLOCK_CREATE"
	case KindBlockSend:
		return "BLOCK_SEND"
	case KindBlockReceive:
		return "BLOCK_RECEIVE"
	case KindBlockBroadcast:
		return "BLOCK_BROADCAST"
	case KindBlockAccepted:
		return "BLOCK_ACCEPTED"
	case KindBlockMineStart:
		return "BLOCK_MINE_START"
	case KindBlockMineFinish:
		return "BLOCK_MINE_FINISH"
	case KindBlockMineSuccess:
		return "BLOCK_MINE_SUCCESS"
	case KindBlockMineFail:
		return "BLOCK_MINE_FAIL"
	default:
		return "UNKNOWN"
	}
}

// Action is the closure an Event runs when dispatched. It carries its own
// payload via closure capture rather than through a generic interface{}
// field, so handlers stay type-safe.
type Action func()

// Event is a single timestamped unit of work. Two events with the same
// ActionableAt execute in insertion order (see eventQueue); simulation
// components do not depend on that tie order.
type Event struct {
	ID           string
	Kind         Kind
	CreatedAt    float64
	Delay        float64
	ActionableAt float64
	Action       Action

	seq int // insertion sequence, used only to break heap ties deterministically
}

// NewEvent constructs an event to run action at now+delay.
func NewEvent(kind Kind, now, delay float64, action Action) *Event {
	return &Event{
		ID:           simrand.MustNewID(),
		Kind:         kind,
		CreatedAt:    now,
		Delay:        delay,
		ActionableAt: now + delay,
		Action:       action,
	}
}
