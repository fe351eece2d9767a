package link

import (
	"github.com/daglabs/powsim/internal/chain"
	"github.com/daglabs/powsim/internal/scheduler"
	"github.com/daglabs/powsim/internal/simrand"
)

// jitterBits is the numerator of the per-message exponential jitter mean:
// the jitter's mean is this flat 96/8 reference payload divided by the
// link's bandwidth.
const jitterBits = 96.0 / 8.0

// DirectionalLink carries traffic one way: from→to. Transmit samples a
// fresh jitter delay per message and schedules the receive event; rho and
// bandwidth are fixed at construction and shared with the link's other
// direction.
type DirectionalLink struct {
	From, To  chain.PeerID
	rho       float64
	bandwidth float64
	sched     *scheduler.Scheduler
	rng       *simrand.Source
	deliver   func(msg chain.Message)
}

func newDirectionalLink(from, to chain.PeerID, rho, bandwidth float64, sched *scheduler.Scheduler, rng *simrand.Source, deliver func(chain.Message)) *DirectionalLink {
	return &DirectionalLink{
		From: from, To: to,
		rho: rho, bandwidth: bandwidth,
		sched: sched, rng: rng,
		deliver: deliver,
	}
}

// delay computes the per-message latency: rho + size/bandwidth + a fresh
// exponential jitter sample with mean (96/8)/bandwidth ms.
func (d *DirectionalLink) delay(msg chain.Message) float64 {
	transmit := float64(msg.Size()) / d.bandwidth
	jitter := d.rng.Exponential(jitterBits / d.bandwidth)
	return d.rho + transmit + jitter
}

// Transmit enqueues a zero-delay SEND event whose action samples the
// message's delay and schedules the matching RECEIVE event on the
// destination.
func (d *DirectionalLink) Transmit(msg chain.Message) {
	sendKind := scheduler.KindTxnSend
	receiveKind := scheduler.KindTxnReceive
	if msg.Kind == chain.MessageKindBlock {
		sendKind = scheduler.KindBlockSend
		receiveKind = scheduler.KindBlockReceive
	}

	now := d.sched.Now()
	d.sched.Enqueue(scheduler.NewEvent(sendKind, now, 0, func() {
		delay := d.delay(msg)
		d.sched.Enqueue(scheduler.NewEvent(receiveKind, d.sched.Now(), delay, func() {
			d.deliver(msg)
		}))
	}))
}
