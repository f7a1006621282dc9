package main

import (
	"sync"

	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/device"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/mirror"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/signal"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/store"
	"github.com/lijian-bjfu/PhysioBridge-sub001/internal/udp"
)

// pump moves data between the backends while the UI owns rendering:
// device batches into the snapshot and onto the wire, store changes into
// the sender and the mirror.
type pump struct {
	store   *store.Store
	manager *device.Manager
	sender  *udp.Sender
	snap    *signal.Snapshot
	mirror  *mirror.Mirror
	notify  mirror.StateFunc

	mu   sync.Mutex // serializes mirror connect/stop
	done chan struct{}
	wg   sync.WaitGroup
}

func newPump(st *store.Store, manager *device.Manager, sender *udp.Sender,
	snap *signal.Snapshot, mir *mirror.Mirror, notify mirror.StateFunc) *pump {
	return &pump{
		store:   st,
		manager: manager,
		sender:  sender,
		snap:    snap,
		mirror:  mir,
		notify:  notify,
		done:    make(chan struct{}),
	}
}

// start launches the loops and brings the mirror in line with the saved
// toggle. The initial connect runs off the main goroutine because an
// unreachable broker blocks for the full connect timeout.
func (p *pump) start() {
	if p.mirror != nil {
		p.sender.SetTap(p.mirror)
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.syncMirror()
		}()
	}
	p.wg.Add(2)
	go p.batchLoop()
	go p.eventLoop()
}

// stop tears the loops down and disconnects the mirror.
func (p *pump) stop() {
	close(p.done)
	p.wg.Wait()
	if p.mirror != nil {
		p.mirror.Stop()
	}
}

// batchLoop feeds generated samples into the snapshot and, when transmit
// is on, onto the wire. Send errors are dropped here: sample batches
// arrive several times a second and the UI reports transport failures on
// the lifecycle path.
func (p *pump) batchLoop() {
	defer p.wg.Done()
	batches := p.manager.Batches()
	for {
		select {
		case <-p.done:
			return
		case b := <-batches:
			p.snap.ObserveBatch(b)
			if !p.store.UDPEnabled() {
				continue
			}
			_ = p.sender.Send(udp.NewSamplePacket(b, p.store.Subject().ID))
		}
	}
}

// eventLoop applies store changes to the transport: endpoint edits
// re-dial the sender, settings flips reconcile the mirror.
func (p *pump) eventLoop() {
	defer p.wg.Done()
	events := p.store.Subscribe()
	for {
		select {
		case <-p.done:
			return
		case ev := <-events:
			switch ev.Kind {
			case store.EventEndpoint:
				host, port := p.store.Endpoint()
				_ = p.sender.SetEndpoint(host, port)
			case store.EventSettings:
				p.syncMirror()
			}
		}
	}
}

// syncMirror connects or disconnects the broker to match the toggle.
func (p *pump) syncMirror() {
	if p.mirror == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	enabled := p.store.MirrorEnabled()
	switch {
	case enabled && !p.mirror.IsConnected():
		if err := p.mirror.Connect(); err != nil && p.notify != nil {
			p.notify(false, err)
		}
	case !enabled && p.mirror.IsConnected():
		p.mirror.Stop()
		if p.notify != nil {
			p.notify(false, nil)
		}
	}
}
