package source

import (
	"fmt"
	"log"
	"net"
	"strconv"
	"sync"

	"github.com/hypebeast/go-osc/osc"
)

// OSCListener serves OSC on a UDP port and keeps the latest message
// received. Capture hands each message out once.
type OSCListener struct {
	mu     sync.Mutex
	latest *osc.Message
	fresh  bool

	conn   net.PacketConn
	server *osc.Server
}

// NewOSCListener routes messages for address ("*" for any) into the
// listener. Call Listen to start serving.
func NewOSCListener(address string) (*OSCListener, error) {
	l := &OSCListener{}
	d := osc.NewStandardDispatcher()
	if err := d.AddMsgHandler(address, l.handle); err != nil {
		return nil, fmt.Errorf("osc address %q: %w", address, err)
	}
	l.server = &osc.Server{Dispatcher: d}
	return l, nil
}

// Listen binds addr (e.g. ":9000") and serves in the background until Close.
func (l *OSCListener) Listen(addr string) error {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return fmt.Errorf("osc listen %s: %w", addr, err)
	}
	l.mu.Lock()
	l.conn = conn
	l.mu.Unlock()
	go func() {
		log.Printf("Starting OSC server on %s", conn.LocalAddr())
		if err := l.server.Serve(conn); err != nil {
			log.Printf("OSC server on %s stopped: %v", conn.LocalAddr(), err)
		}
	}()
	return nil
}

// Addr is the bound local address, or nil before Listen.
func (l *OSCListener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn == nil {
		return nil
	}
	return l.conn.LocalAddr()
}

func (l *OSCListener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn == nil {
		return nil
	}
	err := l.conn.Close()
	l.conn = nil
	return err
}

func (l *OSCListener) handle(msg *osc.Message) {
	l.mu.Lock()
	l.latest, l.fresh = msg, true
	l.mu.Unlock()
}

// Capture returns the message received since the previous capture.
func (l *OSCListener) Capture() (*osc.Message, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.fresh {
		return nil, false
	}
	l.fresh = false
	return l.latest, true
}

// OSCForwarder sends presented messages to a remote OSC endpoint. Repeats of
// the message last sent are suppressed.
type OSCForwarder struct {
	client *osc.Client
	last   *osc.Message
}

// NewOSCForwarder targets hostport, e.g. "127.0.0.1:57120".
func NewOSCForwarder(hostport string) (*OSCForwarder, error) {
	host, p, err := net.SplitHostPort(hostport)
	if err != nil {
		return nil, fmt.Errorf("osc forward address: %w", err)
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		return nil, fmt.Errorf("osc forward port: %w", err)
	}
	if host == "" {
		host = "127.0.0.1"
	}
	return &OSCForwarder{client: osc.NewClient(host, port)}, nil
}

func (f *OSCForwarder) Present(msg *osc.Message) {
	if msg == nil || msg == f.last {
		return
	}
	f.last = msg
	if err := f.client.Send(msg); err != nil {
		log.Printf("Error sending OSC %s: %v", msg.Address, err)
	}
}
