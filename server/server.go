package server

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/leftmike/tinydb/engine"
)

var ErrServerClosed = errors.New("server: closed")

type LineReader interface {
	ReadLine() (string, error)
}

type Session struct {
	Engine *engine.Engine
	User   string
	Type   string
	Addr   string
}

// Handler runs a line oriented session, such as a console or an SSH channel.
type Handler func(ses *Session, lr LineReader, w io.Writer)

// Server runs sessions against a single engine; all of the sessions see the same tables.
type Server struct {
	Engine  *engine.Engine
	Handler Handler

	mutex      sync.Mutex
	listeners  map[net.Listener]struct{}
	activeConn map[net.Conn]struct{}
	connCount  int32
	shutdown   bool
}

// Handle runs the Handler for a session and returns when it finishes.
func (svr *Server) Handle(lr LineReader, w io.Writer, user, typ, addr string) {
	ses := &Session{
		Engine: svr.Engine,
		User:   user,
		Type:   typ,
		Addr:   addr,
	}

	entry := log.WithFields(log.Fields{
		"user": user,
		"type": typ,
		"addr": addr,
	})
	entry.Info("session started")
	svr.Handler(ses, lr, w)
	entry.Info("session done")
}

// serve accepts connections on l until the server is closed. Each connection is run by
// handle on its own goroutine and is closed when handle returns.
func (svr *Server) serve(l net.Listener, proto string,
	handle func(conn net.Conn, entry *log.Entry)) error {

	svr.addListener(l)
	if svr.isShutdown() {
		l.Close()
	}

	for {
		conn, err := l.Accept()
		if err != nil {
			if svr.isShutdown() {
				err = ErrServerClosed
			}
			log.WithFields(log.Fields{
				"proto": proto,
				"error": err.Error(),
			}).Error("accept")
			return err
		}

		go svr.runConn(conn, proto, handle)
	}
}

func (svr *Server) runConn(conn net.Conn, proto string,
	handle func(conn net.Conn, entry *log.Entry)) {

	atomic.AddInt32(&svr.connCount, 1)
	defer atomic.AddInt32(&svr.connCount, -1)

	if !svr.trackConn(conn) {
		conn.Close()
		return
	}

	entry := log.WithFields(log.Fields{
		"proto": proto,
		"addr":  conn.RemoteAddr().String(),
	})
	entry.Info("connected")
	handle(conn, entry)
	if svr.untrackConn(conn) {
		conn.Close()
	}
	entry.Info("disconnected")
}

func (svr *Server) addListener(l net.Listener) {
	svr.mutex.Lock()
	defer svr.mutex.Unlock()

	if svr.listeners == nil {
		svr.listeners = map[net.Listener]struct{}{}
	}
	svr.listeners[l] = struct{}{}
}

func (svr *Server) isShutdown() bool {
	svr.mutex.Lock()
	defer svr.mutex.Unlock()

	return svr.shutdown
}

// trackConn returns false if the server is already shutting down.
func (svr *Server) trackConn(conn net.Conn) bool {
	svr.mutex.Lock()
	defer svr.mutex.Unlock()

	if svr.shutdown {
		return false
	}
	if svr.activeConn == nil {
		svr.activeConn = map[net.Conn]struct{}{}
	}
	svr.activeConn[conn] = struct{}{}
	return true
}

// untrackConn returns false if Close has already closed conn.
func (svr *Server) untrackConn(conn net.Conn) bool {
	svr.mutex.Lock()
	defer svr.mutex.Unlock()

	_, ok := svr.activeConn[conn]
	delete(svr.activeConn, conn)
	return ok
}

func (svr *Server) closeListeners() error {
	var err error
	for l := range svr.listeners {
		lerr := l.Close()
		if lerr != nil && err == nil {
			err = lerr
		}
		delete(svr.listeners, l)
	}
	return err
}

// Close immediately closes all listeners and connections.
func (svr *Server) Close() error {
	svr.mutex.Lock()
	defer svr.mutex.Unlock()

	svr.shutdown = true
	err := svr.closeListeners()
	for conn := range svr.activeConn {
		conn.Close()
		delete(svr.activeConn, conn)
	}
	return err
}

// Shutdown closes all listeners and then waits for the active connections to finish or for
// ctx to be done.
func (svr *Server) Shutdown(ctx context.Context) error {
	svr.mutex.Lock()
	svr.shutdown = true
	err := svr.closeListeners()
	svr.mutex.Unlock()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	last := int32(-1)
	for {
		cc := atomic.LoadInt32(&svr.connCount)
		if cc == 0 {
			return err
		}
		if cc != last {
			log.WithField("connections", cc).Info("waiting for active connections")
			last = cc
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
