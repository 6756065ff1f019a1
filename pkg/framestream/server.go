// Package framestream broadcasts completed frames and the serial port
// log over a websocket, so a diagnostic ROM run can be watched without
// a GUI (headless hosts, CI, remote debugging).
package framestream

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/thelolagemann/gomeboy/internal/ppu"
)

const (
	kindFrame uint8 = iota
	kindSerial
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024 * 16,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server fans completed frames and serial output out to any number of
// connected viewers. The zero value is not usable; construct one with
// New.
type Server struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan []byte

	mu    sync.Mutex
	frame [ppu.ScreenHeight][ppu.ScreenWidth]uint8
}

// New returns a Server ready to accept connections at Handler and to
// receive frames and serial data via DrawLine and SerialLog.
func New() *Server {
	return &Server{
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 64),
	}
}

// Handler upgrades incoming HTTP connections to websockets and attaches
// them to the broadcast set.
func (s *Server) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := &client{conn: conn, send: make(chan []byte, 16), server: s}
		s.register <- c
		go c.writePump()
		go c.readPump()
	}
}

// Run drives client registration and broadcast fan-out until stop is
// closed. It should run in its own goroutine.
func (s *Server) Run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			for c := range s.clients {
				close(c.send)
			}
			return
		case c := <-s.register:
			s.clients[c] = true
		case c := <-s.unregister:
			if _, ok := s.clients[c]; ok {
				delete(s.clients, c)
				close(c.send)
			}
		case msg := <-s.broadcast:
			for c := range s.clients {
				select {
				case c.send <- msg:
				default:
					delete(s.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// DrawLine satisfies ppu.Host: it accumulates scanlines into a frame
// buffer and broadcasts the assembled frame once it is complete.
func (s *Server) DrawLine(pixels [ppu.ScreenWidth]uint8, ly uint8) {
	s.mu.Lock()
	s.frame[ly] = pixels
	complete := ly == ppu.ScreenHeight-1
	var payload []byte
	if complete {
		payload = make([]byte, 1+ppu.ScreenHeight*ppu.ScreenWidth)
		payload[0] = kindFrame
		for row := 0; row < ppu.ScreenHeight; row++ {
			copy(payload[1+row*ppu.ScreenWidth:], s.frame[row][:])
		}
	}
	s.mu.Unlock()

	if complete {
		select {
		case s.broadcast <- payload:
		default:
		}
	}
}

// SerialLog broadcasts the serial port's accumulated output so far.
func (s *Server) SerialLog(log string) {
	payload := append([]byte{kindSerial}, []byte(log)...)
	select {
	case s.broadcast <- payload:
	default:
	}
}
