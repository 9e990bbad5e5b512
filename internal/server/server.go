// Package server pushes solved field slices to websocket clients, so
// external UIs can browse a field without reloading the binary array.
package server

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vuthalab/biot-savart/internal/grid"
	"github.com/vuthalab/biot-savart/internal/storage"
)

type Server struct {
	addr     string
	field    *grid.Field
	meta     *storage.RunMetadata
	upgrader websocket.Upgrader
	log      *logrus.Logger
}

func New(addr string, field *grid.Field, meta *storage.RunMetadata, log *logrus.Logger) *Server {
	return &Server{
		addr:  addr,
		field: field,
		meta:  meta,
		log:   log,
	}
}

// ServeWs handles one websocket client.
func (s *Server) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Error("upgrade failed")
		return
	}
	defer conn.Close()

	hub := NewHub(s.field, s.meta, conn, s.log)
	go hub.Run()
	defer close(hub.requests)

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.WithError(err).Warn("read failed")
			}
			return
		}
		hub.requests <- req
	}
}

func (s *Server) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.ServeWs)
	return mux
}

// Serve blocks, accepting websocket clients on /ws.
func (s *Server) Serve() error {
	s.log.WithField("addr", s.addr).Info("serving field")
	return http.ListenAndServe(s.addr, s.mux())
}
