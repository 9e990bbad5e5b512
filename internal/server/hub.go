package server

import (
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vuthalab/biot-savart/internal/geometry"
	"github.com/vuthalab/biot-savart/internal/grid"
	"github.com/vuthalab/biot-savart/internal/storage"
)

// Request is one client message. "meta" returns the run metadata,
// "slice" a plane of the field.
type Request struct {
	Type      string `json:"type"`
	Axis      string `json:"axis,omitempty"`
	Index     int    `json:"index,omitempty"`
	Component string `json:"component,omitempty"`
}

// SliceFrame carries one extracted field plane.
type SliceFrame struct {
	Axis      string      `json:"axis"`
	Index     int         `json:"index"`
	Component string      `json:"component"`
	Rows      [][]float64 `json:"rows"`
	Min       float64     `json:"min"`
	Max       float64     `json:"max"`
}

type Response struct {
	Type  string               `json:"type"`
	Error string               `json:"error,omitempty"`
	Meta  *storage.RunMetadata `json:"meta,omitempty"`
	Slice *SliceFrame          `json:"slice,omitempty"`
}

// Hub serves one client connection's requests against a solved field.
type Hub struct {
	field    *grid.Field
	meta     *storage.RunMetadata
	conn     *websocket.Conn
	requests chan Request
	log      *logrus.Logger
}

func NewHub(field *grid.Field, meta *storage.RunMetadata, conn *websocket.Conn, log *logrus.Logger) *Hub {
	return &Hub{
		field:    field,
		meta:     meta,
		conn:     conn,
		requests: make(chan Request, 10),
		log:      log,
	}
}

// Run answers queued requests until the request channel closes.
func (h *Hub) Run() {
	for req := range h.requests {
		if err := h.conn.WriteJSON(h.Handle(req)); err != nil {
			h.log.WithError(err).Warn("write failed")
			return
		}
	}
}

// Handle builds the response for one request.
func (h *Hub) Handle(req Request) Response {
	switch req.Type {
	case "meta":
		return Response{Type: "meta", Meta: h.meta}
	case "slice":
		frame, err := h.slice(req)
		if err != nil {
			return Response{Type: "error", Error: err.Error()}
		}
		return Response{Type: "slice", Slice: frame}
	default:
		return Response{Type: "error", Error: "no such request type: " + req.Type}
	}
}

func (h *Hub) slice(req Request) (*SliceFrame, error) {
	axis, ok := geometry.ParseAxis(req.Axis)
	if !ok {
		return nil, &badRequestError{"axis", req.Axis}
	}
	comp, ok := grid.ParseComponent(req.Component)
	if !ok {
		return nil, &badRequestError{"component", req.Component}
	}

	plane, err := h.field.Slice(axis, req.Index, comp)
	if err != nil {
		return nil, err
	}

	lo, hi := plane[0][0], plane[0][0]
	for _, row := range plane {
		for _, v := range row {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}

	return &SliceFrame{
		Axis:      axis.String(),
		Index:     req.Index,
		Component: comp.String(),
		Rows:      plane,
		Min:       lo,
		Max:       hi,
	}, nil
}

type badRequestError struct {
	field, value string
}

func (e *badRequestError) Error() string {
	return "bad " + e.field + ": " + e.value
}
