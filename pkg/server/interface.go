/*
Package server implements msgpack IPC for in-text trigger suggestions.

The server speaks a stream of msgpack maps over stdin/stdout. Every editor
field a client wants suggestions for is attached once and then fed its text
changes and key presses in delivery order. Requests are processed one at a
time, so each response reflects every earlier request.

# IPC

Each request carries an id and an op:

	{"id": "1", "op": "attach", "iw": 640}
	{"id": "2", "op": "text", "f": "<field>", "t": "hi #al", "c": 6, "xy": {"y": 0, "x": 42}}
	{"id": "3", "op": "key", "f": "<field>", "k": "Enter"}

The server answers with the field's view-model:

	{"id": "2", "f": "<field>", "v": {"o": true, "s": ["alice"], "a": 0, ...}, "t": 31}

A handled key ("h": true) must not run its default action in the host. When
a confirmation rewrote the buffer the response carries "edit": {"t", "c"}
and the host applies it; the echoed text change is recognized and ignored.

Other ops: "resize" reports measured panel ("pw") and input ("iw") widths,
"detach" drops a field, "candidates" replaces the candidate list for every
field, "add" appends entries to it ("a" counts the new ones) and "health"
reports counters.

Caret coordinates ("xy") come from the host's own text metrics. Without them
the caret is measured in terminal cells and the panel width is estimated from
the widest suggestion.

Failures are sent as ErrorResponse {"id", "e", "c"} with HTTP-like codes.
*/
package server

import "github.com/bastiangx/tagserve/pkg/suggest"

const (
	OpAttach     = "attach"
	OpText       = "text"
	OpKey        = "key"
	OpResize     = "resize"
	OpDetach     = "detach"
	OpCandidates = "candidates"
	OpAdd        = "add"
	OpHealth     = "health"
)

// Request is the union of all op payloads.
type Request struct {
	ID         string          `msgpack:"id"`
	Op         string          `msgpack:"op"`
	Field      string          `msgpack:"f,omitempty"`
	Text       string          `msgpack:"t,omitempty"`
	Caret      int             `msgpack:"c,omitempty"`
	Coords     *Coords         `msgpack:"xy,omitempty"`
	Key        string          `msgpack:"k,omitempty"`
	PanelWidth *float64        `msgpack:"pw,omitempty"`
	InputWidth *float64        `msgpack:"iw,omitempty"`
	Candidates []suggest.Entry `msgpack:"s,omitempty"`
}

// Coords is a caret position measured by the host, relative to the input.
type Coords struct {
	Top  float64 `msgpack:"y"`
	Left float64 `msgpack:"x"`
}

// View is the wire form of session.ViewModel.
type View struct {
	Open        bool     `msgpack:"o"`
	Suggestions []string `msgpack:"s,omitempty"`
	Active      int      `msgpack:"a"`
	AnchorTop   float64  `msgpack:"at"`
	AnchorLeft  float64  `msgpack:"al"`
	PanelTop    float64  `msgpack:"pt"`
	PanelLeft   float64  `msgpack:"pl"`
	Char        string   `msgpack:"ch"`
	ShowChar    bool     `msgpack:"sc"`
}

// Edit is a buffer rewrite the host must apply.
type Edit struct {
	Text  string `msgpack:"t"`
	Caret int    `msgpack:"c"`
}

// Response answers every successful request.
type Response struct {
	ID        string `msgpack:"id"`
	Field     string `msgpack:"f,omitempty"`
	Status    string `msgpack:"status,omitempty"`
	View      *View  `msgpack:"v,omitempty"`
	Handled   bool   `msgpack:"h,omitempty"`
	Edit      *Edit  `msgpack:"edit,omitempty"`
	Count     int    `msgpack:"n,omitempty"`
	Added     int    `msgpack:"a,omitempty"`
	Fields    int    `msgpack:"fields,omitempty"`
	TimeTaken int64  `msgpack:"t"` // microseconds
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
