package profiler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

var errNoFrames = errors.New("profiler: no frames recorded")

type ssFile struct {
	Schema   string      `json:"$schema"`
	Shared   ssShared    `json:"shared"`
	Profiles []ssProfile `json:"profiles"`
	Exporter string      `json:"exporter,omitempty"`
	Name     string      `json:"name,omitempty"`
}

type ssShared struct {
	Frames []ssFrame `json:"frames"`
}

type ssFrame struct {
	Name string `json:"name"`
}

type ssProfile struct {
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Unit       string    `json:"unit"`
	StartValue int64     `json:"startValue"`
	EndValue   int64     `json:"endValue"`
	Events     []ssEvent `json:"events"`
}

type ssEvent struct {
	Type  string `json:"type"` // "O" or "C"
	At    int64  `json:"at"`
	Frame int    `json:"frame"`
}

// WriteSpeedscope encodes frames as a speedscope document with one evented profile per
// frame, named after its index, so a single slow paint can be picked out of the list.
func WriteSpeedscope(w io.Writer, frames []Frame) error {
	if len(frames) == 0 {
		return errNoFrames
	}
	doc := ssFile{
		Schema:   "https://www.speedscope.app/file-format-schema.json",
		Exporter: "gymblocks-profiler",
		Name:     fmt.Sprintf("gymblocks frames %d-%d", frames[0].Index, frames[len(frames)-1].Index),
	}
	names := map[string]int{}
	intern := func(s string) int {
		if i, ok := names[s]; ok {
			return i
		}
		names[s] = len(doc.Shared.Frames)
		doc.Shared.Frames = append(doc.Shared.Frames, ssFrame{Name: s})
		return names[s]
	}

	for _, f := range frames {
		p := ssProfile{
			Type:       "evented",
			Name:       fmt.Sprintf("frame %d", f.Index),
			Unit:       "microseconds",
			StartValue: f.Start.Microseconds(),
			EndValue:   f.End.Microseconds(),
		}
		// spans are stored in open order; close the ones a sibling or parent outlives
		var open []Span
		closeTo := func(depth int) {
			for len(open) > 0 && open[len(open)-1].Depth >= depth {
				s := open[len(open)-1]
				open = open[:len(open)-1]
				p.Events = append(p.Events, ssEvent{Type: "C", At: at(s.End, f), Frame: names[s.Name]})
			}
		}
		for _, s := range f.Spans {
			closeTo(s.Depth)
			p.Events = append(p.Events, ssEvent{Type: "O", At: at(s.Start, f), Frame: intern(s.Name)})
			open = append(open, s)
		}
		closeTo(0)
		doc.Profiles = append(doc.Profiles, p)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&doc)
}

// at clamps t into the frame so events stay ordered when a span outlived its frame.
func at(t time.Duration, f Frame) int64 {
	return min(max(t, f.Start), max(f.End, f.Start)).Microseconds()
}
