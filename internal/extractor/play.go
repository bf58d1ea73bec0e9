package extractor

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrMalformedPlay marks a play document that is missing structure the
// extractor depends on. It is fatal for the run.
var ErrMalformedPlay = errors.New("malformed play")

// Play is the root of a play document: PLAY > ACT > SCENE > SPEECH > LINE.
// An induction, prologue or epilogue may also sit directly under PLAY.
type Play struct {
	XMLName  xml.Name `xml:"PLAY"`
	Title    string   `xml:"TITLE"`
	Induct   *Induct  `xml:"INDUCT"`
	Prologue *Scene   `xml:"PROLOGUE"`
	Acts     []Act    `xml:"ACT"`
	Epilogue *Scene   `xml:"EPILOGUE"`
}

// Induct is an induction. It holds either scenes or bare speeches.
type Induct struct {
	Title    string   `xml:"TITLE"`
	Scenes   []Scene  `xml:"SCENE"`
	Speeches []Speech `xml:"SPEECH"`
}

// Act holds the scenes of one act. Prologues and epilogues, of the act or of
// the whole play, are treated as scenes placed before and after the numbered
// ones.
type Act struct {
	Title    string  `xml:"TITLE"`
	Prologue *Scene  `xml:"PROLOGUE"`
	Scenes   []Scene `xml:"SCENE"`
	Epilogue *Scene  `xml:"EPILOGUE"`

	// play-level framing attached by actList
	lead []Scene
	tail []Scene
}

// Scene holds the speeches of one scene.
type Scene struct {
	Title    string   `xml:"TITLE"`
	Speeches []Speech `xml:"SPEECH"`
}

// Speech is one turn of one or more speakers.
type Speech struct {
	Speakers []string `xml:"SPEAKER"`
	Lines    []Line   `xml:"LINE"`
}

// Line is a verse or prose line. Only its direct character data is kept, so
// embedded stage directions are dropped.
type Line struct {
	Text string `xml:",chardata"`
}

// ParseFile parses a play document from disk.
func ParseFile(path string) (*Play, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open play: %w", err)
	}
	defer f.Close()

	return ParsePlay(f)
}

// ParsePlay decodes a play document.
func ParsePlay(r io.Reader) (*Play, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	var play Play
	if err := dec.Decode(&play); err != nil {
		return nil, fmt.Errorf("%w: decode xml: %v", ErrMalformedPlay, err)
	}
	if len(play.Acts) == 0 {
		return nil, fmt.Errorf("%w: no acts found", ErrMalformedPlay)
	}
	return &play, nil
}

// charsetReader accepts the Latin-1 declarations some play files carry.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "utf-8", "utf8", "us-ascii", "ascii":
		return input, nil
	case "iso-8859-1", "latin1", "latin-1", "windows-1252":
		data, err := io.ReadAll(input)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		buf.Grow(len(data))
		for _, b := range data {
			buf.WriteRune(rune(b))
		}
		return &buf, nil
	default:
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
}

// actList returns the play's acts in document order. A play-level
// induction or prologue opens the first act and an epilogue closes the last,
// so act coverage is unchanged and their speeches are numbered in place.
func (p Play) actList() []Act {
	acts := append([]Act(nil), p.Acts...)
	if len(acts) == 0 {
		return acts
	}

	first, last := &acts[0], &acts[len(acts)-1]
	if p.Induct != nil {
		first.lead = append(first.lead, p.Induct.scenes()...)
	}
	if p.Prologue != nil {
		first.lead = append(first.lead, titled(*p.Prologue, "PROLOGUE"))
	}
	if p.Epilogue != nil {
		last.tail = append(last.tail, titled(*p.Epilogue, "EPILOGUE"))
	}
	return acts
}

// scenes returns the induction as scenes. Its own scenes are prefixed with
// the induction title so they do not collide with the first act's.
func (in Induct) scenes() []Scene {
	title := strings.ToUpper(normalize(in.Title))
	if title == "" {
		title = "INDUCTION"
	}

	var out []Scene
	if len(in.Speeches) > 0 {
		out = append(out, Scene{Title: title, Speeches: in.Speeches})
	}
	for i, sc := range in.Scenes {
		sc.Title = title + " " + SceneLabel(sc.Title, i+1)
		out = append(out, sc)
	}
	return out
}

func titled(s Scene, name string) Scene {
	if strings.TrimSpace(s.Title) == "" {
		s.Title = name
	}
	return s
}

// sceneList returns the act's scenes in document order.
func (a Act) sceneList() []Scene {
	scenes := make([]Scene, 0, len(a.lead)+len(a.Scenes)+len(a.tail)+2)
	scenes = append(scenes, a.lead...)
	if a.Prologue != nil {
		scenes = append(scenes, titled(*a.Prologue, "PROLOGUE"))
	}
	// Untitled scenes are numbered among the act's own scenes only
	for i, sc := range a.Scenes {
		if strings.TrimSpace(sc.Title) == "" {
			sc.Title = fmt.Sprintf("SCENE %d", i+1)
		}
		scenes = append(scenes, sc)
	}
	if a.Epilogue != nil {
		scenes = append(scenes, titled(*a.Epilogue, "EPILOGUE"))
	}
	scenes = append(scenes, a.tail...)
	return scenes
}
