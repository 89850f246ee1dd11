// Package scene describes a page, the observers watching it and a scripted
// sequence of scroll positions in a TOML file, and plays it back headless.
package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default window size for scenes that do not set one.
const (
	DefaultWidth  = 1024
	DefaultHeight = 768
)

// ErrInvalidScene is wrapped by every validation error.
var ErrInvalidScene = errors.New("invalid scene")

// Observer kinds.
const (
	KindPosition = "position"
	KindElement  = "element"
)

// Scene is a decoded scene file.
type Scene struct {
	Title    string  `toml:"title"`
	Width    float64 `toml:"width"`
	Height   float64 `toml:"height"`
	HTML     string  `toml:"html"`
	HTMLFile string  `toml:"html_file"`
	// Script runs in the page after the observers are created.
	Script    string         `toml:"script"`
	Observers []ObserverSpec `toml:"observer"`
	Scroll    []ScrollStep   `toml:"scroll"`
}

// ObserverSpec declares one observer. Target and Container are element
// ids; an empty Container observes the document.
type ObserverSpec struct {
	Kind      string  `toml:"kind"`
	Target    string  `toml:"target"`
	Container string  `toml:"container"`
	Offset    float64 `toml:"offset"`
	Once      bool    `toml:"once"`
}

// ScrollStep scrolls to Y, or scrolls the Container element when one is
// named, then runs Frames ticks.
type ScrollStep struct {
	Y         float64 `toml:"y"`
	Container string  `toml:"container"`
	Frames    int     `toml:"frames"`
}

// Load reads and validates a scene file. A relative html_file is resolved
// against the scene's directory and read into HTML.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.HTMLFile != "" {
		file := s.HTMLFile
		if !filepath.IsAbs(file) {
			file = filepath.Join(filepath.Dir(path), file)
		}
		markup, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read html_file: %w", err)
		}
		s.HTML = string(markup)
	}
	return s, nil
}

// Parse decodes and validates a scene. Unknown keys are rejected so typos
// do not silently drop an observer option.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	md, err := toml.Decode(string(data), &s)
	if err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s", ErrInvalidScene, strings.Join(keys, ", "))
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scene) validate() error {
	if s.Width == 0 {
		s.Width = DefaultWidth
	}
	if s.Height == 0 {
		s.Height = DefaultHeight
	}
	if s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("%w: negative window size %vx%v", ErrInvalidScene, s.Width, s.Height)
	}
	if s.HTML != "" && s.HTMLFile != "" {
		return fmt.Errorf("%w: html and html_file are mutually exclusive", ErrInvalidScene)
	}

	for i, o := range s.Observers {
		switch o.Kind {
		case KindPosition:
			if o.Target != "" {
				return fmt.Errorf("%w: observer %d: position observers take no target", ErrInvalidScene, i)
			}
		case KindElement:
			if o.Target == "" {
				return fmt.Errorf("%w: observer %d: element observer without target", ErrInvalidScene, i)
			}
		default:
			return fmt.Errorf("%w: observer %d: unknown kind %q", ErrInvalidScene, i, o.Kind)
		}
	}

	for i := range s.Scroll {
		step := &s.Scroll[i]
		if step.Frames < 0 {
			return fmt.Errorf("%w: scroll %d: negative frames", ErrInvalidScene, i)
		}
		if step.Frames == 0 {
			step.Frames = 1
		}
	}
	return nil
}
