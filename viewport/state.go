package viewport

import (
	"github.com/chrisuehlinger/viewprt/dom"
)

// Kind distinguishes the two observer variants.
type Kind uint8

const (
	// KindPosition observes the scroll extent of the whole container.
	KindPosition Kind = iota + 1
	// KindElement observes one element's visibility inside the container.
	KindElement
)

func (k Kind) String() string {
	switch k {
	case KindPosition:
		return "position"
	case KindElement:
		return "element"
	}
	return "unknown"
}

// Direction is the vertical scroll direction since the previous check of
// the same viewport.
type Direction uint8

const (
	DirectionNone Direction = iota
	DirectionDown
	DirectionUp
)

func (d Direction) String() string {
	switch d {
	case DirectionDown:
		return "down"
	case DirectionUp:
		return "up"
	}
	return "none"
}

// State is the container measurement taken once per check.
type State struct {
	Width        float64
	Height       float64
	ScrollTop    float64
	ScrollHeight float64
	Direction    Direction
}

// Event is passed to observer callbacks.
type Event struct {
	Observer *Observer
	// Target is the observed element, or the container for position
	// observers.
	Target *dom.Element
	State  State
}

// Callback is a user function invoked on a transition.
type Callback func(Event)

// position is the last boundary membership of a position observer.
type position uint8

const (
	positionUnset position = iota
	positionMiddle
	positionTop
	positionBottom
	// positionBoth holds when the content fits the viewport or the
	// scroll extent exactly equals it.
	positionBoth
)

func positionOf(top, bottom bool) position {
	switch {
	case top && bottom:
		return positionBoth
	case top:
		return positionTop
	case bottom:
		return positionBottom
	}
	return positionMiddle
}

func (p position) atTop() bool {
	return p == positionTop || p == positionBoth
}

func (p position) atBottom() bool {
	return p == positionBottom || p == positionBoth
}

// visibility is the last visibility of an element observer.
type visibility uint8

const (
	visibilityUnset visibility = iota
	visibilityEntered
	visibilityLeft
)
