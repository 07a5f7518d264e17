package service

import (
	"go-estoque-condo/internal/ws"
)

// Notifier receives a reload event after every successful mutation.
type Notifier interface {
	Publish(e ws.Event)
}

type nopNotifier struct{}

func (nopNotifier) Publish(ws.Event) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

// Actor identifies who performs a mutation, for audit fields and events.
type Actor struct {
	ID   string
	Name string
}

// SystemActor is used by seeding and maintenance commands.
var SystemActor = Actor{ID: "system", Name: "system"}
