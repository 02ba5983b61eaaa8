package live

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoPubSub is returned by Publish and Subscribe when the app has no PubSub backend.
var ErrNoPubSub = errors.New("live: no pubsub configured")

// PubSub is an interface for publish/subscribe messaging backends.
// The livenats package provides an embedded NATS implementation.
type PubSub interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte)) (Subscription, error)
	Close() error
}

// Subscription represents an active subscription that can be manually unsubscribed.
type Subscription interface {
	Unsubscribe() error
}

// Publish sends data on subject through the app's PubSub backend.
func (c *Context) Publish(subject string, data []byte) error {
	if c.app.pubsub == nil {
		return ErrNoPubSub
	}
	return c.app.pubsub.Publish(subject, data)
}

// Subscribe registers handler for subject. The subscription is dropped when the
// view is disposed.
func (c *Context) Subscribe(subject string, handler func(data []byte)) (Subscription, error) {
	if c.app.pubsub == nil {
		return nil, ErrNoPubSub
	}
	sub, err := c.app.pubsub.Subscribe(subject, handler)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", subject, err)
	}
	p := c.page()
	p.hooksMu.Lock()
	if p.unmounted {
		p.hooksMu.Unlock()
		_ = sub.Unsubscribe()
		return nil, fmt.Errorf("subscribe %s: view disposed", subject)
	}
	p.subs = append(p.subs, sub)
	p.hooksMu.Unlock()
	return sub, nil
}

// Publish JSON-marshals msg and publishes to subject.
func Publish[T any](c *Context, subject string, msg T) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.Publish(subject, data)
}

// Subscribe JSON-unmarshals each message as T and calls handler.
// Messages that fail to decode are skipped.
func Subscribe[T any](c *Context, subject string, handler func(T)) (Subscription, error) {
	return c.Subscribe(subject, func(data []byte) {
		var msg T
		if err := json.Unmarshal(data, &msg); err != nil {
			c.app.logDebug(c, "skipping undecodable message on %s: %v", subject, err)
			return
		}
		handler(msg)
	})
}
