// Package livenats provides an embedded NATS server as the pub/sub backend for
// live applications. Query notifications fan out through it to every open admin
// view; a view that is not open when a query arrives fetches the listing on mount.
package livenats

import (
	"context"
	"fmt"

	"github.com/delaneyj/toolbelt/embeddednats"
	"github.com/nats-io/nats.go"
	"github.com/ryanhamamura/elegant/live"
)

// NATS implements live.PubSub using an embedded NATS server.
type NATS struct {
	server *embeddednats.Server
	nc     *nats.Conn
}

var _ live.PubSub = (*NATS)(nil)

// New starts an embedded NATS server and returns a ready-to-use NATS instance.
// The server stores data in dataDir and shuts down when ctx is cancelled.
func New(ctx context.Context, dataDir string) (*NATS, error) {
	ns, err := embeddednats.New(ctx, embeddednats.WithDirectory(dataDir))
	if err != nil {
		return nil, fmt.Errorf("livenats: start server: %w", err)
	}
	ns.WaitForServer()

	nc, err := ns.Client()
	if err != nil {
		ns.Close()
		return nil, fmt.Errorf("livenats: connect client: %w", err)
	}

	return &NATS{server: ns, nc: nc}, nil
}

// Publish sends data to the given subject using core NATS publish. Subscribers that
// are not connected at that moment do not see it.
func (n *NATS) Publish(subject string, data []byte) error {
	return n.nc.Publish(subject, data)
}

// Subscribe creates a core NATS subscription for real-time fan-out delivery.
func (n *NATS) Subscribe(subject string, handler func(data []byte)) (live.Subscription, error) {
	sub, err := n.nc.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// Close shuts down the client connection and embedded server.
func (n *NATS) Close() error {
	n.nc.Close()
	return n.server.Close()
}

// Conn returns the underlying NATS connection for advanced usage.
func (n *NATS) Conn() *nats.Conn {
	return n.nc
}
