package queue

import "context"

// NoopClient discards messages. Used when no queue is configured.
type NoopClient struct{}

// Send drops the message.
func (NoopClient) Send(ctx context.Context, msg Message) error {
	return nil
}

var _ Client = NoopClient{}
