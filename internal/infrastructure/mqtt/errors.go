package mqtt

import "errors"

// Sentinel errors for client operations. Callers distinguish failure
// modes with errors.Is; the paho error that triggered one is wrapped
// alongside where available.
var (
	// ErrNotConnected marks an operation attempted on a disconnected
	// client.
	ErrNotConnected = errors.New("mqtt: client not connected")

	// ErrConnectionFailed marks a failed initial connection attempt.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrPublishFailed marks a rejected or failed publish.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrSubscribeFailed marks a failed subscribe.
	ErrSubscribeFailed = errors.New("mqtt: subscribe failed")

	// ErrUnsubscribeFailed marks a failed unsubscribe.
	ErrUnsubscribeFailed = errors.New("mqtt: unsubscribe failed")

	// ErrInvalidQoS marks a QoS level outside 0, 1 or 2.
	ErrInvalidQoS = errors.New("mqtt: invalid QoS level (must be 0, 1, or 2)")

	// ErrInvalidTopic marks an empty topic.
	ErrInvalidTopic = errors.New("mqtt: topic cannot be empty")

	// ErrTimeout marks an operation that exceeded its deadline.
	ErrTimeout = errors.New("mqtt: operation timed out")
)
