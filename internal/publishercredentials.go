package internal

import (
	"fmt"
	specs "rating-engine/specs"
)

type PublisherCredentials struct {
	dispatch          bool
	defaultRoutingKey RoutingKey
}

func NewPublisherCredentials(spec specs.PublisherCredentialsSpec) (PublisherCredentials, error) {
	if spec.Dispatch && spec.DefaultRoutingKey == "" {
		return PublisherCredentials{}, fmt.Errorf("default routing key is required in dispatch mode")
	}

	return PublisherCredentials{
		dispatch:          spec.Dispatch,
		defaultRoutingKey: RoutingKey{value: spec.DefaultRoutingKey},
	}, nil
}

// DispatchInsteadOfBroadcast reports whether records are partitioned by routing key.
func (c PublisherCredentials) DispatchInsteadOfBroadcast() bool {
	return c.dispatch
}

func (c PublisherCredentials) DefaultRoutingKey() RoutingKey {
	return c.defaultRoutingKey
}

type RoutingKey struct {
	value string
}

func (k RoutingKey) ToString() string {
	return k.value
}
