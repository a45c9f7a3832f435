package specs

import "encoding/json"

// DispatchBatchSpec is one outbound publish call: a routing key and the records sent with it.
//
// Records keep the order in which they appeared in the inbound payload. Batches of a
// single payload appear in the order their routing key was first seen. A broadcast is
// represented as a single batch with an empty RoutingKey.
type DispatchBatchSpec struct {
	RoutingKey string            `json:"routingKey"`
	Records    []json.RawMessage `json:"records"`
}
