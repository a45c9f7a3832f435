package specs

// PublisherCredentialsSpec controls how rated records leave the engine.
type PublisherCredentialsSpec struct {
	// Publish one batch per routing key instead of one broadcast.
	//
	// When true, rated records are grouped by their category value and each group is
	// published with that value as routing key. When false, every rated record of a
	// payload goes out in a single broadcast.
	Dispatch bool `json:"dispatch"`

	// Routing key for records whose category is missing or empty.
	//
	// Required when Dispatch is true. Example: "Charge".
	DefaultRoutingKey string `json:"defaultRoutingKey"`
}
