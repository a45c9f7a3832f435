package internal

// DropReason says why a payload produced nothing to publish.
type DropReason int

const (
	// NotDropped means the payload produced at least one rated record.
	NotDropped DropReason = iota
	// DropUnparsable means the payload is neither a JSON array of records nor a
	// JSON object.
	DropUnparsable
	// DropEmpty means the payload is an empty array.
	DropEmpty
	// DropUnratable means no record in the payload could be rated.
	DropUnratable
)

func (r DropReason) String() string {
	switch r {
	case NotDropped:
		return "not-dropped"
	case DropUnparsable:
		return "unparsable"
	case DropEmpty:
		return "empty"
	case DropUnratable:
		return "unratable"
	default:
		return "unknown"
	}
}

// PayloadClassifier detects the shape of an inbound payload and routes each of
// its records.
type PayloadClassifier struct {
	router RecordRouter
}

func NewPayloadClassifier(router RecordRouter) PayloadClassifier {
	return PayloadClassifier{router: router}
}

// Classify returns the rated records of payload in order, or a reason when
// there is nothing to publish.
//
// The payload is first read as an array of records; an array holding anything
// other than records is not one, and neither is it a single record, so it is
// unparsable. Records that are not ratable are left out. When the payload is
// not an array it is read as a single record.
func (c PayloadClassifier) Classify(payload []byte) ([]*Record, DropReason) {
	if elements, err := ParseRecords(payload); err == nil {
		if len(elements) == 0 {
			return nil, DropEmpty
		}

		records := make([]*Record, 0, len(elements))
		for _, element := range elements {
			record, ok := element.Record()
			if !ok {
				return nil, DropUnparsable
			}
			records = append(records, record)
		}

		rated := make([]*Record, 0, len(records))
		for _, record := range records {
			if result, ok := c.router.Route(record); ok {
				rated = append(rated, result)
			}
		}

		if len(rated) == 0 {
			return nil, DropUnratable
		}
		return rated, NotDropped
	}

	record, err := ParseRecord(payload)
	if err != nil {
		return nil, DropUnparsable
	}

	result, ok := c.router.Route(record)
	if !ok || result.IsEmpty() {
		return nil, DropUnratable
	}
	return []*Record{result}, NotDropped
}
