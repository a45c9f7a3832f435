package specs

import "encoding/json"

// Rate computes charges for one inbound payload.
//
// Process:
//  1. Parse the payload as a JSON array of records, or failing that as one record
//  2. Route each record: envelopes are rated item by item, flat records with a usage
//     field are rated directly, everything else is excluded
//  3. charge = usage × rate, where rate comes from the table or the default rate
//  4. Return the rated records in payload order
//
// Returns an empty slice when nothing in the payload is ratable (not an error).
// Returns error only when the preferences are invalid. Rate table entries that do
// not parse fall back to the default rate.
//
// Boundary signature using only primitive types.
// See internal.Rate for the reference implementation.
type Rate func(payload []byte, preferences RatingPreferencesSpec, rates RateTableSpec) ([]json.RawMessage, error)

// Dispatch partitions rated records into outbound publish calls.
//
// With credentials.Dispatch set, records are grouped by the value of categoryField,
// falling back to credentials.DefaultRoutingKey when the value is missing or empty.
// Otherwise all records form one broadcast batch.
//
// Boundary signature using only primitive types.
// See internal.Dispatch for the reference implementation.
type Dispatch func(records []json.RawMessage, credentials PublisherCredentialsSpec, categoryField string) ([]DispatchBatchSpec, error)
