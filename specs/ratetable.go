package specs

// RateTableSpec maps a usage category to its rate as configured text.
//
// Values are kept as the raw strings from the properties store. An entry whose value
// does not parse as a decimal is treated as missing and the default rate applies.
//
// Example:
//
//	{"Foo": "2.0", "NetworkOffering": "0.15", "VirtualMachine": "0.03"}
type RateTableSpec map[string]string
