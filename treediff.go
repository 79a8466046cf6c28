// Package treediff compares two tree-shaped structured values (the in-memory
// shape of a JSON document) and reports an ordered list of semantic
// differences, each anchored to an RFC 6901 style JSON Pointer path.
//
// Callers can declare which paths are noise (ignore rules), which values are
// equal despite literal inequality (equivalence predicates), and how array
// elements pair across the two trees (by position or by a declared
// identity). Rules are looked up against normalized paths, so one
// declaration covers every instance of a repeated array shape.
//
//	cfg, err := treediff.NewBuilder().
//		List("/items", mustIdentity("id")).
//		EquivalentAt("/name", equivalence.CaseInsensitive()).
//		Build()
//	if err != nil {
//		// a rule was registered with invalid arguments
//	}
//	entries := treediff.Compare(left, right, cfg)
//
// Output ordering is fully deterministic: object fields and identity keys
// traverse in sorted order, positional elements in numeric order.
package treediff

// Compare walks both trees in lock step from the configured root path and
// returns the differences in deterministic order. A nil config compares
// with no rules. The call is synchronous and allocation of the result is
// private to it, so one Config may serve any number of concurrent Compare
// calls.
//
// Compare never fails for well-formed trees: an empty result means the
// trees are equal under the configured rules.
func Compare(left, right *Node, cfg *Config) []Entry {
	if cfg == nil {
		cfg = defaultConfig
	}
	w := &walker{cfg: cfg}
	w.walk(cfg.RootPath(), left, right)
	return w.entries
}

var defaultConfig = mustConfig(NewBuilder().Build())

func mustConfig(cfg *Config, err error) *Config {
	if err != nil {
		panic(err)
	}
	return cfg
}
