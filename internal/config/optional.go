package config

// Optional is a configuration value with explicit presence.
// Set=false means the value was never supplied; Set=true with an empty Value means it was
// supplied as an empty string, which runners do for inputs without a default.
type Optional struct {
	Value string
	Set   bool
}

// Some returns a present Optional.
func Some(v string) Optional {
	return Optional{Value: v, Set: true}
}

// None returns an absent Optional.
func None() Optional {
	return Optional{}
}

// NonEmpty reports whether the value is present and not empty.
func (o Optional) NonEmpty() bool {
	return o.Set && o.Value != ""
}

// OrElse returns the value when NonEmpty, otherwise fallback.
func (o Optional) OrElse(fallback string) string {
	if o.NonEmpty() {
		return o.Value
	}
	return fallback
}
