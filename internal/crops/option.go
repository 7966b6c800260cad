package crops

// Option is an explicit optional reference to a crop definition.
// The zero value is None: an unplanted plot.
type Option struct {
	def *Definition
}

// None returns the empty option.
func None() Option {
	return Option{}
}

// Some wraps a definition. A nil definition yields None.
func Some(def *Definition) Option {
	return Option{def: def}
}

// Get returns the definition and whether one is present.
func (o Option) Get() (*Definition, bool) {
	return o.def, o.def != nil
}

// IsSome reports whether a crop is assigned.
func (o Option) IsSome() bool {
	return o.def != nil
}

// ID returns the crop ID, or "" for None.
func (o Option) ID() ID {
	if o.def == nil {
		return ""
	}
	return o.def.ID
}

// String returns the crop display name, or "none".
func (o Option) String() string {
	if o.def == nil {
		return "none"
	}
	return o.def.DisplayName()
}
