package star

// LookupDimension holds the distinct non-null values observed in the raw
// data. Surrogate keys are assigned in insertion order; the numbers carry no
// meaning beyond uniqueness, so callers compare members by value.
type LookupDimension struct {
	name   string
	keys   map[string]int32
	values []string
}

// NewLookupDimension creates an empty lookup dimension.
func NewLookupDimension(name string) *LookupDimension {
	return &LookupDimension{name: name, keys: make(map[string]int32)}
}

// Name returns the dimension name.
func (d *LookupDimension) Name() string { return d.name }

// Intern returns the surrogate key for v, assigning a fresh one on first
// sight.
func (d *LookupDimension) Intern(v string) int32 {
	if key, ok := d.keys[v]; ok {
		return key
	}
	d.values = append(d.values, v)
	key := int32(len(d.values))
	d.keys[v] = key
	return key
}

// Key returns the surrogate key for v, or ok=false when v was never
// interned.
func (d *LookupDimension) Key(v string) (int32, bool) {
	key, ok := d.keys[v]
	return key, ok
}

// Values returns the members in insertion order; the key of Values()[i] is
// i+1.
func (d *LookupDimension) Values() []string { return d.values }

// Len returns the number of members.
func (d *LookupDimension) Len() int { return len(d.values) }
