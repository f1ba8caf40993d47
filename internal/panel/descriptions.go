package panel

// DescriptionFunc produces help text for one entry from the current element.
type DescriptionFunc func(el Element) string

// DescriptionMap maps entry ids to description functions.
type DescriptionMap map[string]DescriptionFunc

// Descriptions resolves entry descriptions. Results are not cached; the
// function for an id runs on every lookup.
type Descriptions struct {
	config DescriptionMap
}

// NewDescriptions copies config into a resolver.
func NewDescriptions(config DescriptionMap) *Descriptions {
	d := &Descriptions{}
	d.reset(config)
	return d
}

// reset swaps the configuration in place so Services values already
// handed out see the new functions.
func (d *Descriptions) reset(config DescriptionMap) {
	copied := make(DescriptionMap, len(config))
	for id, fn := range config {
		if fn != nil {
			copied[id] = fn
		}
	}
	d.config = copied
}

// Resolve returns the description for id, or "" when none is configured.
func (d *Descriptions) Resolve(id string, el Element) string {
	if d == nil {
		return ""
	}
	fn, ok := d.config[id]
	if !ok {
		return ""
	}
	return fn(el)
}

// Map returns a copy of the configured functions.
func (d *Descriptions) Map() DescriptionMap {
	out := make(DescriptionMap, len(d.config))
	for id, fn := range d.config {
		out[id] = fn
	}
	return out
}
