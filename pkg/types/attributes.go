package types

// Attributes is the shape of a column: everything except its identity
// (name and comment).
type Attributes struct {
	Type          string `json:"type,omitempty"           yaml:"type,omitempty"`
	Default       *Value `json:"default,omitempty"        yaml:"default,omitempty"`
	Null          *bool  `json:"null,omitempty"           yaml:"null,omitempty"`
	AutoIncrement *bool  `json:"auto_increment,omitempty" yaml:"auto_increment,omitempty"`
	Charset       string `json:"charset,omitempty"        yaml:"charset,omitempty"`
	Collation     string `json:"collate,omitempty"        yaml:"collate,omitempty"`
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// IsEmpty reports whether no attribute is set.
func (a *Attributes) IsEmpty() bool {
	return a.Type == "" && a.Default == nil && a.Null == nil && a.AutoIncrement == nil &&
		a.Charset == "" && a.Collation == ""
}

// Clone returns a deep copy of a.
func (a *Attributes) Clone() *Attributes {
	if a == nil {
		return nil
	}
	c := *a
	if a.Default != nil {
		v := *a.Default
		c.Default = &v
	}
	if a.Null != nil {
		c.Null = Bool(*a.Null)
	}
	if a.AutoIncrement != nil {
		c.AutoIncrement = Bool(*a.AutoIncrement)
	}
	return &c
}

// Contains reports whether every attribute set on t is also set on a with an
// equal value. Attributes set only on a are ignored.
func (a *Attributes) Contains(t *Attributes) bool {
	if t.Type != "" && a.Type != t.Type {
		return false
	}
	if t.Default != nil && !t.Default.Equal(a.Default) {
		return false
	}
	if t.Null != nil && (a.Null == nil || *a.Null != *t.Null) {
		return false
	}
	if t.AutoIncrement != nil && (a.AutoIncrement == nil || *a.AutoIncrement != *t.AutoIncrement) {
		return false
	}
	if t.Charset != "" && a.Charset != t.Charset {
		return false
	}
	if t.Collation != "" && a.Collation != t.Collation {
		return false
	}
	return true
}

// Subtract clears on a every attribute that is set on t.
func (a *Attributes) Subtract(t *Attributes) {
	if t.Type != "" {
		a.Type = ""
	}
	if t.Default != nil {
		a.Default = nil
	}
	if t.Null != nil {
		a.Null = nil
	}
	if t.AutoIncrement != nil {
		a.AutoIncrement = nil
	}
	if t.Charset != "" {
		a.Charset = ""
	}
	if t.Collation != "" {
		a.Collation = ""
	}
}
