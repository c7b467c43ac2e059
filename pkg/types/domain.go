package types

// DomainTemplate is a named column shape. Columns carrying every attribute of
// the template are rewritten to reference it by name.
type DomainTemplate struct {
	Name       string `json:"name" yaml:"name"`
	Attributes `yaml:",inline"`
}
