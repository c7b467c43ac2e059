package domain

import "github.com/nsxbet/ddl-analyzer/pkg/types"

// DefaultTemplates returns the built-in templates in match order.
//
// The `0` defaults are strings: they match `DEFAULT '0'` and not `DEFAULT 0`.
func DefaultTemplates() []*types.DomainTemplate {
	return []*types.DomainTemplate{
		{
			Name: "varchar255_null",
			Attributes: types.Attributes{
				Type:    "varchar:255",
				Default: types.NullValue(),
			},
		},
		{
			Name: "default_pk",
			Attributes: types.Attributes{
				Type:          "int:unsigned",
				Null:          types.Bool(false),
				AutoIncrement: types.Bool(true),
			},
		},
		{
			Name: "u_int_nn_d0",
			Attributes: types.Attributes{
				Type:    "int:unsigned",
				Null:    types.Bool(false),
				Default: types.StringValue("0"),
			},
		},
		{
			Name: "bool_false",
			Attributes: types.Attributes{
				Type:    "tinyint",
				Null:    types.Bool(false),
				Default: types.StringValue("0"),
			},
		},
		{
			Name: "timestamp_null",
			Attributes: types.Attributes{
				Type:    "timestamp",
				Null:    types.Bool(true),
				Default: types.NullValue(),
			},
		},
	}
}
