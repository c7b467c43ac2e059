package domain

import (
	"sort"
	"strings"

	"github.com/nsxbet/ddl-analyzer/pkg/types"
)

// Signature renders the shape of a column as a canonical string. Type,
// default, nullability and auto-increment come first in that order, the
// remaining attributes follow sorted by key:
//
//	t:int:unsigned|n:F|ai:T
//	t:varchar:255|d:null|cs:utf8mb4|co:utf8mb4_unicode_ci
func Signature(attrs *types.Attributes) string {
	var parts []string
	if attrs.Type != "" {
		parts = append(parts, "t:"+attrs.Type)
	}
	if attrs.Default != nil {
		parts = append(parts, "d:"+attrs.Default.String())
	}
	if attrs.Null != nil {
		parts = append(parts, "n:"+flag(*attrs.Null))
	}
	if attrs.AutoIncrement != nil {
		parts = append(parts, "ai:"+flag(*attrs.AutoIncrement))
	}

	rest := map[string]string{}
	if attrs.Charset != "" {
		rest["charset"] = "cs:" + attrs.Charset
	}
	if attrs.Collation != "" {
		rest["collate"] = "co:" + attrs.Collation
	}
	keys := make([]string, 0, len(rest))
	for k := range rest {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, rest[k])
	}

	return strings.Join(parts, "|")
}

func flag(b bool) string {
	if b {
		return "T"
	}
	return "F"
}
