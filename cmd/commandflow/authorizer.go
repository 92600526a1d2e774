package main

import (
	"strings"

	"github.com/cristianoliveira/commandflow/pkg/flow"
)

// permissionsKey lets an accessor carry its own grants, overriding the
// configured ones.
const permissionsKey = "commandflow.permissions"

// grantAuthorizer grants permissions from a fixed list. "*" grants
// everything and "name.*" grants name and everything below it.
type grantAuthorizer struct {
	grants []string
}

func newGrantAuthorizer(grants []string) *grantAuthorizer {
	normalized := make([]string, 0, len(grants))
	for _, g := range grants {
		if g = strings.ToLower(strings.TrimSpace(g)); g != "" {
			normalized = append(normalized, g)
		}
	}
	return &grantAuthorizer{grants: normalized}
}

func (a *grantAuthorizer) Authorized(accessor *flow.Namespace, permission string) bool {
	grants := a.grants
	if own, ok := flow.NamespaceValue[[]string](accessor, permissionsKey); ok {
		grants = newGrantAuthorizer(own).grants
	}
	return granted(grants, strings.ToLower(permission))
}

func granted(grants []string, permission string) bool {
	for _, g := range grants {
		switch {
		case g == "*", g == permission:
			return true
		case strings.HasSuffix(g, ".*"):
			base := strings.TrimSuffix(g, ".*")
			if permission == base || strings.HasPrefix(permission, base+".") {
				return true
			}
		}
	}
	return false
}
