// pkg/model/mapping.go
package model

import "strings"

// Role identifies the semantic meaning of a raw column.
type Role string

const (
	RoleDate     Role = "date"
	RolePrice    Role = "price"
	RoleQuantity Role = "quantity"
	RoleCustomer Role = "customer"
	RoleProduct  Role = "product"
	RoleCountry  Role = "country"
)

// Roles returns every semantic role in canonical order. The order is fixed so
// that mapping and reporting are deterministic.
func Roles() []Role {
	return []Role{RoleDate, RolePrice, RoleQuantity, RoleCustomer, RoleProduct, RoleCountry}
}

// Required reports whether standardization cannot proceed without the role
// being resolved to a real column.
func (r Role) Required() bool {
	return r == RoleDate || r == RolePrice || r == RoleQuantity
}

// CanonicalName returns the standardized column name a role maps to.
func (r Role) CanonicalName() string {
	switch r {
	case RoleDate:
		return "Date"
	case RolePrice:
		return "Amount"
	case RoleQuantity:
		return "Quantity"
	case RoleCustomer:
		return "CustomerID"
	case RoleProduct:
		return "Product"
	case RoleCountry:
		return "Country"
	default:
		return string(r)
	}
}

// ColumnMapping maps semantic roles to original column names. A missing key
// or empty value means the role is unresolved. The mapper builds the initial
// mapping; an external surface may override any entry before standardization.
type ColumnMapping map[Role]string

// Resolved returns the original column name for a role and whether the role
// resolved at all.
func (m ColumnMapping) Resolved(role Role) (string, bool) {
	col, ok := m[role]
	if !ok || col == "" {
		return "", false
	}
	return col, true
}

// ResolvedCount returns how many roles resolved to a column.
func (m ColumnMapping) ResolvedCount() int {
	count := 0
	for _, role := range Roles() {
		if _, ok := m.Resolved(role); ok {
			count++
		}
	}
	return count
}

// MissingRequired returns the required roles that did not resolve, in
// canonical role order.
func (m ColumnMapping) MissingRequired() []Role {
	var missing []Role
	for _, role := range Roles() {
		if !role.Required() {
			continue
		}
		if _, ok := m.Resolved(role); !ok {
			missing = append(missing, role)
		}
	}
	return missing
}

// ContainsFold reports whether s contains substr, case-insensitively. Column
// matching is approximate by design; this is the single comparison primitive
// every match goes through.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
