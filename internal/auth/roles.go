package auth

// HasRole reports whether any of the principal's roles appears in the
// required set. Accounts do not carry roles yet, so no route consults
// this hook; it exists as the attachment point for role checks.
func (g *Guard) HasRole(userRoles, requiredRoles []string) bool {
	for _, role := range userRoles {
		for _, required := range requiredRoles {
			if role == required {
				return true
			}
		}
	}
	return false
}
