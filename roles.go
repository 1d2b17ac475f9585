package skemadoc

// Role selects which view of a schema to generate (for example "public"
// or "internal"). Documents and fields that do not branch on roles behave
// identically for every role.
type Role string

// DefaultRole is the role used when none is given. An empty role passed to
// any entry point is treated as DefaultRole.
const DefaultRole Role = "default"

func normalizeRole(r Role) Role {
	if r == "" {
		return DefaultRole
	}
	return r
}

// Matcher is a predicate over roles. Var cases and document role propagation
// are expressed through matchers; the engine never inspects a matcher beyond
// calling Matches.
type Matcher interface {
	Matches(r Role) bool
}

// MatcherFunc adapts a plain function to the Matcher interface.
type MatcherFunc func(Role) bool

// Matches implements Matcher.
func (f MatcherFunc) Matches(r Role) bool { return f(r) }

type roleSet struct {
	roles  map[Role]struct{}
	negate bool
}

func (s roleSet) Matches(r Role) bool {
	_, ok := s.roles[normalizeRole(r)]
	if s.negate {
		return !ok
	}
	return ok
}

// Roles matches exactly the given roles.
func Roles(rr ...Role) Matcher {
	return roleSet{roles: roleIndex(rr)}
}

// NotRoles matches every role except the given ones.
func NotRoles(rr ...Role) Matcher {
	return roleSet{roles: roleIndex(rr), negate: true}
}

func roleIndex(rr []Role) map[Role]struct{} {
	m := make(map[Role]struct{}, len(rr))
	for _, r := range rr {
		m[normalizeRole(r)] = struct{}{}
	}
	return m
}

type anyRole struct{}

func (anyRole) Matches(Role) bool { return true }

// AnyRole matches every role. It is the catch-all used by Otherwise and the
// default propagation matcher.
func AnyRole() Matcher { return anyRole{} }
