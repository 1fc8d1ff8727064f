package access

import (
	"fmt"
	"path"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Each rule denies the subject role on the object prefix. A request matching a
// rule is blocked, so Enforce returning true means "blocked".
const routeModel = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch(r.obj, p.obj)
`

// RoutePartition assigns a path prefix to the single role that owns it. Every
// other primary role is blocked from the prefix.
type RoutePartition struct {
	Prefix string
	Owner  Role
}

// DefaultPartitions is the route-classification table of the web app.
var DefaultPartitions = []RoutePartition{
	{Prefix: "/admin", Owner: RoleAdmin},
	{Prefix: "/coach", Owner: RoleCoach},
	{Prefix: "/client", Owner: RoleClient},
}

type RouteTable struct {
	enforcer *casbin.Enforcer
}

func NewRouteTable(partitions []RoutePartition) (*RouteTable, error) {
	m, err := model.NewModelFromString(routeModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse route model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create route enforcer: %w", err)
	}

	for _, partition := range partitions {
		prefix := CleanPath(partition.Prefix)
		if prefix == "/" {
			return nil, fmt.Errorf("route partition for %s must not cover the root path", partition.Owner)
		}
		for _, role := range rolePrecedence {
			if role == partition.Owner {
				continue
			}
			for _, object := range []string{prefix, prefix + "/*"} {
				if _, err := enforcer.AddPolicy(string(role), object); err != nil {
					return nil, fmt.Errorf("failed to add route rule [%s, %s]: %w", role, object, err)
				}
			}
		}
	}

	return &RouteTable{enforcer: enforcer}, nil
}

// DefaultRouteTable builds the table from DefaultPartitions.
func DefaultRouteTable() (*RouteTable, error) {
	return NewRouteTable(DefaultPartitions)
}

// Blocks reports whether the role is hard-blocked from the path. Enforcer
// errors count as blocked.
func (t *RouteTable) Blocks(role Role, requestPath string) bool {
	blocked, err := t.enforcer.Enforce(string(role), CleanPath(requestPath))
	if err != nil {
		return true
	}
	return blocked
}

// CleanPath drops any query or fragment and normalizes the path. Paths are
// lower-cased because the router matches them case-insensitively.
func CleanPath(raw string) string {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return "/"
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return path.Clean(raw)
}
