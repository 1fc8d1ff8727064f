package access

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	SignInPath           = "/auth"
	GenericDashboardPath = "/dashboard"
)

type State int

const (
	StateUnauthenticated State = iota
	StateUnauthorized
	StateAuthorized
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateUnauthorized:
		return "unauthorized"
	case StateAuthorized:
		return "authorized"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Request is everything a decision depends on. RequiredRole is optional; the
// zero value means the UI surface has no explicit role requirement.
type Request struct {
	Authenticated bool
	PrincipalID   uuid.UUID
	Roles         RoleSet
	Path          string
	RequiredRole  Role
}

// Violation is a security event the caller must persist.
type Violation struct {
	PrincipalID   uuid.UUID
	AttemptedRole Role
	ActualRoles   []string
	Path          string
	OccurredAt    time.Time
}

type Decision struct {
	State           State      `json:"state"`
	Authorized      bool       `json:"authorized"`
	PrimaryRole     Role       `json:"primary_role,omitempty"`
	RedirectPath    string     `json:"redirect_path,omitempty"`
	ViolationLogged bool       `json:"violation_logged"`
	Violation       *Violation `json:"-"`
}

// FailClosed is the decision used when the role set could not be loaded.
func FailClosed() Decision {
	return Decision{
		State:        StateUnauthorized,
		RedirectPath: GenericDashboardPath,
	}
}

type Model struct {
	routes *RouteTable
	now    func() time.Time
	logger *slog.Logger
	debug  bool
}

type Option func(*Model)

func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) { m.logger = logger }
}

// WithDebug turns on per-decision debug logging.
func WithDebug(debug bool) Option {
	return func(m *Model) { m.debug = debug }
}

func NewModel(routes *RouteTable, opts ...Option) *Model {
	m := &Model{
		routes: routes,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Decide is recomputed on every call and never consults state outside req.
// The route table always wins over RequiredRole, and only the primary role is
// compared, never the union of the role set.
func (m *Model) Decide(req Request) Decision {
	if !req.Authenticated {
		return Decision{State: StateUnauthenticated, RedirectPath: SignInPath}
	}

	cleaned := CleanPath(req.Path)
	primary := req.Roles.Primary()

	if m.routes.Blocks(primary, cleaned) {
		decision := Decision{
			State:        StateUnauthorized,
			PrimaryRole:  primary,
			RedirectPath: primary.Dashboard(),
			Violation: &Violation{
				PrincipalID:   req.PrincipalID,
				AttemptedRole: primary,
				ActualRoles:   req.Roles.Strings(),
				Path:          cleaned,
				OccurredAt:    m.now().UTC(),
			},
		}
		m.trace("route blocked", req, decision)
		return decision
	}

	if req.RequiredRole != "" && req.RequiredRole != primary {
		decision := Decision{
			State:        StateUnauthorized,
			PrimaryRole:  primary,
			RedirectPath: primary.Dashboard(),
		}
		m.trace("required role not held", req, decision)
		return decision
	}

	decision := Decision{
		State:       StateAuthorized,
		Authorized:  true,
		PrimaryRole: primary,
	}
	m.trace("access granted", req, decision)
	return decision
}

func (m *Model) trace(msg string, req Request, decision Decision) {
	if !m.debug {
		return
	}
	m.logger.Debug(msg,
		"principal_id", req.PrincipalID,
		"path", req.Path,
		"required_role", req.RequiredRole,
		"primary_role", decision.PrimaryRole,
		"redirect_path", decision.RedirectPath,
	)
}
