package session

import "time"

// Roles of a session user, lowest first.
const (
	RoleUnknown = iota
	RoleGuest
	RoleUser
	RoleStudent
	RoleTeacher
	RoleCentreAdmin
	RoleInstitutionAdmin
	RoleSysAdmin
)

var roleNames = map[int]string{
	RoleUnknown:          "unknown",
	RoleGuest:            "guest",
	RoleUser:             "user",
	RoleStudent:          "student",
	RoleTeacher:          "teacher",
	RoleCentreAdmin:      "centre_admin",
	RoleInstitutionAdmin: "institution_admin",
	RoleSysAdmin:         "sys_admin",
}

func RoleName(role int) string {
	if s, ok := roleNames[role]; ok {
		return s
	}
	return roleNames[RoleUnknown]
}

// Session is a logged-in user and the place of the hierarchy they last visited.
// Hierarchy codes are -1 when not selected.
type Session struct {
	ID          string    `json:"-" db:"id"`
	UserCode    int64     `json:"usr" db:"user_code"`
	Role        int       `json:"role" db:"role"`
	Country     int64     `json:"cty" db:"country"`
	Institution int64     `json:"ins" db:"institution"`
	Centre      int64     `json:"ctr" db:"centre"`
	Degree      int64     `json:"deg" db:"degree"`
	Course      int64     `json:"crs" db:"course"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`     // UTC
	LastRefresh time.Time `json:"last_refresh" db:"last_refresh"` // UTC
}

// Expired reports whether s was idle longer than timeout at now.
func (s Session) Expired(now time.Time, timeout time.Duration) bool {
	return timeout > 0 && now.Sub(s.LastRefresh) > timeout
}

// Hierarchy is the place a session is browsing.
type Hierarchy struct {
	Country     int64
	Institution int64
	Centre      int64
	Degree      int64
	Course      int64
}

// NoHierarchy selects nothing.
var NoHierarchy = Hierarchy{Country: -1, Institution: -1, Centre: -1, Degree: -1, Course: -1}

func (s Session) Hierarchy() Hierarchy {
	return Hierarchy{
		Country:     s.Country,
		Institution: s.Institution,
		Centre:      s.Centre,
		Degree:      s.Degree,
		Course:      s.Course,
	}
}

func (s *Session) SetHierarchy(h Hierarchy) {
	s.Country, s.Institution, s.Centre, s.Degree, s.Course = h.Country, h.Institution, h.Centre, h.Degree, h.Course
}
