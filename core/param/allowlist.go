package param

// Names of the parameters that may travel in a GET request.
const (
	NameCountry     = "cty"
	NameInstitution = "ins"
	NameCentre      = "ctr"
	NameDegree      = "deg"
	NameCourse      = "crs"
	NameUser        = "usr"
	NameAgenda      = "agd"
	NameAction      = "act"
	NameSession     = "ses"
	NameKey         = "key"
)

// getAllowed holds navigation parameters only. Everything else must be POSTed.
var getAllowed = map[string]struct{}{
	NameCountry:     {},
	NameInstitution: {},
	NameCentre:      {},
	NameDegree:      {},
	NameCourse:      {},
	NameUser:        {},
	NameAgenda:      {},
	NameAction:      {},
	NameSession:     {},
	NameKey:         {},
}

// IsAllowedInGET reports whether name may be read from, or written to, a GET query string.
func IsAllowedInGET(name string) bool {
	_, ok := getAllowed[name]
	return ok
}
