package param

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

const (
	// MaxSessionLen is the length of a session id or key: 32 random bytes, base64url.
	MaxSessionLen = 43
	// MaxNicknameLen is a nickname with its leading '@'.
	MaxNicknameLen = 17
)

// MainParams are the navigation parameters every action may receive.
// Codes are -1 when absent.
type MainParams struct {
	Action      int64  `param:"act" json:"act" validate:"code"`
	Session     string `param:"ses" json:"ses,omitempty" validate:"omitempty,max=43,urlsafe"`
	Key         string `param:"key" json:"key,omitempty" validate:"omitempty,max=43,urlsafe"`
	Country     int64  `param:"cty" json:"cty" validate:"code"`
	Institution int64  `param:"ins" json:"ins" validate:"code"`
	Centre      int64  `param:"ctr" json:"ctr" validate:"code"`
	Degree      int64  `param:"deg" json:"deg" validate:"code"`
	Course      int64  `param:"crs" json:"crs" validate:"code"`
	User        string `param:"usr" json:"usr,omitempty" validate:"omitempty,max=43,urlsafe"`
	Agenda      string `param:"agd" json:"agd,omitempty" validate:"omitempty,nickname"`
}

// HasHierarchy reports whether any level of the institutional hierarchy was selected.
func (mp MainParams) HasHierarchy() bool {
	return mp.Country > 0 || mp.Institution > 0 || mp.Centre > 0 || mp.Degree > 0 || mp.Course > 0
}

func (mp MainParams) Validate(validate *validator.Validate) error {
	return validate.Struct(mp)
}

// GetMainParams reads the navigation parameters of rc.
func GetMainParams(rc *RequestContext) (MainParams, error) {
	var (
		mp  MainParams
		err error
	)
	codes := []struct {
		name string
		dst  *int64
	}{
		{NameAction, &mp.Action},
		{NameCountry, &mp.Country},
		{NameInstitution, &mp.Institution},
		{NameCentre, &mp.Centre},
		{NameDegree, &mp.Degree},
		{NameCourse, &mp.Course},
	}
	for _, c := range codes {
		if *c.dst, err = rc.Code(c.name); err != nil {
			return mp, errors.Wrap(err, "reading main parameters")
		}
	}

	texts := []struct {
		name   string
		maxLen int
		dst    *string
	}{
		{NameSession, MaxSessionLen, &mp.Session},
		{NameKey, MaxSessionLen, &mp.Key},
		{NameUser, MaxSessionLen, &mp.User},
		{NameAgenda, MaxNicknameLen, &mp.Agenda},
	}
	for _, t := range texts {
		if *t.dst, err = rc.Text(t.name, t.maxLen); err != nil {
			return mp, errors.Wrap(err, "reading main parameters")
		}
	}
	return mp, nil
}
