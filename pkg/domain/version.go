package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// APIVersion is the protocol api level, e.g. 2.3.
type APIVersion struct {
	Major int
	Minor int
}

// ParseAPIVersion parses strings of the form "MAJOR.MINOR".
func ParseAPIVersion(s string) (APIVersion, error) {
	major, minor, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok {
		return APIVersion{}, fmt.Errorf("%w: api version %q must be MAJOR.MINOR", ErrInvalidArgument, s)
	}
	maj, err := strconv.Atoi(major)
	if err != nil || maj < 0 {
		return APIVersion{}, fmt.Errorf("%w: invalid api major version %q", ErrInvalidArgument, major)
	}
	mnr, err := strconv.Atoi(minor)
	if err != nil || mnr < 0 {
		return APIVersion{}, fmt.Errorf("%w: invalid api minor version %q", ErrInvalidArgument, minor)
	}
	return APIVersion{Major: maj, Minor: mnr}, nil
}

// MustParseAPIVersion is like ParseAPIVersion but panics on error.
func MustParseAPIVersion(s string) APIVersion {
	v, err := ParseAPIVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Less reports whether v is an earlier api level than o.
func (v APIVersion) Less(o APIVersion) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	return v.Minor < o.Minor
}

// IsZero reports whether the version is unset.
func (v APIVersion) IsZero() bool {
	return v.Major == 0 && v.Minor == 0
}

func (v APIVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// MarshalText implements encoding.TextMarshaler.
func (v APIVersion) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *APIVersion) UnmarshalText(b []byte) error {
	parsed, err := ParseAPIVersion(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
