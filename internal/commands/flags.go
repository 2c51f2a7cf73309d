package commands

import "strings"

// stringSlice is a repeatable flag value (e.g. --check db --check cache).
type stringSlice []string

func (s *stringSlice) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSlice) Set(value string) error {
	*s = append(*s, value)
	return nil
}
