package rules

import "time"

type Settings map[string]interface{}

func (s Settings) String(k string) (string, bool) {
	val, found := s[k]

	if found {
		s, ok := val.(string)
		return s, ok
	} else {
		return "", false
	}
}

func (s Settings) Int(k string) (int, bool) {
	val, found := s[k]

	if found {
		i, ok := val.(int)
		return i, ok
	} else {
		return 0, false
	}
}

// Duration accepts a Go duration string, such as "90s".
func (s Settings) Duration(k string) (time.Duration, bool) {
	str, ok := s.String(k)
	if !ok {
		return 0, false
	}

	d, err := time.ParseDuration(str)
	return d, err == nil
}
