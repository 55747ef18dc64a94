package services

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/ghmine/internal/core/domain"
	"github.com/custodia-labs/ghmine/internal/core/ports/driven"
)

// Configuration keys read from a ConfigStore.
const (
	KeyFetchBound        = "fetch_bound"
	KeyPerPage           = "per_page"
	KeyBaseBranch        = "base_branch"
	KeyPRState           = "pr_state"
	KeyIssueState        = "issue_state"
	KeyRequestsPerSecond = "requests_per_second"
	KeyDelimiter         = "delimiter"
	KeyTimeoutSeconds    = "timeout_seconds"
	KeyMaxRetries        = "max_retries"
	KeyAPIURL            = "api_url"
)

// ApplyConfig overlays the values present in store onto base.
// Keys missing from the store leave base unchanged. Present values of the
// wrong type, a delimiter that is not one character and a non-positive
// timeout are reported as domain.ErrInvalidInput; the other keys are still
// applied.
func ApplyConfig(base domain.Settings, store driven.ConfigStore) (domain.Settings, error) {
	if store == nil {
		return base, nil
	}

	s := base
	var errs []error
	setInt := func(key string, dst *int) {
		if n, ok, err := intValue(store, key); err != nil {
			errs = append(errs, err)
		} else if ok {
			*dst = n
		}
	}
	setString := func(key string, dst *string, allowEmpty bool) {
		if v, ok, err := stringValue(store, key); err != nil {
			errs = append(errs, err)
		} else if ok && (allowEmpty || v != "") {
			*dst = v
		}
	}

	setInt(KeyFetchBound, &s.FetchBound)
	setInt(KeyPerPage, &s.PerPage)
	setString(KeyBaseBranch, &s.BaseBranch, true)
	setString(KeyPRState, &s.PRState, false)
	setString(KeyIssueState, &s.IssueState, false)
	setString(KeyAPIURL, &s.APIURL, false)
	setInt(KeyMaxRetries, &s.MaxRetries)

	if f, ok, err := floatValue(store, KeyRequestsPerSecond); err != nil {
		errs = append(errs, err)
	} else if ok {
		s.RequestsPerSecond = f
	}

	if v, ok, err := stringValue(store, KeyDelimiter); err != nil {
		errs = append(errs, err)
	} else if ok {
		r, size := utf8.DecodeRuneInString(v)
		if size == 0 || size != len(v) || r == utf8.RuneError {
			errs = append(errs, invalidValue(KeyDelimiter, "a single character", v))
		} else {
			s.Delimiter = r
		}
	}

	if n, ok, err := intValue(store, KeyTimeoutSeconds); err != nil {
		errs = append(errs, err)
	} else if ok {
		if n <= 0 {
			errs = append(errs, invalidValue(KeyTimeoutSeconds, "a positive number of seconds", n))
		} else {
			s.Timeout = time.Duration(n) * time.Second
		}
	}

	return s, errors.Join(errs...)
}

func invalidValue(key, want string, got any) error {
	return fmt.Errorf("%w: %s must be %s, got %v", domain.ErrInvalidInput, key, want, got)
}

// intValue reads an integer key. ok is false when the key is missing.
func intValue(store driven.ConfigStore, key string) (n int, ok bool, err error) {
	v, present := store.Get(key)
	if !present {
		return 0, false, nil
	}
	switch x := v.(type) {
	case int64:
		return int(x), true, nil
	case int:
		return x, true, nil
	}
	return 0, false, invalidValue(key, "an integer", v)
}

// floatValue reads a number key, accepting integers.
func floatValue(store driven.ConfigStore, key string) (f float64, ok bool, err error) {
	v, present := store.Get(key)
	if !present {
		return 0, false, nil
	}
	switch x := v.(type) {
	case float64:
		return x, true, nil
	case int64:
		return float64(x), true, nil
	case int:
		return float64(x), true, nil
	}
	return 0, false, invalidValue(key, "a number", v)
}

func stringValue(store driven.ConfigStore, key string) (s string, ok bool, err error) {
	v, present := store.Get(key)
	if !present {
		return "", false, nil
	}
	s, ok = v.(string)
	if !ok {
		return "", false, invalidValue(key, "a string", v)
	}
	return s, true, nil
}
