package testutils

import (
	. "github.com/onsi/gomega"
)

// MustFailWith expects an error matching the given sentinel.
func MustFailWith(err error, target error) {
	ExpectWithOffset(1, err).To(MatchError(target))
}
