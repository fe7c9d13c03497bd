// Package joincode converts group ids to the numeric codes users type in to
// join a group, and back. The formula is an obfuscation kept for
// compatibility with codes already handed out; it is not a secret.
package joincode

import (
	"errors"
	"strconv"
	"strings"
)

const (
	multiplier = 7
	offset     = 13
)

var ErrInvalidCode = errors.New("invalid join code")

func Encode(groupID int) int {
	return groupID*multiplier + offset
}

func Decode(code int) (int, error) {
	shifted := code - offset
	if shifted%multiplier != 0 {
		return 0, ErrInvalidCode
	}
	return shifted / multiplier, nil
}

// Parse accepts the code as typed by a user.
func Parse(s string) (int, error) {
	code, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Join(ErrInvalidCode, err)
	}
	return Decode(code)
}
