package device

import (
	"fmt"
	"strconv"
	"strings"
)

// Address identifies one chip: an SPI bus and a chip select on that bus.
type Address struct {
	Bus    uint
	Select uint
}

// String is the slot prefix used by publishers, e.g. "1-0".
func (a Address) String() string {
	return fmt.Sprintf("%d-%d", a.Bus, a.Select)
}

// Spec is a successfully parsed device token.
type Spec struct {
	Token   string
	Address Address
	Profile Profile
}

// ParseToken parses "<bus>.<select>:<chiptype>".
func ParseToken(token string) (Address, Profile, error) {
	if strings.Count(token, ":") != 1 {
		return Address{}, Profile{}, &ParseError{Token: token, Err: ErrInvalidToken}
	}
	left, chip, _ := strings.Cut(token, ":")

	addr, ok := parseAddress(left)
	if !ok {
		return Address{}, Profile{}, &ParseError{Token: token, Part: left, Err: ErrInvalidAddress}
	}

	p, ok := profiles[strings.ToLower(chip)]
	if !ok {
		return Address{}, Profile{}, &ParseError{Token: token, Part: chip, Err: ErrUnknownDeviceType}
	}
	return addr, p, nil
}

// parseAddress succeeds only if both components are non-negative integers.
func parseAddress(s string) (Address, bool) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return Address{}, false
	}
	bus, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return Address{}, false
	}
	sel, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		return Address{}, false
	}
	return Address{Bus: uint(bus), Select: uint(sel)}, true
}

// ParseList parses a comma-separated device list. Every token is attempted;
// good tokens are returned in list order and every bad one yields an error.
// Empty tokens, e.g. from a trailing comma, are ignored.
func ParseList(list string) ([]Spec, []error) {
	var specs []Spec
	var errs []error
	seen := make(map[Address]string)

	for _, tok := range strings.Split(list, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		addr, p, err := ParseToken(tok)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if prev, dup := seen[addr]; dup {
			errs = append(errs, &ParseError{
				Token: tok,
				Part:  fmt.Sprintf("%s already used by %q", addr, prev),
				Err:   ErrDuplicateAddress,
			})
			continue
		}
		seen[addr] = tok
		specs = append(specs, Spec{Token: tok, Address: addr, Profile: p})
	}
	return specs, errs
}
