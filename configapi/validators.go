// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0

package configapi

import (
	"regexp"
)

const IMSI_PATTERN = "^[0-9]{5,15}$"

var (
	imsiRegexp  = regexp.MustCompile(IMSI_PATTERN)
	hex32Regexp = regexp.MustCompile("^[0-9a-fA-F]{32}$")
)

func isValidImsi(imsi string) bool {
	return imsiRegexp.MatchString(imsi)
}

// isHex32 reports whether s is exactly 32 hexadecimal characters, the
// required shape of subscriber K/OPC key material.
func isHex32(s string) bool {
	return hex32Regexp.MatchString(s)
}
