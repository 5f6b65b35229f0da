package address

import (
	"errors"

	"github.com/tidechain/tide-go/pkg/encoding/base58"
	"github.com/tidechain/tide-go/pkg/util"
)

// Prefix is the byte used to prepend to addresses when encoding them, it
// can be changed and defaults to 73 which produces addresses starting
// with "W".
var Prefix = byte(0x49)

// Uint160ToString returns the base58-encoded address from the given
// account key id.
func Uint160ToString(u util.Uint160) string {
	// Don't forget to prepend the address version.
	b := append([]byte{Prefix}, u.BytesBE()...)
	return base58.CheckEncode(b)
}

// StringToUint160 attempts to decode the given address string
// into a Uint160.
func StringToUint160(s string) (u util.Uint160, err error) {
	b, err := base58.CheckDecode(s)
	if err != nil {
		return u, err
	}
	if len(b) != util.Uint160Size+1 || b[0] != Prefix {
		return u, errors.New("wrong address prefix")
	}
	return util.Uint160DecodeBytesBE(b[1:21])
}
