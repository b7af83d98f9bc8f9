package validation

import (
	"encoding/base64"

	validation "github.com/jellydator/validation"
)

// Base64 accepts standard padded base64, the encoding of plaintext fields and
// SealedStrings. Strict decoding rejects non-zero padding bits so one value has
// exactly one accepted encoding.
var Base64 = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := base64.StdEncoding.Strict().DecodeString(s)
		return err == nil
	},
	validation.NewError("validation_base64", "must be valid base64-encoded data"),
)
